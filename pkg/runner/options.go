// Package runner drives extraction, mapping and tracking over the revision
// steps of a repository.
package runner

// Options controls which files are considered and how a run is bounded.
type Options struct {
	// IncludeGlobs restricts extraction to paths matching any pattern.
	// Empty means every path.
	IncludeGlobs []string

	// ExcludeGlobs skips paths matching any pattern. Exclusion wins over
	// inclusion.
	ExcludeGlobs []string

	// SkipVendor skips vendored, generated and binary files.
	SkipVendor bool

	// Languages restricts extraction to files detected as one of these
	// languages. Empty means every language.
	Languages []string

	// MaxSteps stops the walk after this many revision steps.
	// 0 or negative means no limit.
	MaxSteps int

	// Jobs bounds concurrent extraction within one step.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// OnStep, if set, is called after every tracked step. Returning
	// vcs.SkipAll stops the run without error.
	OnStep func(Step) error
}

// DefaultExcludeGlobs returns the exclusion patterns used when none are configured.
func DefaultExcludeGlobs() []string {
	return []string{".git/**", "node_modules/**", "**/node_modules/**"}
}

// stop reports whether the walk should end after the given step.
func (o Options) stop(steps int) bool {
	return o.MaxSteps > 0 && steps >= o.MaxSteps
}
