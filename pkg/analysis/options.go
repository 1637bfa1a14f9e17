package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByChanges sorts by content change count (descending by default).
	SortByChanges SortField = "changes"
	// SortByAge sorts by the number of steps a lifespan covers.
	SortByAge SortField = "age"
	// SortByAlpha sorts alphabetically by path, then signature.
	SortByAlpha SortField = "alpha"
	// SortByCreation keeps creation order.
	SortByCreation SortField = "created"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByChanges, SortByAge, SortByAlpha, SortByCreation:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeLifespans includes the flat lifespan list.
	IncludeLifespans bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeSteps includes the per-step summaries.
	IncludeSteps bool

	// SortBy specifies how to sort Lifespans and ByFile.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// MinChanges drops lifespans that changed fewer times.
	MinChanges int

	// AliveOnly drops lifespans that ended before the last step.
	AliveOnly bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeLifespans: true,
		IncludeByFile:    true,
		IncludeSteps:     false,
		SortBy:           SortByChanges,
		SortDesc:         true,
	}
}
