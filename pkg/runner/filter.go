package runner

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/lifespan/pkg/langdetect"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// pattern is a compiled glob. Patterns without a slash also match the base name.
type pattern struct {
	glob     glob.Glob
	baseOnly bool
}

func (p pattern) match(filePath string) bool {
	if p.glob.Match(filePath) {
		return true
	}
	return p.baseOnly && p.glob.Match(path.Base(filePath))
}

func compilePatterns(globs []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimPrefix(strings.TrimSpace(g), "./")
		if g == "" {
			continue
		}
		compiled, err := glob.Compile(g, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", g, err)
		}
		patterns = append(patterns, pattern{glob: compiled, baseOnly: !strings.Contains(g, "/")})
	}
	return patterns, nil
}

func matchAny(filePath string, patterns []pattern) bool {
	for _, p := range patterns {
		if p.match(filePath) {
			return true
		}
	}
	return false
}

// Filter decides which repository files are handed to an extractor.
type Filter struct {
	include    []pattern
	exclude    []pattern
	skipVendor bool
	languages  []string
}

// NewFilter compiles the file selection part of opts.
func NewFilter(opts Options) (*Filter, error) {
	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}
	return &Filter{
		include:    include,
		exclude:    exclude,
		skipVendor: opts.SkipVendor,
		languages:  opts.Languages,
	}, nil
}

// MatchPath applies the include and exclude globs to a slash separated path.
func (f *Filter) MatchPath(filePath string) bool {
	if matchAny(filePath, f.exclude) {
		return false
	}
	if len(f.include) > 0 && !matchAny(filePath, f.include) {
		return false
	}
	return true
}

// Select returns the detected language of file and whether it passes the
// filter. Content is only read for files whose path matches.
func (f *Filter) Select(ctx context.Context, file vcs.File) (string, bool, error) {
	if !f.MatchPath(file.Path()) {
		return "", false, nil
	}
	content, err := file.Content(ctx)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", file.Path(), err)
	}
	if f.skipVendor && langdetect.Skip(file.Path(), content) {
		return "", false, nil
	}
	lang := langdetect.Detect(file.Path(), content)
	if !langdetect.Matches(lang, f.languages) {
		return lang, false, nil
	}
	return lang, true, nil
}
