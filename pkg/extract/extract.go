// Package extract defines how mappables are produced from repository files.
package extract

import (
	"context"

	"github.com/yaklabco/lifespan/pkg/mapping"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Extractor produces the mappables found in one file.
// Implementations must be safe for concurrent use on different files.
type Extractor[T any] interface {
	// Name identifies the extractor in configuration and reports.
	Name() string

	// Accepts reports whether the extractor handles files of this language.
	Accepts(path, language string) bool

	// Extract returns the mappables of f. All ranges must lie in f.
	Extract(ctx context.Context, f vcs.File) ([]mapping.Mappable[T], error)
}
