// Package blocks extracts runs of non-blank lines from any text file.
// It needs no understanding of the language, which makes it the fallback
// extractor for files no other extractor accepts.
package blocks

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yaklabco/lifespan/pkg/extract"
	"github.com/yaklabco/lifespan/pkg/langdetect"
	"github.com/yaklabco/lifespan/pkg/mapping"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Name is the extractor name used in configuration.
const Name = "blocks"

// Block is the metadata attached to every block.
type Block struct {
	Language string `json:"language" yaml:"language"`
}

// Compile-time interface check.
var _ extract.Extractor[Block] = (*Extractor)(nil)

// Extractor implements extract.Extractor for blank-line separated blocks.
type Extractor struct {
	minLines int
	tabSize  int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinLines drops blocks shorter than n lines.
func WithMinLines(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minLines = n
		}
	}
}

// WithTabSize sets the tab width used for columns.
func WithTabSize(tabSize int) Option {
	return func(e *Extractor) {
		if tabSize > 0 {
			e.tabSize = tabSize
		}
	}
}

// New creates a block extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{minLines: 1, tabSize: vcs.DefaultTabSize}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements extract.Extractor.
func (e *Extractor) Name() string { return Name }

// Accepts implements extract.Extractor. Every text file is accepted.
func (e *Extractor) Accepts(string, string) bool { return true }

// Extract implements extract.Extractor.
func (e *Extractor) Extract(ctx context.Context, f vcs.File) ([]mapping.Mappable[Block], error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	src, err := vcs.TextOf(ctx, f)
	if err != nil {
		return nil, err
	}
	meta := Block{Language: langdetect.Detect(f.Path(), src.Content)}

	var out []mapping.Mappable[Block]
	start := 0
	flush := func(endLine int) error {
		if start == 0 || endLine-start+1 < e.minLines {
			start = 0
			return nil
		}
		begin, ok, err := vcs.PositionAt(ctx, f, start, 1, e.tabSize)
		if err != nil || !ok {
			return err
		}
		end, ok, err := vcs.EndOfLine(ctx, f, endLine, e.tabSize)
		if err != nil || !ok {
			return err
		}
		r, err := vcs.NewRange(begin, end)
		if err != nil {
			return err
		}
		out = append(out, mapping.NewEntry([]vcs.Range{r}, mapping.WithMetadata(meta)))
		start = 0
		return nil
	}

	for line := 1; line <= src.LineCount(); line++ {
		blank := len(bytes.TrimSpace(src.LineContent(line))) == 0
		switch {
		case !blank && start == 0:
			start = line
		case blank && start != 0:
			if err := flush(line - 1); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(src.LineCount()); err != nil {
		return nil, err
	}

	return out, nil
}
