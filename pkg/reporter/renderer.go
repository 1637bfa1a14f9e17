package reporter

import (
	"context"

	"github.com/yaklabco/lifespan/pkg/analysis"
)

// Renderer writes an analyzed tracking run. Every format sees the same
// report: totals, per-file aggregates and the lifespans that passed the
// analysis filters, already sorted.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

var (
	_ Renderer = (*TextRenderer)(nil)
	_ Renderer = (*TableRenderer)(nil)
	_ Renderer = (*JSONRenderer)(nil)
	_ Renderer = (*YAMLRenderer)(nil)
	_ Renderer = (*SummaryRenderer)(nil)
)
