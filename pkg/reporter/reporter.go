// Package reporter renders tracking reports in human and machine readable formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/lifespan/pkg/analysis"
	"github.com/yaklabco/lifespan/pkg/runner"
)

// Report analyzes result and renders it. It returns the number of lifespans
// that passed the analysis filters.
func Report[T any](ctx context.Context, renderer Renderer, result *runner.Result[T], opts analysis.Options) (int, error) {
	report := analysis.Analyze(result, opts)
	if err := renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Reported, nil
}

// New creates a Renderer for the specified options.
func New(opts Options) (Renderer, error) {
	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONRenderer(opts), nil
	case FormatYAML:
		return NewYAMLRenderer(opts), nil
	case FormatTable:
		return NewTableRenderer(opts), nil
	case FormatText:
		return NewTextRenderer(opts), nil
	case FormatSummary:
		return NewSummaryRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
