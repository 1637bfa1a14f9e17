package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/lifespan/internal/ui/pretty"
	"github.com/yaklabco/lifespan/pkg/analysis"
	"github.com/yaklabco/lifespan/pkg/runner"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth        = 80 // Width of table separators (same for both tables).
	fileColWidth      = 50 // Width of the file path column.
	revColWidth       = 14 // Width of the revision column.
	numColWidth       = 9  // Width of numeric columns.
	maxFilePathLength = 48 // Maximum characters for file path before truncation.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats reports as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if !report.Totals.HasLifespans() {
		fmt.Fprintln(r.out, r.styles.Success.Render("No entities found"))
		return nil
	}

	if len(report.ByFile) > 0 {
		r.renderFileTable(report.ByFile)
		fmt.Fprintln(r.out)
	}
	if len(report.Steps) > 0 {
		r.renderStepTable(report.Steps)
		fmt.Fprintln(r.out)
	}

	fmt.Fprint(r.out, r.styles.FormatSummary(report.Totals))
	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Lifespans", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Alive", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Changes", numColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		paddedPath := padRight(path, fileColWidth)
		if file.Changes > 0 {
			paddedPath = r.styles.TableChangedRow.Render(paddedPath)
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			paddedPath,
			padLeft(strconv.Itoa(file.Lifespans), numColWidth),
			padLeft(strconv.Itoa(file.Alive), numColWidth),
			padLeft(strconv.Itoa(file.Changes), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderStepTable(steps []runner.Step) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Steps Summary"))
	r.separator()

	fmt.Fprintf(r.out, "%s %s %s %s %s %s\n",
		r.styles.TableHeader.Render(padLeft("Step", numColWidth-4)),
		r.styles.TableHeader.Render(padRight("Revision", revColWidth)),
		r.styles.TableHeader.Render(padLeft("Changed", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Entities", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Signature", numColWidth+1)),
		r.styles.TableHeader.Render(padLeft("Range", numColWidth)),
	)
	r.separator()

	for _, step := range steps {
		fmt.Fprintf(r.out, "%s %s %s %s %s %s\n",
			padLeft(strconv.Itoa(step.Ordinal), numColWidth-4),
			r.styles.Revision.Render(padRight(pretty.ShortRevision(step.Revision), revColWidth)),
			padLeft(strconv.Itoa(step.FilesChanged), numColWidth),
			padLeft(strconv.Itoa(step.Entities), numColWidth),
			padLeft(strconv.Itoa(step.Links.BySignature), numColWidth+1),
			padLeft(strconv.Itoa(step.Links.ByRange), numColWidth),
		)
	}
}
