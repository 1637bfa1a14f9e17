package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/lifespan/internal/ui/pretty"
	"github.com/yaklabco/lifespan/pkg/analysis"
)

// TextRenderer formats lifespans as styled terminal output, one block per lifespan.
type TextRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	for i := range report.Lifespans {
		r.writeEntry(bw, &report.Lifespans[i])
	}

	if r.opts.ShowSummary {
		if len(report.Lifespans) > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(report.Totals))
	}

	return nil
}

func (r *TextRenderer) writeEntry(bw *bufio.Writer, entry *analysis.LifespanEntry) {
	header := r.styles.FilePath.Render(pretty.FormatLocation(entry))
	if entry.Signature != "" {
		header += "  " + r.styles.Signature.Render(entry.Signature)
	}
	fmt.Fprintln(bw, header)

	status := r.styles.Alive.Render("alive")
	if !entry.Alive {
		status = r.styles.Ended.Render("ended")
	}

	changes := fmt.Sprintf("%d %s", entry.Changes, plural(entry.Changes, "change", "changes"))
	if entry.Changes > 0 {
		changes = r.styles.Changed.Render(changes)
	}

	fmt.Fprintf(bw, "  %s %s → %s, %d %s, %s, %s\n",
		r.styles.Dim.Render(fmt.Sprintf("#%d", entry.ID)),
		r.styles.Revision.Render(pretty.ShortRevision(entry.FirstRevision)),
		r.styles.Revision.Render(pretty.ShortRevision(entry.LastRevision)),
		entry.Snapshots, plural(entry.Snapshots, "snapshot", "snapshots"),
		changes,
		status,
	)

	if r.opts.ShowLocations {
		for _, loc := range entry.Locations {
			fmt.Fprintln(bw, "    "+r.styles.Location.Render(loc.String()))
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
