package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/lifespan/pkg/analysis"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 7 // ID, LOCATION, SIGNATURE, BORN, LAST, AGE, CHANGES
	minIDWidth       = 2
	minLocWidth      = 20
	minSigWidth      = 20
	minRevWidth      = 8
	minNumWidth      = 7
	heavySeparator   = "="
	defaultTermWidth = 100
)

// TableRow represents a single row in the lifespan table.
type TableRow struct {
	ID        string
	Location  string
	Signature string
	Born      string
	Last      string
	Age       string
	Changes   string
	Alive     bool
	Changed   bool
}

// RowFor converts a report entry to a table row.
func RowFor(entry *analysis.LifespanEntry) TableRow {
	return TableRow{
		ID:        strconv.Itoa(entry.ID),
		Location:  FormatLocation(entry),
		Signature: entry.Signature,
		Born:      ShortRevision(entry.FirstRevision),
		Last:      ShortRevision(entry.LastRevision),
		Age:       strconv.Itoa(entry.Age()),
		Changes:   strconv.Itoa(entry.Changes),
		Alive:     entry.Alive,
		Changed:   entry.Changes > 0,
	}
}

// FormatLocation formats the entry's last known location as path:begin-end,
// using lines of the first range.
func FormatLocation(entry *analysis.LifespanEntry) string {
	if len(entry.Locations) == 0 {
		return entry.Path
	}
	loc := entry.Locations[0]
	if loc.BeginLine == loc.EndLine {
		return fmt.Sprintf("%s:%d", loc.Path, loc.BeginLine)
	}
	return fmt.Sprintf("%s:%d-%d", loc.Path, loc.BeginLine, loc.EndLine)
}

type columnWidths struct {
	id, loc, sig, rev, num int
}

// TableFormatter formats lifespans as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats the report's lifespans as a styled table.
func (t *TableFormatter) FormatTable(entries []analysis.LifespanEntry) string {
	if len(entries) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(entries))
	for i := range entries {
		rows = append(rows, RowFor(&entries[i]))
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		id:  minIDWidth,
		loc: minLocWidth,
		sig: minSigWidth,
		rev: minRevWidth,
		num: minNumWidth,
	}

	for _, row := range rows {
		widths.id = max(widths.id, len(row.ID))
		widths.loc = max(widths.loc, len(row.Location))
		widths.sig = max(widths.sig, len(row.Signature))
		widths.rev = max(widths.rev, len(row.Born), len(row.Last))
	}

	// Constrain to terminal width: signature shrinks first, then location.
	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		excess := totalWidth - t.termWidth
		widths.sig = max(minSigWidth, widths.sig-excess)

		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.loc = max(minLocWidth, widths.loc-excess)
		}
	}

	return widths
}

func (t *TableFormatter) calculateTotalWidth(w columnWidths) int {
	return w.id + w.loc + w.sig + 2*w.rev + 2*w.num + tablePadding*tableColumnCount
}

func (t *TableFormatter) formatHeader(w columnWidths) string {
	header := fmt.Sprintf(" %*s  %-*s  %-*s  %-*s  %-*s  %*s  %*s",
		w.id, "ID",
		w.loc, "LOCATION",
		w.sig, "SIGNATURE",
		w.rev, "BORN",
		w.rev, "LAST",
		w.num, "AGE",
		w.num, "CHANGES",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(w columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.calculateTotalWidth(w)))
}

func (t *TableFormatter) formatRow(row TableRow, w columnWidths) string {
	content := fmt.Sprintf(" %*s  %-*s  %-*s  %-*s  %-*s  %*s  %*s",
		w.id, row.ID,
		w.loc, truncateFilePath(row.Location, w.loc),
		w.sig, truncateString(row.Signature, w.sig),
		w.rev, row.Born,
		w.rev, row.Last,
		w.num, row.Age,
		w.num, row.Changes,
	)
	return t.rowStyle(row).Render(content)
}

func (t *TableFormatter) rowStyle(row TableRow) lipgloss.Style {
	switch {
	case !row.Alive:
		return t.styles.TableEndedRow
	case row.Changed:
		return t.styles.TableChangedRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: AGE = steps from birth to last snapshot")
	}
	return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: %s  %s",
		t.styles.TableChangedRow.Render("changed"),
		t.styles.TableEndedRow.Render("ended"),
	))
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(totals analysis.Totals) string {
	parts := []string{
		fmt.Sprintf("%d steps", totals.Steps),
		fmt.Sprintf("%d of %d lifespans shown", totals.Reported, totals.Lifespans),
		t.styles.Alive.Render(fmt.Sprintf("%d alive", totals.Alive)),
	}
	if totals.Changed > 0 {
		parts = append(parts, t.styles.Changed.Render(fmt.Sprintf("%d changed", totals.Changed)))
	}
	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
