package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/lifespan/pkg/analysis"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats report totals as a single line.
// Example: "12 lifespans (9 alive, 3 ended) over 40 steps, 5 changed".
func (s *Styles) FormatSummaryOneLine(totals analysis.Totals) string {
	if totals.Lifespans == 0 {
		return s.Success.Render("No entities found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s)", totals.Steps, plural(totals.Steps, "step", "steps"))) + "\n"
	}

	parts := []string{
		fmt.Sprintf("%d %s (%s, %s) over %d %s",
			totals.Lifespans, plural(totals.Lifespans, "lifespan", "lifespans"),
			s.Alive.Render(fmt.Sprintf("%d alive", totals.Alive)),
			s.Ended.Render(fmt.Sprintf("%d ended", totals.Ended)),
			totals.Steps, plural(totals.Steps, "step", "steps"),
		),
	}

	if totals.Changed > 0 {
		parts = append(parts, s.Changed.Render(fmt.Sprintf("%d changed", totals.Changed)))
	}
	if totals.Inconsistencies > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s",
			totals.Inconsistencies, plural(totals.Inconsistencies, "inconsistency", "inconsistencies"))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats report totals as a summary block.
func (s *Styles) FormatSummary(totals analysis.Totals) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-20s %s\n", label+":", value))
	}

	row("Steps", s.SummaryValue.Render(strconv.Itoa(totals.Steps)))
	row("Entities seen", s.SummaryValue.Render(strconv.Itoa(totals.Entities)))
	builder.WriteString("\n")

	row("Lifespans", s.SummaryValue.Render(strconv.Itoa(totals.Lifespans)))
	row("  Alive", s.Alive.Render(strconv.Itoa(totals.Alive)))
	row("  Ended", s.Ended.Render(strconv.Itoa(totals.Ended)))
	if totals.Changed > 0 {
		row("  Changed", s.Changed.Render(strconv.Itoa(totals.Changed)))
		row("Content changes", s.SummaryValue.Render(strconv.Itoa(totals.Changes)))
	}
	builder.WriteString("\n")

	row("Linked by signature", s.SummaryValue.Render(strconv.Itoa(totals.BySignature)))
	row("Linked by range", s.SummaryValue.Render(strconv.Itoa(totals.ByRange)))

	if totals.Inconsistencies > 0 {
		builder.WriteString("\n")
		builder.WriteString(s.Warning.Render(fmt.Sprintf("%d links to untracked entities", totals.Inconsistencies)))
		builder.WriteString("\n")
	}

	return builder.String()
}
