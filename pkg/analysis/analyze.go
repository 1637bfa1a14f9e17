// Package analysis turns a tracking run into a report that renderers can
// consume without knowing the tracked metadata type.
package analysis

import (
	"cmp"
	"slices"
	"time"

	"github.com/yaklabco/lifespan/pkg/runner"
	"github.com/yaklabco/lifespan/pkg/track"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// Analyze transforms a runner.Result into a Report.
// Totals cover every lifespan; the list views only those passing opts.
func Analyze[T any](result *runner.Result[T], opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	last := result.LastOrdinal()

	report.Totals.Steps = result.Stats.Steps
	report.Totals.Entities = result.Stats.Entities
	report.Totals.BySignature = result.Stats.BySignature
	report.Totals.ByRange = result.Stats.ByRange
	report.Totals.Inconsistencies = result.Stats.Tracking.Inconsistencies

	entries := make([]LifespanEntry, 0, len(result.Lifespans))
	for _, l := range result.Lifespans {
		entry := newEntry(l, last)

		report.Totals.Lifespans++
		report.Totals.Changes += entry.Changes
		if entry.Alive {
			report.Totals.Alive++
		} else {
			report.Totals.Ended++
		}
		if entry.Changes > 0 {
			report.Totals.Changed++
		}

		if entry.Changes < opts.MinChanges || (opts.AliveOnly && !entry.Alive) {
			continue
		}
		entries = append(entries, entry)
	}
	report.Totals.Reported = len(entries)

	sortEntries(entries, opts.SortBy, opts.SortDesc)

	if opts.IncludeByFile {
		report.ByFile = buildByFile(entries, opts)
	}
	if opts.IncludeLifespans {
		report.Lifespans = entries
	}
	if opts.IncludeSteps {
		report.Steps = slices.Clone(result.Steps)
	}

	return report
}

func newEntry[T any](l *track.Lifespan[T], lastOrdinal int) LifespanEntry {
	first, latest := l.First(), l.Last()
	locations := latest.Locations()
	return LifespanEntry{
		ID:            l.ID(),
		Signature:     latest.Signature(),
		Path:          locations[0].Path,
		FirstOrdinal:  first.Ordinal(),
		LastOrdinal:   latest.Ordinal(),
		FirstRevision: first.Revision(),
		LastRevision:  latest.Revision(),
		Snapshots:     l.Len(),
		Changes:       latest.NumChanges(),
		Alive:         l.Alive(lastOrdinal),
		Locations:     locations,
	}
}

func buildByFile(entries []LifespanEntry, opts Options) []FileAnalysis {
	byPath := make(map[string]*FileAnalysis)
	for _, e := range entries {
		fa, ok := byPath[e.Path]
		if !ok {
			fa = &FileAnalysis{Path: e.Path}
			byPath[e.Path] = fa
		}
		fa.Lifespans++
		fa.Changes += e.Changes
		if e.Alive {
			fa.Alive++
		}
	}

	result := make([]FileAnalysis, 0, len(byPath))
	for _, fa := range byPath {
		result = append(result, *fa)
	}
	sortFiles(result, opts.SortBy, opts.SortDesc)
	return result
}

func sortEntries(entries []LifespanEntry, sortBy SortField, desc bool) {
	slices.SortStableFunc(entries, func(left, right LifespanEntry) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			result = cmp.Or(cmp.Compare(left.Path, right.Path), cmp.Compare(left.Signature, right.Signature))
			return cmp.Or(result, cmp.Compare(left.ID, right.ID))
		case SortByCreation:
			return cmp.Compare(left.ID, right.ID)
		case SortByAge:
			result = cmp.Compare(left.Age(), right.Age())
		default: // SortByChanges
			result = cmp.Compare(left.Changes, right.Changes)
		}
		if desc {
			result = -result
		}
		return cmp.Or(result, cmp.Compare(left.ID, right.ID))
	})
}

func sortFiles(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha, SortByCreation, SortByAge:
			return cmp.Compare(left.Path, right.Path)
		default: // SortByChanges
			result = cmp.Compare(left.Changes, right.Changes)
		}
		if desc {
			result = -result
		}
		return cmp.Or(result, cmp.Compare(left.Path, right.Path))
	})
}
