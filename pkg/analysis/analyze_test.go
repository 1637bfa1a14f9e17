package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/lifespan/pkg/extract/markdown"
	"github.com/yaklabco/lifespan/pkg/runner"
	"github.com/yaklabco/lifespan/pkg/vcs/memvcs"
)

// trackedGuide runs the markdown extractor over four revisions in which
// section Beta changes once and then disappears, and notes.md appears.
func trackedGuide(t *testing.T) *runner.Result[markdown.Section] {
	t.Helper()

	repo := memvcs.New()
	require.NoError(t, repo.Commit("r1", map[string]string{
		"guide.md": "# Alpha\n\none\n\n# Beta\n\ntwo\n",
	}))
	require.NoError(t, repo.Commit("r2", map[string]string{
		"guide.md": "# Alpha\n\none\n\n# Beta\n\nthree\n",
	}))
	require.NoError(t, repo.Commit("r3", map[string]string{
		"guide.md": "# Alpha\n\none\n\n# Beta\n\nthree\n",
		"notes.md": "# Notes\n",
	}))
	require.NoError(t, repo.Commit("r4", map[string]string{
		"guide.md": "# Alpha\n\none\n",
		"notes.md": "# Notes\n",
	}))

	res, err := runner.New[markdown.Section](repo, markdown.New()).Run(context.Background(), runner.Options{})
	require.NoError(t, err)
	return res
}

func ids(entries []LifespanEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze[markdown.Section](nil, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.False(t, report.Totals.HasLifespans())
	assert.Empty(t, report.Lifespans)
	assert.Empty(t, report.ByFile)
}

func TestAnalyze_CountsTotals(t *testing.T) {
	t.Parallel()

	report := Analyze(trackedGuide(t), DefaultOptions())

	assert.Equal(t, 4, report.Totals.Steps)
	assert.Equal(t, 9, report.Totals.Entities)
	assert.Equal(t, 3, report.Totals.Lifespans)
	assert.Equal(t, 3, report.Totals.Reported)
	assert.Equal(t, 2, report.Totals.Alive)
	assert.Equal(t, 1, report.Totals.Ended)
	assert.Equal(t, 1, report.Totals.Changed)
	assert.Equal(t, 1, report.Totals.Changes)
	assert.Equal(t, 6, report.Totals.BySignature)
	assert.Zero(t, report.Totals.ByRange)
	assert.False(t, report.Totals.HasInconsistencies())
	assert.Empty(t, report.Steps)
}

func TestAnalyze_Entry(t *testing.T) {
	t.Parallel()

	report := Analyze(trackedGuide(t), DefaultOptions())
	require.Len(t, report.Lifespans, 3)

	beta := report.Lifespans[0]
	assert.Equal(t, 2, beta.ID)
	assert.Equal(t, "guide.md#Beta", beta.Signature)
	assert.Equal(t, "guide.md", beta.Path)
	assert.Equal(t, "r1", beta.FirstRevision)
	assert.Equal(t, "r3", beta.LastRevision)
	assert.Equal(t, 3, beta.Snapshots)
	assert.Equal(t, 3, beta.Age())
	assert.Equal(t, 1, beta.Changes)
	assert.False(t, beta.Alive)
	require.Len(t, beta.Locations, 1)
	assert.Equal(t, 5, beta.Locations[0].BeginLine)
	assert.Equal(t, 7, beta.Locations[0].EndLine)
}

func TestAnalyze_Sorting(t *testing.T) {
	t.Parallel()

	result := trackedGuide(t)

	tests := []struct {
		name string
		by   SortField
		desc bool
		want []int
	}{
		{name: "changes descending", by: SortByChanges, desc: true, want: []int{2, 1, 3}},
		{name: "changes ascending", by: SortByChanges, want: []int{1, 3, 2}},
		{name: "age descending", by: SortByAge, desc: true, want: []int{1, 2, 3}},
		{name: "age ascending", by: SortByAge, want: []int{3, 2, 1}},
		{name: "alpha ignores direction", by: SortByAlpha, desc: true, want: []int{1, 2, 3}},
		{name: "creation", by: SortByCreation, want: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.SortBy = tt.by
			opts.SortDesc = tt.desc
			assert.Equal(t, tt.want, ids(Analyze(result, opts).Lifespans))
		})
	}
}

func TestAnalyze_Filters(t *testing.T) {
	t.Parallel()

	result := trackedGuide(t)

	opts := DefaultOptions()
	opts.MinChanges = 1
	report := Analyze(result, opts)
	assert.Equal(t, []int{2}, ids(report.Lifespans))
	assert.Equal(t, 1, report.Totals.Reported)
	assert.Equal(t, 3, report.Totals.Lifespans)

	opts = DefaultOptions()
	opts.AliveOnly = true
	opts.SortBy = SortByCreation
	report = Analyze(result, opts)
	assert.Equal(t, []int{1, 3}, ids(report.Lifespans))
}

func TestAnalyze_GroupsByFile(t *testing.T) {
	t.Parallel()

	report := Analyze(trackedGuide(t), DefaultOptions())

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, FileAnalysis{Path: "guide.md", Lifespans: 2, Alive: 1, Changes: 1}, report.ByFile[0])
	assert.Equal(t, FileAnalysis{Path: "notes.md", Lifespans: 1, Alive: 1, Changes: 0}, report.ByFile[1])
}

func TestAnalyze_OptionalViews(t *testing.T) {
	t.Parallel()

	opts := Options{IncludeSteps: true}
	report := Analyze(trackedGuide(t), opts)

	assert.Empty(t, report.Lifespans)
	assert.Empty(t, report.ByFile)
	require.Len(t, report.Steps, 4)
	assert.Equal(t, "r4", report.Steps[3].Revision)
	assert.Equal(t, 3, report.Totals.Reported)
}
