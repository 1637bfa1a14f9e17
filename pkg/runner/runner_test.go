package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/lifespan/pkg/extract/blocks"
	"github.com/yaklabco/lifespan/pkg/extract/markdown"
	"github.com/yaklabco/lifespan/pkg/runner"
	"github.com/yaklabco/lifespan/pkg/track"
	"github.com/yaklabco/lifespan/pkg/vcs"
	"github.com/yaklabco/lifespan/pkg/vcs/memvcs"
)

// guideHistory builds four revisions of a small document set:
//
//	r1: guide.md with sections Alpha and Beta
//	r2: Beta's body changes
//	r3: notes.md is added
//	r4: Beta is removed
func guideHistory(t *testing.T) *memvcs.Repo {
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
	return repo
}

func signatures[T any](lifespans []*track.Lifespan[T]) []string {
	out := make([]string, 0, len(lifespans))
	for _, l := range lifespans {
		out = append(out, l.Last().Signature())
	}
	return out
}

func TestRunner_TracksSections(t *testing.T) {
	t.Parallel()

	r := runner.New[markdown.Section](guideHistory(t), markdown.New())
	res, err := r.Run(context.Background(), runner.Options{Jobs: 2})
	require.NoError(t, err)

	require.Len(t, res.Lifespans, 3)
	assert.Equal(t, []string{"guide.md#Alpha", "guide.md#Beta", "notes.md#Notes"}, signatures(res.Lifespans))

	alpha, beta, notes := res.Lifespans[0], res.Lifespans[1], res.Lifespans[2]

	assert.Equal(t, 4, alpha.Len())
	assert.Equal(t, 0, alpha.Last().NumChanges())

	assert.Equal(t, 3, beta.Len())
	assert.Equal(t, 3, beta.Last().Ordinal())
	assert.Equal(t, 1, beta.Last().NumChanges())

	assert.Equal(t, 3, notes.First().Ordinal())
	assert.Equal(t, 2, notes.Len())

	assert.Equal(t, 4, res.LastOrdinal())
	assert.Equal(t, []string{"guide.md#Alpha", "notes.md#Notes"}, signatures(res.Alive()))

	assert.Equal(t, 4, res.Stats.Steps)
	assert.Equal(t, 3, res.Stats.Tracking.Created)
	assert.Equal(t, 1, res.Stats.Tracking.Changed)
	assert.Equal(t, 0, res.Stats.Tracking.Inconsistencies)
	assert.Equal(t, 2+2+3+2, res.Stats.Entities)
	assert.Equal(t, res.Stats.BySignature, res.Stats.Tracking.Updated)
}

func TestRunner_StepSummaries(t *testing.T) {
	t.Parallel()

	r := runner.New[markdown.Section](guideHistory(t), markdown.New())
	res, err := r.Run(context.Background(), runner.Options{})
	require.NoError(t, err)

	require.Len(t, res.Steps, 4)

	first := res.Steps[0]
	assert.Equal(t, 1, first.Ordinal)
	assert.Equal(t, "r1", first.Revision)
	assert.Equal(t, 1, first.FilesChanged)
	assert.Equal(t, 1, first.FilesScanned)
	assert.Equal(t, 2, first.Entities)
	assert.Zero(t, first.Links.Total())

	third := res.Steps[2]
	assert.Equal(t, 1, third.FilesChanged)
	assert.Equal(t, 2, third.FilesScanned)
	assert.Equal(t, 2, third.Links.BySignature)
}

func TestRunner_MaxSteps(t *testing.T) {
	t.Parallel()

	r := runner.New[markdown.Section](guideHistory(t), markdown.New())
	res, err := r.Run(context.Background(), runner.Options{MaxSteps: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Steps)
	assert.Equal(t, 2, res.LastOrdinal())
	assert.Len(t, res.Lifespans, 2)
}

func TestRunner_OnStep(t *testing.T) {
	t.Parallel()

	var seen []int
	opts := runner.Options{
		OnStep: func(step runner.Step) error {
			seen = append(seen, step.Ordinal)
			if step.Ordinal == 3 {
				return vcs.SkipAll
			}
			return nil
		},
	}

	res, err := runner.New[markdown.Section](guideHistory(t), markdown.New()).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, 3, res.Stats.Steps)

	boom := errors.New("boom")
	opts.OnStep = func(runner.Step) error { return boom }
	res, err = runner.New[markdown.Section](guideHistory(t), markdown.New()).Run(context.Background(), opts)
	require.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Stats.Steps)
}

func TestRunner_ExcludedFilesAreNotTracked(t *testing.T) {
	t.Parallel()

	r := runner.New[markdown.Section](guideHistory(t), markdown.New())
	res, err := r.Run(context.Background(), runner.Options{ExcludeGlobs: []string{"notes.md"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"guide.md#Alpha", "guide.md#Beta"}, signatures(res.Lifespans))
	assert.Equal(t, 2, res.Stats.FilesSkipped)
}

func TestRunner_RangeMatchingWithoutSignatures(t *testing.T) {
	t.Parallel()

	repo := memvcs.New()
	require.NoError(t, repo.Commit("r1", map[string]string{"a.txt": "x\ny\n\nz\n"}))
	require.NoError(t, repo.Commit("r2", map[string]string{"a.txt": "new\n\nx\ny\n\nz\n"}))

	res, err := runner.New[blocks.Block](repo, blocks.New()).Run(context.Background(), runner.Options{})
	require.NoError(t, err)

	require.Len(t, res.Lifespans, 3)
	assert.Equal(t, 2, res.Stats.ByRange)
	assert.Zero(t, res.Stats.BySignature)
	assert.Equal(t, 2, res.Stats.Tracking.Updated)
	assert.Zero(t, res.Stats.Tracking.Changed)

	xy := res.Lifespans[0]
	require.Equal(t, 2, xy.Len())
	loc := xy.Last().Locations()[0]
	assert.Equal(t, 3, loc.BeginLine)
	assert.Equal(t, 4, loc.EndLine)

	fresh := res.Lifespans[2]
	assert.Equal(t, 2, fresh.First().Ordinal())
	assert.Equal(t, 1, fresh.First().Locations()[0].BeginLine)
}

func TestRunner_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New[markdown.Section](guideHistory(t), markdown.New()).Run(ctx, runner.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_RequiresRepositoryAndExtractor(t *testing.T) {
	t.Parallel()

	_, err := runner.New[markdown.Section](nil, markdown.New()).Run(context.Background(), runner.Options{})
	require.Error(t, err)
}
