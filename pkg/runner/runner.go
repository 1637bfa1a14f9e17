package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/lifespan/internal/logging"
	"github.com/yaklabco/lifespan/pkg/extract"
	"github.com/yaklabco/lifespan/pkg/mapping"
	"github.com/yaklabco/lifespan/pkg/track"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Runner tracks the mappables produced by one extractor across the revision
// steps of one repository.
type Runner[T any] struct {
	// Repository supplies revision steps and file listings.
	Repository vcs.Repository

	// Extractor turns files into mappables.
	Extractor extract.Extractor[T]
}

// New creates a new Runner.
func New[T any](repo vcs.Repository, extractor extract.Extractor[T]) *Runner[T] {
	return &Runner[T]{Repository: repo, Extractor: extractor}
}

// Run walks the repository and returns the resulting lifespans.
//
// For every step the runner:
//   - Lists the files at the step's revision and filters them
//   - Extracts mappables from the selected files concurrently
//   - Maps them onto the previous step's mappables
//   - Adds the mapping result to a tracker
//
// Any error aborts the run. Errors from the walk are returned together with
// the partial result accumulated so far.
func (r *Runner[T]) Run(ctx context.Context, opts Options) (*Result[T], error) {
	if r.Repository == nil || r.Extractor == nil {
		return nil, errors.New("runner requires a repository and an extractor")
	}

	filter, err := NewFilter(opts)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	ctx = logging.WithFields(ctx, logging.FieldExtractor, r.Extractor.Name())
	logger := logging.FromContext(ctx)

	tracker := track.New[T]()
	result := &Result[T]{}

	var previous []mapping.Ref[T]

	walkErr := r.Repository.Walk(ctx, func(rr *vcs.RevisionRange) error {
		logger.Debug("visiting revision",
			logging.FieldOrdinal, rr.Ordinal,
			logging.FieldRevision, rr.Revision,
			logging.FieldPredecessor, rr.Predecessor,
			logging.FieldChanges, len(rr.FileChanges),
		)

		selected, skipped, err := r.selectFiles(ctx, filter, rr.Revision)
		if err != nil {
			return err
		}

		mappables, err := r.extractAll(ctx, selected, jobs)
		if err != nil {
			return err
		}

		if !rr.HasPredecessor() {
			previous = nil
		}

		res, err := mapping.Map(ctx, previous, mappables, rr)
		if err != nil {
			return fmt.Errorf("map revision %s: %w", rr.Revision, err)
		}
		if err := tracker.Add(ctx, res); err != nil {
			return fmt.Errorf("track revision %s: %w", rr.Revision, err)
		}
		previous = res.To()

		step := Step{
			Ordinal:      rr.Ordinal,
			Revision:     rr.Revision,
			FilesChanged: len(rr.FileChanges),
			FilesScanned: len(selected),
			Entities:     len(res.To()),
			Links:        res.Stats(),
		}
		result.accumulate(step, skipped)

		if opts.OnStep != nil {
			if err := opts.OnStep(step); err != nil {
				return err
			}
		}
		if opts.stop(result.Stats.Steps) {
			return vcs.SkipAll
		}
		return nil
	})

	result.Lifespans = tracker.Lifespans()
	result.Stats.Tracking = tracker.Stats()

	if walkErr != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("run cancelled: %w", ctx.Err())
		}
		return result, walkErr
	}

	logger.Info("tracking complete",
		logging.FieldLifespans, len(result.Lifespans),
		logging.FieldCreated, result.Stats.Tracking.Created,
		logging.FieldChanged, result.Stats.Tracking.Changed,
		logging.FieldInconsistencies, result.Stats.Tracking.Inconsistencies,
	)

	return result, nil
}

// selectFiles lists the files at revision and applies the filter and the
// extractor's language check. The returned files keep the listing order.
func (r *Runner[T]) selectFiles(ctx context.Context, filter *Filter, revision string) ([]vcs.File, int, error) {
	files, err := r.Repository.Files(ctx, revision)
	if err != nil {
		return nil, 0, fmt.Errorf("list files at %s: %w", revision, err)
	}

	selected := make([]vcs.File, 0, len(files))
	for _, f := range files {
		lang, ok, err := filter.Select(ctx, f)
		if err != nil {
			return nil, 0, err
		}
		if ok && r.Extractor.Accepts(f.Path(), lang) {
			selected = append(selected, f)
		}
	}
	return selected, len(files) - len(selected), nil
}

// extractAll runs the extractor over files with at most jobs workers and
// concatenates the results in file order.
func (r *Runner[T]) extractAll(ctx context.Context, files []vcs.File, jobs int) ([]mapping.Mappable[T], error) {
	perFile := make([][]mapping.Mappable[T], len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for idx, f := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mappables, err := r.Extractor.Extract(gctx, f)
			if err != nil {
				return fmt.Errorf("extract %s: %w", f.Path(), err)
			}
			perFile[idx] = mappables
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var out []mapping.Mappable[T]
	for _, mappables := range perFile {
		out = append(out, mappables...)
	}
	return out, nil
}
