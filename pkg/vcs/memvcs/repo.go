// Package memvcs provides an in-memory vcs.Repository built from scripted
// snapshots. It is used by tests and by callers that already hold the
// revisions they want to track.
package memvcs

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/yaklabco/lifespan/pkg/vcs"
)

// ErrUnknownRevision is returned for revisions that were never committed.
var ErrUnknownRevision = errors.New("unknown revision")

// Compile-time interface check.
var _ vcs.Repository = (*Repo)(nil)

// snapshot is one committed revision.
type snapshot struct {
	commit  vcs.Commit
	files   map[string]*vcs.StaticFile
	renames map[string]string // new path -> old path
}

// Repo is an in-memory linear history. It is not safe for concurrent mutation.
type Repo struct {
	snapshots []*snapshot
	index     map[string]int
}

// New creates an empty repository.
func New() *Repo {
	return &Repo{index: make(map[string]int)}
}

// CommitOption customizes a commit.
type CommitOption func(*snapshot)

// WithRename records that newPath was moved from oldPath in this commit.
func WithRename(oldPath, newPath string) CommitOption {
	return func(s *snapshot) {
		s.renames[newPath] = oldPath
	}
}

// WithMessage sets the commit message.
func WithMessage(message string) CommitOption {
	return func(s *snapshot) {
		s.commit.Message = message
	}
}

// WithAuthor sets the commit author and time.
func WithAuthor(author string, when time.Time) CommitOption {
	return func(s *snapshot) {
		s.commit.Author = author
		s.commit.Time = when
	}
}

// Commit records a full snapshot of the tree under the given revision id.
// files maps slash-separated paths to their content.
func (r *Repo) Commit(revision string, files map[string]string, opts ...CommitOption) error {
	if revision == "" {
		return errors.New("empty revision id")
	}
	if _, exists := r.index[revision]; exists {
		return fmt.Errorf("revision %q already committed", revision)
	}

	snap := &snapshot{
		commit:  vcs.Commit{ID: revision},
		files:   make(map[string]*vcs.StaticFile, len(files)),
		renames: make(map[string]string),
	}
	for path, content := range files {
		snap.files[path] = vcs.NewStaticFile(path, revision, []byte(content))
	}
	for _, opt := range opts {
		opt(snap)
	}

	for newPath, oldPath := range snap.renames {
		if _, ok := snap.files[newPath]; !ok {
			return fmt.Errorf("rename target %q not in revision %q", newPath, revision)
		}
		if len(r.snapshots) == 0 {
			return fmt.Errorf("rename of %q in first revision", oldPath)
		}
		if _, ok := r.snapshots[len(r.snapshots)-1].files[oldPath]; !ok {
			return fmt.Errorf("rename source %q not in previous revision", oldPath)
		}
	}

	r.index[revision] = len(r.snapshots)
	r.snapshots = append(r.snapshots, snap)

	return nil
}

// Len returns the number of committed revisions.
func (r *Repo) Len() int {
	return len(r.snapshots)
}

// File returns one file of a revision.
func (r *Repo) File(revision, path string) (vcs.File, error) {
	idx, ok := r.index[revision]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRevision, revision)
	}
	f, ok := r.snapshots[idx].files[path]
	if !ok {
		return nil, fmt.Errorf("file %s not in revision %s", path, revision)
	}
	return f, nil
}

// Files implements vcs.Repository.
func (r *Repo) Files(ctx context.Context, revision string) ([]vcs.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	idx, ok := r.index[revision]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRevision, revision)
	}

	snap := r.snapshots[idx]
	out := make([]vcs.File, 0, len(snap.files))
	for _, path := range slices.Sorted(maps.Keys(snap.files)) {
		out = append(out, snap.files[path])
	}
	return out, nil
}

// Walk implements vcs.Repository. Ordinals start at 1.
func (r *Repo) Walk(ctx context.Context, fn func(*vcs.RevisionRange) error) error {
	for idx, snap := range r.snapshots {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("walk cancelled: %w", err)
		}

		rr := &vcs.RevisionRange{
			Ordinal:  idx + 1,
			Revision: snap.commit.ID,
			Commits:  []vcs.Commit{snap.commit},
		}

		var prev *snapshot
		if idx > 0 {
			prev = r.snapshots[idx-1]
			rr.Predecessor = prev.commit.ID
		}
		rr.FileChanges = changesBetween(prev, snap)

		if err := fn(rr); err != nil {
			if errors.Is(err, vcs.SkipAll) {
				return nil
			}
			return err
		}
	}
	return nil
}

// changesBetween derives the file changes leading from prev to next.
// Changes are ordered by path, removals after additions and modifications.
func changesBetween(prev, next *snapshot) []*vcs.FileChange {
	var changes []*vcs.FileChange

	movedAway := make(map[string]bool, len(next.renames))
	for _, oldPath := range next.renames {
		movedAway[oldPath] = true
	}

	for _, path := range slices.Sorted(maps.Keys(next.files)) {
		newFile := next.files[path]

		if oldPath, renamed := next.renames[path]; renamed {
			changes = append(changes, vcs.NewFileChange(prev.files[oldPath], newFile))
			continue
		}

		var oldFile *vcs.StaticFile
		if prev != nil {
			oldFile = prev.files[path]
		}
		if oldFile == nil || movedAway[path] {
			changes = append(changes, vcs.NewFileChange(nil, newFile))
			continue
		}

		if !sameContent(oldFile, newFile) {
			changes = append(changes, vcs.NewFileChange(oldFile, newFile))
		}
	}

	if prev != nil {
		for _, path := range slices.Sorted(maps.Keys(prev.files)) {
			if _, kept := next.files[path]; kept && !movedAway[path] {
				continue
			}
			if movedAway[path] {
				continue
			}
			changes = append(changes, vcs.NewFileChange(prev.files[path], nil))
		}
	}

	return changes
}

func sameContent(a, b *vcs.StaticFile) bool {
	ctx := context.Background()
	ac, _ := a.Content(ctx)
	bc, _ := b.Content(ctx)
	return string(ac) == string(bc)
}
