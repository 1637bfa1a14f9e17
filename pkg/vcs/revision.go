package vcs

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// SkipAll may be returned from a Walk callback to stop the walk without error.
var SkipAll = errors.New("skip remaining revisions") //nolint:revive,staticcheck // mirrors fs.SkipAll

// Commit is one commit belonging to a revision step.
type Commit struct {
	ID      string
	Author  string
	Message string
	Time    time.Time
}

// RevisionRange is one step of a linear traversal: the changes that lead
// from Predecessor to Revision.
type RevisionRange struct {
	// Ordinal increases monotonically with every step.
	Ordinal int

	// Revision is the current revision.
	Revision string

	// Predecessor is the previous revision, or "" for the first step.
	Predecessor string

	// FileChanges lists the changed files in a stable order.
	FileChanges []*FileChange

	// Commits lists the commits of this step, oldest first.
	Commits []Commit
}

// HasPredecessor reports whether the step has a previous revision.
func (r *RevisionRange) HasPredecessor() bool {
	return r.Predecessor != ""
}

// ChangesFrom returns all non-add file changes whose old path equals path.
func (r *RevisionRange) ChangesFrom(path string) []*FileChange {
	var out []*FileChange
	for _, fc := range r.FileChanges {
		if fc.Kind() == ChangeAdd {
			continue
		}
		if fc.OldPath() == path {
			out = append(out, fc)
		}
	}
	return out
}

// Repository is a source of revision steps and the files they contain.
type Repository interface {
	// Walk calls fn for every revision step, in order. Returning SkipAll
	// from fn stops the walk and Walk returns nil.
	Walk(ctx context.Context, fn func(*RevisionRange) error) error

	// Files lists all files present at revision, sorted by path.
	Files(ctx context.Context, revision string) ([]File, error)
}
