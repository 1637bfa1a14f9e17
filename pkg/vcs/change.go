package vcs

import (
	"context"
	"fmt"
)

// ChangeKind classifies a FileChange.
type ChangeKind int

const (
	// ChangeAdd means the file did not exist before.
	ChangeAdd ChangeKind = iota
	// ChangeRemove means the file no longer exists.
	ChangeRemove
	// ChangeModify means the file kept its path.
	ChangeModify
	// ChangeRelocate means the file moved to a different path.
	ChangeRelocate
)

// String returns a human-readable name for the kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	case ChangeModify:
		return "modify"
	case ChangeRelocate:
		return "relocate"
	default:
		return "unknown"
	}
}

// LineKind is the kind of a LineChange.
type LineKind int

const (
	// LineInsert marks a line present only in the new file.
	LineInsert LineKind = iota
	// LineDelete marks a line present only in the old file.
	LineDelete
)

// String returns a human-readable name for the kind.
func (k LineKind) String() string {
	switch k {
	case LineInsert:
		return "insert"
	case LineDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// LineChange is one line of a diff. Deleted lines are numbered in the old
// file, inserted lines in the new file; both 1-based.
type LineChange struct {
	Line int
	Kind LineKind
}

// FileChange describes what happened to one file in a revision step.
// Old is nil for added files and New is nil for removed files.
type FileChange struct {
	Old File
	New File

	diff    []LineChange
	diffErr error
	done    bool
}

// NewFileChange creates a FileChange. At least one side must be non-nil.
func NewFileChange(old, newFile File) *FileChange {
	return &FileChange{Old: old, New: newFile}
}

// Kind derives the change kind from the presence and paths of both sides.
func (c *FileChange) Kind() ChangeKind {
	switch {
	case c.Old == nil:
		return ChangeAdd
	case c.New == nil:
		return ChangeRemove
	case c.Old.Path() == c.New.Path():
		return ChangeModify
	default:
		return ChangeRelocate
	}
}

// OldPath returns the old file's path, or "" for added files.
func (c *FileChange) OldPath() string {
	if c.Old == nil {
		return ""
	}
	return c.Old.Path()
}

// NewPath returns the new file's path, or "" for removed files.
func (c *FileChange) NewPath() string {
	if c.New == nil {
		return ""
	}
	return c.New.Path()
}

// Diff returns the ordered line diff between the old and new content.
// The result is computed once and cached; it is not safe for concurrent use.
func (c *FileChange) Diff(ctx context.Context) ([]LineChange, error) {
	if c.done {
		return c.diff, c.diffErr
	}

	var oldContent, newContent []byte
	if c.Old != nil {
		content, err := c.Old.Content(ctx)
		if err != nil {
			return nil, fmt.Errorf("read old %s: %w", c.Old.Path(), err)
		}
		oldContent = content
	}
	if c.New != nil {
		content, err := c.New.Content(ctx)
		if err != nil {
			return nil, fmt.Errorf("read new %s: %w", c.New.Path(), err)
		}
		newContent = content
	}

	c.diff = DiffLines(oldContent, newContent)
	c.done = true

	return c.diff, nil
}

// LineDelta returns the number of inserted minus the number of deleted lines.
func (c *FileChange) LineDelta(ctx context.Context) (int, error) {
	diff, err := c.Diff(ctx)
	if err != nil {
		return 0, err
	}
	delta := 0
	for _, lc := range diff {
		if lc.Kind == LineInsert {
			delta++
		} else {
			delta--
		}
	}
	return delta, nil
}

// String describes the change, e.g. "modify docs/a.md".
func (c *FileChange) String() string {
	switch c.Kind() {
	case ChangeAdd:
		return "add " + c.NewPath()
	case ChangeRemove:
		return "remove " + c.OldPath()
	case ChangeRelocate:
		return "relocate " + c.OldPath() + " -> " + c.NewPath()
	default:
		return "modify " + c.NewPath()
	}
}
