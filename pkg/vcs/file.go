// Package vcs models the version-control view consumed by the tracking core:
// files at a revision, positions and ranges within them, file changes with
// their line diffs, and the revision steps of a linear history.
//
// Values in this package are produced by a backend (see memvcs and gitvcs)
// and are read-only to the rest of the module.
package vcs

import (
	"context"
	"fmt"
	"sync"
)

// File is a single file as it exists at one revision.
type File interface {
	// Path is the path relative to the repository root, slash separated.
	Path() string

	// Revision identifies the revision the file belongs to.
	Revision() string

	// Content reads the full file content.
	Content(ctx context.Context) ([]byte, error)
}

// TextProvider is implemented by files that cache their line index.
type TextProvider interface {
	Text(ctx context.Context) (*Text, error)
}

// TextOf returns the line index for f, using the file's cache when it has one.
func TextOf(ctx context.Context, f File) (*Text, error) {
	if f == nil {
		return nil, fmt.Errorf("text of nil file")
	}
	if tp, ok := f.(TextProvider); ok {
		return tp.Text(ctx)
	}
	content, err := f.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s@%s: %w", f.Path(), f.Revision(), err)
	}
	return NewText(content), nil
}

// SameFile reports whether a and b denote the same path at the same revision.
func SameFile(a, b File) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Path() == b.Path() && a.Revision() == b.Revision()
}

// StaticFile is an in-memory File with a lazily built line index.
type StaticFile struct {
	path     string
	revision string
	content  []byte

	once sync.Once
	text *Text
}

// Compile-time interface checks.
var (
	_ File         = (*StaticFile)(nil)
	_ TextProvider = (*StaticFile)(nil)
)

// NewStaticFile creates a StaticFile. The content slice is copied.
func NewStaticFile(path, revision string, content []byte) *StaticFile {
	buf := make([]byte, len(content))
	copy(buf, content)
	return &StaticFile{path: path, revision: revision, content: buf}
}

// Path implements File.
func (f *StaticFile) Path() string { return f.path }

// Revision implements File.
func (f *StaticFile) Revision() string { return f.revision }

// Content implements File.
func (f *StaticFile) Content(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return f.content, nil
}

// Text implements TextProvider.
func (f *StaticFile) Text(ctx context.Context) (*Text, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	f.once.Do(func() {
		f.text = NewText(f.content)
	})
	return f.text, nil
}

// String returns path@revision.
func (f *StaticFile) String() string {
	return f.path + "@" + f.revision
}
