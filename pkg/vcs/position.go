package vcs

import (
	"context"
	"fmt"
)

// DefaultTabSize is the tab width used when none is configured.
const DefaultTabSize = 4

// Position is an absolute location in a file at one revision.
// Line and Column are derived from Offset and are 1-based; Column is
// tab-aware with respect to TabSize.
type Position struct {
	File    File
	Offset  int
	Line    int
	Column  int
	TabSize int
}

// Path returns the relative path of the position's file.
func (p Position) Path() string {
	if p.File == nil {
		return ""
	}
	return p.File.Path()
}

// Revision returns the revision of the position's file.
func (p Position) Revision() string {
	if p.File == nil {
		return ""
	}
	return p.File.Revision()
}

// Comparable reports whether p and other refer to the same file and revision.
func (p Position) Comparable(other Position) bool {
	return SameFile(p.File, other.File)
}

// String formats the position as path@revision:line:column.
func (p Position) String() string {
	return fmt.Sprintf("%s@%s:%d:%d", p.Path(), p.Revision(), p.Line, p.Column)
}

// PositionAt resolves a 1-based line and column in f.
// The boolean is false when the line or column is out of bounds.
func PositionAt(ctx context.Context, f File, line, column, tabSize int) (Position, bool, error) {
	text, err := TextOf(ctx, f)
	if err != nil {
		return Position{}, false, err
	}

	offset, ok := text.Offset(line, column, tabSize)
	if !ok {
		return Position{}, false, nil
	}

	return Position{
		File:    f,
		Offset:  offset,
		Line:    line,
		Column:  column,
		TabSize: tabSize,
	}, true, nil
}

// PositionOf derives the line and column of an absolute offset in f.
// The boolean is false when offset lies outside the file.
func PositionOf(ctx context.Context, f File, offset, tabSize int) (Position, bool, error) {
	text, err := TextOf(ctx, f)
	if err != nil {
		return Position{}, false, err
	}

	line, column, ok := text.LineColumn(offset, tabSize)
	if !ok {
		return Position{}, false, nil
	}

	return Position{
		File:    f,
		Offset:  offset,
		Line:    line,
		Column:  column,
		TabSize: tabSize,
	}, true, nil
}

// EndOfLine returns the position where the given line's terminator begins.
func EndOfLine(ctx context.Context, f File, line, tabSize int) (Position, bool, error) {
	text, err := TextOf(ctx, f)
	if err != nil {
		return Position{}, false, err
	}
	if line < 1 || line > text.LineCount() {
		return Position{}, false, nil
	}
	return PositionOf(ctx, f, text.Lines[line-1].ContentEnd, tabSize)
}
