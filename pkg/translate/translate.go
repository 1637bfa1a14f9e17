// Package translate maps a range from an old file's coordinate space into
// the coordinate space of its successor, using the line diff of a
// vcs.FileChange.
//
// An exact, position-preserving translation is attempted first. When the
// diff touches the range itself, a line-level heuristic shrinks or shifts
// the range instead. The heuristic only looks at whether the first and last
// lines of the range were deleted.
package translate

import (
	"context"
	"fmt"

	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Range translates r across change. r must lie in change.Old.
//
// The boolean is false when no new range can be derived. That is a normal
// outcome; the error is reserved for failures reading the diff or content.
func Range(ctx context.Context, r vcs.Range, change *vcs.FileChange) (vcs.Range, bool, error) {
	if change == nil || change.Old == nil {
		return vcs.Range{}, false, nil
	}
	if change.Old.Path() != r.Path() {
		return vcs.Range{}, false, fmt.Errorf("range %s does not belong to %s", r, change)
	}
	if change.Kind() == vcs.ChangeRemove {
		return vcs.Range{}, false, nil
	}

	diff, err := change.Diff(ctx)
	if err != nil {
		return vcs.Range{}, false, fmt.Errorf("translate %s: %w", r, err)
	}

	translated, ok, err := shift(ctx, r, change.New, diff)
	if err != nil || ok {
		return translated, ok, err
	}

	return heuristic(ctx, r, change.New, diff)
}

// shift moves the range by the number of lines inserted or deleted before it,
// keeping each position's offset within its line. It fails when any diff
// line falls within the range.
func shift(ctx context.Context, r vcs.Range, target vcs.File, diff []vcs.LineChange) (vcs.Range, bool, error) {
	begin, end := r.Begin.Line, r.End.Line
	delta := 0

	for _, lc := range diff {
		switch lc.Kind {
		case vcs.LineDelete:
			switch {
			case lc.Line < begin:
				delta--
			case lc.Line <= end:
				return vcs.Range{}, false, nil
			}
		case vcs.LineInsert:
			// Express the inserted line in old-file numbering.
			oldLine := lc.Line - delta
			switch {
			case oldLine <= begin:
				delta++
			case oldLine <= end:
				return vcs.Range{}, false, nil
			}
		}
	}

	oldText, err := vcs.TextOf(ctx, r.File())
	if err != nil {
		return vcs.Range{}, false, fmt.Errorf("translate %s: %w", r, err)
	}
	newText, err := vcs.TextOf(ctx, target)
	if err != nil {
		return vcs.Range{}, false, fmt.Errorf("translate %s: %w", r, err)
	}

	beginOffset, ok := moveOffset(oldText, newText, r.Begin, delta)
	if !ok {
		return vcs.Range{}, false, nil
	}
	endOffset, ok := moveOffset(oldText, newText, r.End, delta)
	if !ok {
		return vcs.Range{}, false, nil
	}

	return vcs.RangeOf(ctx, target, beginOffset, endOffset, tabWidth(r))
}

// moveOffset carries pos to line pos.Line+delta of the new text, keeping its
// byte offset relative to the line start.
func moveOffset(oldText, newText *vcs.Text, pos vcs.Position, delta int) (int, bool) {
	if len(oldText.Lines) == 0 {
		return 0, false
	}
	oldLine, newLine := pos.Line, pos.Line+delta
	if oldLine < 1 || oldLine > len(oldText.Lines) || newLine < 1 || newLine > len(newText.Lines) {
		return 0, false
	}

	within := pos.Offset - oldText.Lines[oldLine-1].Start
	info := newText.Lines[newLine-1]
	if within < 0 || info.Start+within > info.End {
		return 0, false
	}
	return info.Start + within, true
}

func tabWidth(r vcs.Range) int {
	if r.Begin.TabSize > 0 {
		return r.Begin.TabSize
	}
	return vcs.DefaultTabSize
}

// heuristic derives a whole-line range from whether the first and last
// lines of r were deleted.
func heuristic(ctx context.Context, r vcs.Range, target vcs.File, diff []vcs.LineChange) (vcs.Range, bool, error) {
	beginLine, endLine := r.Begin.Line, r.End.Line

	var beginDeleted, endDeleted bool
	for _, lc := range diff {
		if lc.Kind != vcs.LineDelete {
			continue
		}
		if lc.Line == beginLine {
			beginDeleted = true
		}
		if lc.Line == endLine {
			endDeleted = true
		}
	}

	switch {
	case beginDeleted && endDeleted && beginLine == endLine:
		text, err := vcs.TextOf(ctx, target)
		if err != nil {
			return vcs.Range{}, false, fmt.Errorf("translate %s: %w", r, err)
		}
		if beginLine > text.LineCount() {
			return vcs.Range{}, false, nil
		}
		beginLine, endLine = 1, 1
	case beginDeleted && endDeleted && endLine-beginLine == 1:
		beginLine--
		endLine--
	case beginDeleted && endDeleted:
		beginLine++
		endLine--
	case endDeleted:
		beginLine++
	default:
		endLine--
	}

	return resolveLines(ctx, target, tabWidth(r), beginLine, endLine)
}

// resolveLines anchors at column 1 of beginLine and extends to the end of endLine.
func resolveLines(ctx context.Context, f vcs.File, tabSize, beginLine, endLine int) (vcs.Range, bool, error) {
	begin, ok, err := vcs.PositionAt(ctx, f, beginLine, 1, tabSize)
	if err != nil || !ok {
		return vcs.Range{}, false, err
	}
	end, ok, err := vcs.EndOfLine(ctx, f, endLine, tabSize)
	if err != nil || !ok {
		return vcs.Range{}, false, err
	}
	return build(begin, end)
}

func build(begin, end vcs.Position) (vcs.Range, bool, error) {
	r, err := vcs.NewRange(begin, end)
	if err != nil {
		return vcs.Range{}, false, nil //nolint:nilerr // an inverted range is an untranslatable range
	}
	return r, true, nil
}
