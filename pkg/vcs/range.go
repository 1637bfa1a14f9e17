package vcs

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrInvalidRange is returned by NewRange for ranges that violate its invariants.
var ErrInvalidRange = errors.New("invalid range")

// Range is an ordered pair of positions in the same file and revision.
type Range struct {
	Begin Position
	End   Position
}

// NewRange validates that begin and end share file and revision and that
// begin does not come after end.
func NewRange(begin, end Position) (Range, error) {
	if begin.File == nil || end.File == nil {
		return Range{}, errors.Wrap(ErrInvalidRange, "missing file")
	}
	if !begin.Comparable(end) {
		return Range{}, errors.Wrapf(ErrInvalidRange, "%s and %s are in different files", begin, end)
	}
	if begin.Offset > end.Offset {
		return Range{}, errors.Wrapf(ErrInvalidRange, "begin offset %d after end offset %d",
			begin.Offset, end.Offset)
	}
	return Range{Begin: begin, End: end}, nil
}

// RangeOf builds a range in f from two absolute offsets.
// The boolean is false if either offset is outside the file or begin > end.
func RangeOf(ctx context.Context, f File, begin, end, tabSize int) (Range, bool, error) {
	if begin > end {
		return Range{}, false, nil
	}
	bpos, ok, err := PositionOf(ctx, f, begin, tabSize)
	if err != nil || !ok {
		return Range{}, false, err
	}
	epos, ok, err := PositionOf(ctx, f, end, tabSize)
	if err != nil || !ok {
		return Range{}, false, err
	}
	return Range{Begin: bpos, End: epos}, true, nil
}

// File returns the file the range belongs to.
func (r Range) File() File { return r.Begin.File }

// Path returns the relative path of the range's file.
func (r Range) Path() string { return r.Begin.Path() }

// Revision returns the revision of the range's file.
func (r Range) Revision() string { return r.Begin.Revision() }

// Len returns the number of bytes covered by the range.
func (r Range) Len() int { return r.End.Offset - r.Begin.Offset }

// Contains reports whether offset lies within [Begin.Offset, End.Offset].
func (r Range) Contains(offset int) bool {
	return offset >= r.Begin.Offset && offset <= r.End.Offset
}

// Merge combines r and other when they share file and revision and overlap or
// are at most one offset apart. The result spans both ranges.
func (r Range) Merge(other Range) (Range, bool) {
	if !r.Begin.Comparable(other.Begin) {
		return Range{}, false
	}

	first, second := r, other
	if other.Begin.Offset < r.Begin.Offset {
		first, second = other, r
	}
	if first.End.Offset+1 < second.Begin.Offset {
		return Range{}, false
	}

	end := first.End
	if second.End.Offset > end.Offset {
		end = second.End
	}
	return Range{Begin: first.Begin, End: end}, true
}

// Content returns the text covered by the range.
func (r Range) Content(ctx context.Context) (string, error) {
	text, err := TextOf(ctx, r.File())
	if err != nil {
		return "", err
	}
	if r.Begin.Offset < 0 || r.End.Offset > len(text.Content) || r.Begin.Offset > r.End.Offset {
		return "", errors.Wrapf(ErrInvalidRange, "[%d,%d) outside %s@%s (%d bytes)",
			r.Begin.Offset, r.End.Offset, r.Path(), r.Revision(), len(text.Content))
	}
	return string(text.Content[r.Begin.Offset:r.End.Offset]), nil
}

// String formats the range as path@revision:[begin,end).
func (r Range) String() string {
	return fmt.Sprintf("%s@%s:[%d,%d)", r.Path(), r.Revision(), r.Begin.Offset, r.End.Offset)
}
