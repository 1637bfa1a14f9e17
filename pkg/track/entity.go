// Package track accumulates mapping results into lifespans: one append-only
// history of snapshots per logical entity.
package track

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/yaklabco/lifespan/pkg/mapping"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Location is a detached copy of one range: it keeps coordinates but no
// reference to the file or its content.
type Location struct {
	Path        string `json:"path"         yaml:"path"`
	BeginLine   int    `json:"begin_line"   yaml:"begin_line"`
	BeginColumn int    `json:"begin_column" yaml:"begin_column"`
	BeginOffset int    `json:"begin_offset" yaml:"begin_offset"`
	EndLine     int    `json:"end_line"     yaml:"end_line"`
	EndColumn   int    `json:"end_column"   yaml:"end_column"`
	EndOffset   int    `json:"end_offset"   yaml:"end_offset"`
}

// LocationOf copies the coordinates of r.
func LocationOf(r vcs.Range) Location {
	return Location{
		Path:        r.Path(),
		BeginLine:   r.Begin.Line,
		BeginColumn: r.Begin.Column,
		BeginOffset: r.Begin.Offset,
		EndLine:     r.End.Line,
		EndColumn:   r.End.Column,
		EndOffset:   r.End.Offset,
	}
}

// String formats the location as path:line:col-line:col.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.Path, l.BeginLine, l.BeginColumn, l.EndLine, l.EndColumn)
}

// Entity is an immutable snapshot of a mappable at one revision step.
type Entity[T any] struct {
	ordinal     int
	revision    string
	locations   []Location
	numChanges  int
	signature   string
	metadata    T
	hasMetadata bool
}

// NewEntity snapshots m at the given step. m must have at least one range
// and numChanges must not be negative; violations are assertion failures.
func NewEntity[T any](ordinal int, m mapping.Mappable[T], numChanges int) (*Entity[T], error) {
	if m == nil {
		return nil, errors.AssertionFailedf("entity at step %d: nil mappable", ordinal)
	}
	ranges := m.Ranges()
	if len(ranges) == 0 {
		return nil, errors.AssertionFailedf("entity at step %d: mappable has no ranges", ordinal)
	}
	if numChanges < 0 {
		return nil, errors.AssertionFailedf("entity at step %d: negative change count %d", ordinal, numChanges)
	}

	locations := make([]Location, len(ranges))
	for i, r := range ranges {
		locations[i] = LocationOf(r)
	}

	e := &Entity[T]{
		ordinal:    ordinal,
		revision:   ranges[0].Revision(),
		locations:  locations,
		numChanges: numChanges,
		signature:  mapping.SignatureOf[T](m),
	}
	e.metadata, e.hasMetadata = mapping.MetadataOf[T](m)

	return e, nil
}

// Ordinal returns the step at which the snapshot was taken.
func (e *Entity[T]) Ordinal() int { return e.ordinal }

// Revision returns the revision the snapshot was taken from.
func (e *Entity[T]) Revision() string { return e.revision }

// Locations returns a copy of the snapshot's locations.
func (e *Entity[T]) Locations() []Location {
	out := make([]Location, len(e.locations))
	copy(out, e.locations)
	return out
}

// NumChanges returns how many times the entity's content changed so far.
func (e *Entity[T]) NumChanges() int { return e.numChanges }

// Signature returns the mappable's signature at snapshot time.
func (e *Entity[T]) Signature() string { return e.signature }

// Metadata returns the mappable's metadata at snapshot time.
func (e *Entity[T]) Metadata() (T, bool) { return e.metadata, e.hasMetadata }
