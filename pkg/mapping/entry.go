package mapping

import (
	"slices"

	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Entry is a ready-made Mappable for producers that do not need custom
// matching behavior.
type Entry[T any] struct {
	ranges      []vcs.Range
	signature   string
	metadata    T
	hasMetadata bool
}

// Compile-time interface checks.
var (
	_ Mappable[struct{}]  = (*Entry[struct{}])(nil)
	_ Signer              = (*Entry[struct{}])(nil)
	_ Annotated[struct{}] = (*Entry[struct{}])(nil)
)

// EntryOption configures an Entry.
type EntryOption[T any] func(*Entry[T])

// WithSignature sets the entry's signature.
func WithSignature[T any](signature string) EntryOption[T] {
	return func(e *Entry[T]) {
		e.signature = signature
	}
}

// WithMetadata attaches metadata to the entry.
func WithMetadata[T any](metadata T) EntryOption[T] {
	return func(e *Entry[T]) {
		e.metadata = metadata
		e.hasMetadata = true
	}
}

// NewEntry creates an Entry over a copy of ranges.
func NewEntry[T any](ranges []vcs.Range, opts ...EntryOption[T]) *Entry[T] {
	e := &Entry[T]{ranges: slices.Clone(ranges)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ranges implements Mappable.
func (e *Entry[T]) Ranges() []vcs.Range { return e.ranges }

// Signature implements Signer.
func (e *Entry[T]) Signature() string { return e.signature }

// Metadata implements Annotated.
func (e *Entry[T]) Metadata() (T, bool) { return e.metadata, e.hasMetadata }
