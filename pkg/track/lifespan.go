package track

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Lifespan is the ordered history of one logical entity. Ordinals and change
// counts never decrease along it.
type Lifespan[T any] struct {
	id       int
	entities []*Entity[T]
}

func newLifespan[T any](id int, first *Entity[T]) *Lifespan[T] {
	return &Lifespan[T]{id: id, entities: []*Entity[T]{first}}
}

// ID is the lifespan's position in creation order, starting at 1.
func (l *Lifespan[T]) ID() int { return l.id }

// Len returns the number of snapshots.
func (l *Lifespan[T]) Len() int { return len(l.entities) }

// First returns the oldest snapshot.
func (l *Lifespan[T]) First() *Entity[T] { return l.entities[0] }

// Last returns the newest snapshot.
func (l *Lifespan[T]) Last() *Entity[T] { return l.entities[len(l.entities)-1] }

// Entities returns a copy of all snapshots, oldest first.
func (l *Lifespan[T]) Entities() []*Entity[T] { return slices.Clone(l.entities) }

// At returns the snapshot taken at ordinal, if any.
func (l *Lifespan[T]) At(ordinal int) (*Entity[T], bool) {
	idx, found := slices.BinarySearchFunc(l.entities, ordinal, func(e *Entity[T], target int) int {
		return e.ordinal - target
	})
	if !found {
		return nil, false
	}
	return l.entities[idx], true
}

// Alive reports whether the entity was still present at the given step.
func (l *Lifespan[T]) Alive(ordinal int) bool {
	return l.Last().ordinal >= ordinal
}

// Add appends e. Entities going back in ordinal or change count are
// rejected as assertion failures.
func (l *Lifespan[T]) Add(e *Entity[T]) error {
	if e == nil {
		return errors.AssertionFailedf("lifespan %d: nil entity", l.id)
	}
	if err := l.check(e); err != nil {
		return err
	}
	l.entities = append(l.entities, e)
	return nil
}

func (l *Lifespan[T]) check(e *Entity[T]) error {
	last := l.Last()
	if e.ordinal < last.ordinal {
		return errors.AssertionFailedf("lifespan %d: ordinal %d precedes last ordinal %d",
			l.id, e.ordinal, last.ordinal)
	}
	if e.numChanges < last.numChanges {
		return errors.AssertionFailedf("lifespan %d: change count %d below last count %d",
			l.id, e.numChanges, last.numChanges)
	}
	return nil
}
