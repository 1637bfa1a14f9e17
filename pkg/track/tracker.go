package track

import (
	"context"
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/yaklabco/lifespan/internal/logging"
	"github.com/yaklabco/lifespan/pkg/mapping"
)

// Stats are cumulative counters over all steps added to a Tracker.
type Stats struct {
	// Steps is the number of results added.
	Steps int `json:"steps" yaml:"steps"`

	// Created counts lifespans started.
	Created int `json:"created" yaml:"created"`

	// Updated counts snapshots appended to existing lifespans.
	Updated int `json:"updated" yaml:"updated"`

	// Changed counts updates whose content differed from the predecessor.
	Changed int `json:"changed" yaml:"changed"`

	// Inconsistencies counts entries whose predecessor was linked by the
	// mapping but unknown to the tracker.
	Inconsistencies int `json:"inconsistencies" yaml:"inconsistencies"`
}

// Tracker turns a sequence of mapping results into lifespans. It remembers
// only the previous step's entries. It is not safe for concurrent use.
type Tracker[T any] struct {
	lifespans []*Lifespan[T]
	state     state[T]
	stats     Stats
}

// state is the one-step memory threaded from one Add to the next.
type state[T any] struct {
	ordinal int
	started bool
	owners  map[mapping.Token]*Lifespan[T]
}

// New creates an empty Tracker.
func New[T any]() *Tracker[T] {
	return &Tracker[T]{state: state[T]{owners: make(map[mapping.Token]*Lifespan[T])}}
}

// update is a snapshot to append to an existing lifespan.
type update[T any] struct {
	owner   *Lifespan[T]
	entity  *Entity[T]
	token   mapping.Token
	changed bool
}

// creation is a snapshot that starts a new lifespan.
type creation[T any] struct {
	entity *Entity[T]
	token  mapping.Token
}

// plan is everything one Add will apply.
type plan[T any] struct {
	updates         []update[T]
	creations       []creation[T]
	inconsistencies int
}

// Add records the result of one mapping step. Steps must be added in
// strictly increasing ordinal order. On error nothing is applied.
func (t *Tracker[T]) Add(ctx context.Context, res *mapping.Result[T]) error {
	if res == nil {
		return errors.AssertionFailedf("nil mapping result")
	}
	if t.state.started && res.Ordinal() <= t.state.ordinal {
		return errors.AssertionFailedf("step %d added after step %d", res.Ordinal(), t.state.ordinal)
	}

	p, err := t.plan(ctx, res)
	if err != nil {
		return err
	}
	t.commit(res.Ordinal(), p)

	logging.FromContext(ctx).Debug("tracked revision step",
		logging.FieldOrdinal, res.Ordinal(),
		logging.FieldCreated, len(p.creations),
		logging.FieldUpdated, len(p.updates),
		logging.FieldLifespans, len(t.lifespans),
	)

	return nil
}

func (t *Tracker[T]) plan(ctx context.Context, res *mapping.Result[T]) (*plan[T], error) {
	p := &plan[T]{}
	targeted := make(map[*Lifespan[T]]bool)

	for _, to := range res.To() {
		pred, linked := res.Predecessor(to.Token)

		var owner *Lifespan[T]
		if linked {
			owner = t.state.owners[pred.Token]
			if owner == nil {
				p.inconsistencies++
				logging.FromContext(ctx).Warn("predecessor not tracked, starting new lifespan",
					logging.FieldOrdinal, res.Ordinal(),
					logging.FieldFrom, pred.Token.String(),
					logging.FieldTo, to.Token.String(),
					logging.FieldSignature, mapping.SignatureOf[T](to.Mappable),
				)
			}
		}

		if owner == nil {
			entity, err := NewEntity[T](res.Ordinal(), to.Mappable, 0)
			if err != nil {
				return nil, err
			}
			p.creations = append(p.creations, creation[T]{entity: entity, token: to.Token})
			continue
		}

		if targeted[owner] {
			return nil, errors.AssertionFailedf("lifespan %d linked twice at step %d", owner.id, res.Ordinal())
		}
		targeted[owner] = true

		differ, err := ContentsDiffer[T](ctx, pred.Mappable, to.Mappable)
		if err != nil {
			return nil, err
		}

		numChanges := owner.Last().numChanges
		if differ {
			numChanges++
		}
		entity, err := NewEntity[T](res.Ordinal(), to.Mappable, numChanges)
		if err != nil {
			return nil, err
		}
		if err := owner.check(entity); err != nil {
			return nil, err
		}
		p.updates = append(p.updates, update[T]{owner: owner, entity: entity, token: to.Token, changed: differ})
	}

	return p, nil
}

func (t *Tracker[T]) commit(ordinal int, p *plan[T]) {
	owners := make(map[mapping.Token]*Lifespan[T], len(p.creations)+len(p.updates))

	for _, c := range p.creations {
		l := newLifespan(len(t.lifespans)+1, c.entity)
		t.lifespans = append(t.lifespans, l)
		owners[c.token] = l
	}
	for _, u := range p.updates {
		u.owner.entities = append(u.owner.entities, u.entity)
		owners[u.token] = u.owner
		if u.changed {
			t.stats.Changed++
		}
	}

	t.state = state[T]{ordinal: ordinal, started: true, owners: owners}
	t.stats.Steps++
	t.stats.Created += len(p.creations)
	t.stats.Updated += len(p.updates)
	t.stats.Inconsistencies += p.inconsistencies
}

// Lifespans returns all lifespans in creation order.
func (t *Tracker[T]) Lifespans() []*Lifespan[T] {
	return slices.Clone(t.lifespans)
}

// Owner returns the lifespan that the given entry of the latest step belongs to.
func (t *Tracker[T]) Owner(token mapping.Token) (*Lifespan[T], bool) {
	l, ok := t.state.owners[token]
	return l, ok
}

// Stats returns the cumulative counters.
func (t *Tracker[T]) Stats() Stats {
	return t.stats
}

// ContentsDiffer reports whether the texts covered by from and to differ,
// comparing them as multisets: order does not matter, multiplicity does.
func ContentsDiffer[T any](ctx context.Context, from, to mapping.Mappable[T]) (bool, error) {
	fromRanges, toRanges := from.Ranges(), to.Ranges()
	if len(fromRanges) != len(toRanges) {
		return true, nil
	}

	remaining := make(map[string]int, len(toRanges))
	for _, r := range toRanges {
		content, err := r.Content(ctx)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", r, err)
		}
		remaining[content]++
	}

	for _, r := range fromRanges {
		content, err := r.Content(ctx)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", r, err)
		}
		if remaining[content] == 0 {
			return true, nil
		}
		remaining[content]--
	}

	for content, n := range remaining {
		if n != 0 {
			return false, errors.AssertionFailedf("%d unmatched occurrences of %q left after comparison", n, content)
		}
	}
	return false, nil
}
