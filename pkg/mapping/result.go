package mapping

import (
	"fmt"
	"slices"
)

// Token identifies a mappable within a tracking session. It is assigned when
// the mappable enters Map as a `to` entry (or through Admit) and stays with
// it when the same mappable is passed on as a `from` entry in the next step.
type Token struct {
	// Ordinal is the step in which the mappable was detected.
	Ordinal int

	// Index is the mappable's position in that step's input.
	Index int
}

// String formats the token as ordinal:index.
func (t Token) String() string {
	return fmt.Sprintf("%d:%d", t.Ordinal, t.Index)
}

// Ref pairs a mappable with its token.
type Ref[T any] struct {
	Token    Token
	Mappable Mappable[T]
}

// Admit assigns tokens to mappables that enter tracking without a preceding
// step, for example the initial `from` collection. Nil mappables are skipped
// but still consume an index.
func Admit[T any](ordinal int, mappables []Mappable[T]) []Ref[T] {
	refs := make([]Ref[T], 0, len(mappables))
	for idx, m := range mappables {
		if m == nil {
			continue
		}
		refs = append(refs, Ref[T]{Token: Token{Ordinal: ordinal, Index: idx}, Mappable: m})
	}
	return refs
}

// Link is one from → to association.
type Link struct {
	From Token
	To   Token
}

// Stats counts links by the stage that produced them.
type Stats struct {
	BySignature int `json:"by_signature" yaml:"by_signature"`
	ByRange     int `json:"by_range"     yaml:"by_range"`
}

// Total returns the number of links.
func (s Stats) Total() int {
	return s.BySignature + s.ByRange
}

// Result is the outcome of one Map call. It is immutable.
type Result[T any] struct {
	ordinal int
	from    []Ref[T]
	to      []Ref[T]

	// links in the order they were established.
	links      []Link
	successors map[Token]Token
	toIndex    map[Token]int
	fromIndex  map[Token]int
	stats      Stats
}

func newResult[T any](ordinal int, from, to []Ref[T]) *Result[T] {
	res := &Result[T]{
		ordinal:    ordinal,
		from:       from,
		to:         to,
		successors: make(map[Token]Token),
		toIndex:    make(map[Token]int, len(to)),
		fromIndex:  make(map[Token]int, len(from)),
	}
	for i, ref := range from {
		res.fromIndex[ref.Token] = i
	}
	for i, ref := range to {
		res.toIndex[ref.Token] = i
	}
	return res
}

func (r *Result[T]) link(from, to Token) {
	r.links = append(r.links, Link{From: from, To: to})
	r.successors[from] = to
}

// Ordinal returns the ordinal of the revision step.
func (r *Result[T]) Ordinal() int { return r.ordinal }

// From returns a copy of the step's from entries.
func (r *Result[T]) From() []Ref[T] { return slices.Clone(r.from) }

// To returns a copy of the step's to entries.
func (r *Result[T]) To() []Ref[T] { return slices.Clone(r.to) }

// Links returns a copy of all associations in the order they were made.
func (r *Result[T]) Links() []Link { return slices.Clone(r.links) }

// Stats returns how many links each stage produced.
func (r *Result[T]) Stats() Stats { return r.stats }

// Successor returns the to entry linked to the given from token.
func (r *Result[T]) Successor(from Token) (Ref[T], bool) {
	to, ok := r.successors[from]
	if !ok {
		return Ref[T]{}, false
	}
	return r.to[r.toIndex[to]], true
}

// Predecessor returns the from entry linked to the given to token.
// It scans the links in reverse.
func (r *Result[T]) Predecessor(to Token) (Ref[T], bool) {
	for i := len(r.links) - 1; i >= 0; i-- {
		if r.links[i].To == to {
			return r.from[r.fromIndex[r.links[i].From]], true
		}
	}
	return Ref[T]{}, false
}

// WithSuccessor returns the from entries that were linked.
func (r *Result[T]) WithSuccessor() []Ref[T] {
	return r.filterFrom(true)
}

// WithoutSuccessor returns the from entries that were not linked.
func (r *Result[T]) WithoutSuccessor() []Ref[T] {
	return r.filterFrom(false)
}

// WithPredecessor returns the to entries that were linked.
func (r *Result[T]) WithPredecessor() []Ref[T] {
	return r.filterTo(true)
}

// WithoutPredecessor returns the to entries that were not linked.
func (r *Result[T]) WithoutPredecessor() []Ref[T] {
	return r.filterTo(false)
}

func (r *Result[T]) filterFrom(linked bool) []Ref[T] {
	var out []Ref[T]
	for _, ref := range r.from {
		if _, ok := r.successors[ref.Token]; ok == linked {
			out = append(out, ref)
		}
	}
	return out
}

func (r *Result[T]) filterTo(linked bool) []Ref[T] {
	targets := make(map[Token]struct{}, len(r.links))
	for _, l := range r.links {
		targets[l.To] = struct{}{}
	}

	var out []Ref[T]
	for _, ref := range r.to {
		if _, ok := targets[ref.Token]; ok == linked {
			out = append(out, ref)
		}
	}
	return out
}
