// Package mapping links the entities of one revision to those of the next.
//
// Map runs a strictly staged, greedy matcher: an exact signature pass
// first, then a pass that translates the remaining entities' ranges across
// the step's file changes and looks for an entity occupying exactly the
// translated ranges. Matching is first-come-first-served in input order;
// there is no backtracking and no attempt at a globally optimal pairing.
package mapping

import (
	"reflect"
	"strings"

	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Mappable is an entity located at one or more ranges of a single revision.
// Producers may implement any of the optional capabilities below to
// customize how the entity is matched.
//
// T only names the metadata type of Annotated; no method mentions it, so
// Mappable[A] and Mappable[B] have the same method set and the type argument
// cannot be inferred from a Mappable value. Pass it explicitly to the
// generic helpers, as in MetadataOf[T](m).
type Mappable[T any] interface {
	// Ranges returns the entity's ranges. It must not be empty.
	Ranges() []vcs.Range
}

// Signer is implemented by mappables with a stable identifying string.
type Signer interface {
	Signature() string
}

// Annotated is implemented by mappables carrying metadata.
type Annotated[T any] interface {
	Metadata() (T, bool)
}

// CompatibilityChecker overrides the default metadata compatibility check.
type CompatibilityChecker[T any] interface {
	IsCompatibleWith(other Mappable[T]) bool
}

// SignatureMatcher overrides the default signature comparison.
type SignatureMatcher[T any] interface {
	SignatureMatchesWith(other Mappable[T]) bool
}

// RangesMatcher overrides the default check that translated ranges land
// exactly on another mappable's ranges.
type RangesMatcher[T any] interface {
	RangesMatchWith(translated []vcs.Range, other Mappable[T]) bool
}

// SignatureOf returns m's signature, or "" if it has none.
func SignatureOf[T any](m Mappable[T]) string {
	if s, ok := m.(Signer); ok {
		return s.Signature()
	}
	return ""
}

// MetadataOf returns m's metadata, if any.
func MetadataOf[T any](m Mappable[T]) (T, bool) {
	if a, ok := m.(Annotated[T]); ok {
		return a.Metadata()
	}
	var zero T
	return zero, false
}

// IsCompatible reports whether a may be linked to b. Unless a implements
// CompatibilityChecker, mappables are compatible when either lacks metadata
// or both carry deeply equal metadata.
func IsCompatible[T any](a, b Mappable[T]) bool {
	if c, ok := a.(CompatibilityChecker[T]); ok {
		return c.IsCompatibleWith(b)
	}

	am, aok := MetadataOf[T](a)
	bm, bok := MetadataOf[T](b)
	if !aok || !bok {
		return true
	}
	return reflect.DeepEqual(am, bm)
}

// SignatureMatches reports whether a and b carry the same non-blank
// signature, unless a implements SignatureMatcher.
func SignatureMatches[T any](a, b Mappable[T]) bool {
	if m, ok := a.(SignatureMatcher[T]); ok {
		return m.SignatureMatchesWith(b)
	}

	as := SignatureOf[T](a)
	if strings.TrimSpace(as) == "" {
		return false
	}
	return as == SignatureOf[T](b)
}

// RangesMatch reports whether every translated range coincides with some
// range of other: same path and equal begin and end offsets. It does not
// require a one-to-one pairing. A RangesMatcher on a overrides the check.
func RangesMatch[T any](a Mappable[T], translated []vcs.Range, other Mappable[T]) bool {
	if m, ok := a.(RangesMatcher[T]); ok {
		return m.RangesMatchWith(translated, other)
	}

	candidates := other.Ranges()
	for _, r := range translated {
		found := false
		for _, c := range candidates {
			if r.Path() == c.Path() &&
				r.Begin.Offset == c.Begin.Offset &&
				r.End.Offset == c.End.Offset {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
