package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/lifespan/internal/logging"
	"github.com/yaklabco/lifespan/pkg/translate"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Map links the from entries, known at rr's predecessor, to the to entries
// detected at rr's revision. The to entries receive tokens {rr.Ordinal, i}
// where i is their index in to; pass Result.To() as the next step's from.
//
// Nil entries are ignored. Precondition violations return an error
// matching ErrInvalidArgument before any matching is done. Errors reading
// diffs or content abort the call; ranges that cannot be translated are
// simply left unmatched.
func Map[T any](ctx context.Context, from []Ref[T], to []Mappable[T], rr *vcs.RevisionRange) (*Result[T], error) {
	if rr == nil {
		return nil, invalidArgument("nil revision range")
	}

	from = compactRefs(from)
	toRefs := Admit(rr.Ordinal, to)

	if err := validate(from, toRefs, rr); err != nil {
		return nil, err
	}

	res := newResult(rr.Ordinal, from, toRefs)
	m := &matcher[T]{
		res:     res,
		claimed: make(map[Token]bool, len(toRefs)),
	}

	m.bySignature()

	if err := m.byRange(ctx, rr); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("mapped revision step",
		logging.FieldOrdinal, rr.Ordinal,
		logging.FieldFrom, len(from),
		logging.FieldTo, len(toRefs),
		logging.FieldBySignature, res.stats.BySignature,
		logging.FieldByRange, res.stats.ByRange,
		logging.FieldUnmatched, len(from)-res.stats.Total(),
	)

	return res, nil
}

func compactRefs[T any](refs []Ref[T]) []Ref[T] {
	out := make([]Ref[T], 0, len(refs))
	for _, ref := range refs {
		if ref.Mappable != nil {
			out = append(out, ref)
		}
	}
	return out
}

func validate[T any](from, to []Ref[T], rr *vcs.RevisionRange) error {
	if len(from) > 0 && !rr.HasPredecessor() {
		return invalidArgument("step %d has no predecessor but %d from entries were given", rr.Ordinal, len(from))
	}

	seen := make(map[Token]bool, len(from))
	for _, ref := range from {
		if seen[ref.Token] {
			return invalidArgument("duplicate from token %s", ref.Token)
		}
		seen[ref.Token] = true

		if err := checkRanges(ref, rr.Predecessor, "from"); err != nil {
			return err
		}
	}

	for _, ref := range to {
		if err := checkRanges(ref, rr.Revision, "to"); err != nil {
			return err
		}
	}

	return nil
}

func checkRanges[T any](ref Ref[T], revision, side string) error {
	ranges := ref.Mappable.Ranges()
	if len(ranges) == 0 {
		return invalidArgument("%s entry %s has no ranges", side, ref.Token)
	}
	for _, r := range ranges {
		if r.Revision() != revision {
			return invalidArgument("%s entry %s has range %s, expected revision %q",
				side, ref.Token, r, revision)
		}
	}
	return nil
}

// matcher holds the state shared by the matching stages.
type matcher[T any] struct {
	res     *Result[T]
	claimed map[Token]bool
}

func (m *matcher[T]) matched(from Token) bool {
	_, ok := m.res.successors[from]
	return ok
}

func (m *matcher[T]) bySignature() {
	for _, f := range m.res.from {
		if strings.TrimSpace(SignatureOf[T](f.Mappable)) == "" {
			continue
		}

		var match *Ref[T]
		for i := range m.res.to {
			t := &m.res.to[i]
			if m.claimed[t.Token] {
				continue
			}
			if SignatureMatches[T](f.Mappable, t.Mappable) {
				match = t
			}
		}

		if match != nil {
			m.claimed[match.Token] = true
			m.res.link(f.Token, match.Token)
			m.res.stats.BySignature++
		}
	}
}

func (m *matcher[T]) byRange(ctx context.Context, rr *vcs.RevisionRange) error {
	for _, f := range m.res.from {
		if m.matched(f.Token) {
			continue
		}

		translated, err := translateAll(ctx, f.Mappable.Ranges(), rr)
		if err != nil {
			return fmt.Errorf("map %s at step %d: %w", f.Token, rr.Ordinal, err)
		}

		for _, t := range m.res.to {
			if m.claimed[t.Token] {
				continue
			}
			if !IsCompatible[T](f.Mappable, t.Mappable) {
				continue
			}
			if len(translated) != len(t.Mappable.Ranges()) {
				continue
			}
			if !RangesMatch[T](f.Mappable, translated, t.Mappable) {
				continue
			}

			m.claimed[t.Token] = true
			m.res.link(f.Token, t.Token)
			m.res.stats.ByRange++
			break
		}
	}
	return nil
}

// translateAll carries ranges across every file change whose old path
// matches and keeps only the resolved ones. When nothing resolves, the
// original ranges are returned, which is how a range in an untouched file
// keeps its coordinates.
func translateAll(ctx context.Context, ranges []vcs.Range, rr *vcs.RevisionRange) ([]vcs.Range, error) {
	var out []vcs.Range
	for _, r := range ranges {
		for _, change := range rr.ChangesFrom(r.Path()) {
			translated, ok, err := translate.Range(ctx, r, change)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, translated)
			}
		}
	}

	if len(out) == 0 {
		return ranges, nil
	}
	return out, nil
}
