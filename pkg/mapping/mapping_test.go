package mapping_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/lifespan/pkg/mapping"
	"github.com/yaklabco/lifespan/pkg/vcs"
	"github.com/yaklabco/lifespan/pkg/vcs/memvcs"
)

type kind struct {
	Name string
}

func numbered(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func lineRange(t testing.TB, f vcs.File, begin, end int) vcs.Range {
	t.Helper()

	ctx := context.Background()
	b, ok, err := vcs.PositionAt(ctx, f, begin, 1, vcs.DefaultTabSize)
	require.NoError(t, err)
	require.True(t, ok)
	e, ok, err := vcs.EndOfLine(ctx, f, end, vcs.DefaultTabSize)
	require.NoError(t, err)
	require.True(t, ok)
	r, err := vcs.NewRange(b, e)
	require.NoError(t, err)
	return r
}

func entry(ranges []vcs.Range, opts ...mapping.EntryOption[kind]) mapping.Mappable[kind] {
	return mapping.NewEntry(ranges, opts...)
}

// step builds a two-revision fixture with one modified file.
func step(oldContent, newContent string) (*vcs.StaticFile, *vcs.StaticFile, *vcs.RevisionRange) {
	oldFile := vcs.NewStaticFile("f.txt", "r1", []byte(oldContent))
	newFile := vcs.NewStaticFile("f.txt", "r2", []byte(newContent))
	rr := &vcs.RevisionRange{
		Ordinal:     2,
		Revision:    "r2",
		Predecessor: "r1",
		FileChanges: []*vcs.FileChange{vcs.NewFileChange(oldFile, newFile)},
	}
	return oldFile, newFile, rr
}

func TestMap_SignatureLinksRegardlessOfOffsets(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(10), "completely\ndifferent\n"+numbered(30))

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 1, 2)}, mapping.WithSignature[kind]("Foo")),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 20, 25)}, mapping.WithSignature[kind]("Foo")),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)

	succ, ok := res.Successor(from[0].Token)
	require.True(t, ok)
	assert.Equal(t, mapping.Token{Ordinal: 2, Index: 0}, succ.Token)
	assert.Equal(t, mapping.Stats{BySignature: 1}, res.Stats())
}

func TestMap_SignatureLastMatchWins(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(10), numbered(10))
	sig := mapping.WithSignature[kind]("Foo")

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 1, 1)}, sig),
		entry([]vcs.Range{lineRange(t, oldFile, 2, 2)}, sig),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 1, 1)}, sig),
		entry([]vcs.Range{lineRange(t, newFile, 2, 2)}, sig),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)

	first, ok := res.Successor(from[0].Token)
	require.True(t, ok)
	assert.Equal(t, 1, first.Token.Index, "last matching to wins")

	second, ok := res.Successor(from[1].Token)
	require.True(t, ok)
	assert.Equal(t, 0, second.Token.Index, "a claimed to is not linked twice")
}

func TestMap_BlankSignatureIsIgnored(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(10), numbered(10))
	blank := mapping.WithSignature[kind]("   ")

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 1, 1)}, blank),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 5, 5)}, blank),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)
	assert.Empty(t, res.WithSuccessor())
}

func TestMap_InvalidArgument(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(5), numbered(5))
	foreign := vcs.NewStaticFile("f.txt", "r0", []byte(numbered(5)))

	valid := []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, newFile, 1, 1)})}

	tests := []struct {
		name string
		from []mapping.Ref[kind]
		to   []mapping.Mappable[kind]
		rr   *vcs.RevisionRange
	}{
		{
			name: "from revision differs from predecessor",
			from: mapping.Admit(1, []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, foreign, 1, 1)})}),
			to:   valid,
			rr:   rr,
		},
		{
			name: "to revision differs from current",
			from: nil,
			to:   []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, oldFile, 1, 1)})},
			rr:   rr,
		},
		{
			name: "from without predecessor",
			from: mapping.Admit(1, []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, oldFile, 1, 1)})}),
			to:   valid,
			rr:   &vcs.RevisionRange{Ordinal: 1, Revision: "r2"},
		},
		{
			name: "entry without ranges",
			from: nil,
			to:   []mapping.Mappable[kind]{entry(nil)},
			rr:   rr,
		},
		{
			name: "duplicate from tokens",
			from: append(
				mapping.Admit(1, []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, oldFile, 1, 1)})}),
				mapping.Admit(1, []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, oldFile, 2, 2)})})...,
			),
			to: valid,
			rr: rr,
		},
		{
			name: "nil revision range",
			to:   valid,
			rr:   nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res, err := mapping.Map(context.Background(), testCase.from, testCase.to, testCase.rr)
			require.ErrorIs(t, err, mapping.ErrInvalidArgument)
			assert.Nil(t, res)
		})
	}
}

func TestMap_NilEntriesAreIgnored(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(5), numbered(5))

	from := append(mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 2, 3)}),
	}), mapping.Ref[kind]{Token: mapping.Token{Ordinal: 1, Index: 9}})
	to := []mapping.Mappable[kind]{nil, entry([]vcs.Range{lineRange(t, newFile, 2, 3)}), nil}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)
	require.Len(t, res.From(), 1)
	require.Len(t, res.To(), 1)
	assert.Equal(t, 1, res.To()[0].Token.Index, "tokens keep the input position")

	succ, ok := res.Successor(from[0].Token)
	require.True(t, ok)
	assert.Equal(t, 1, succ.Token.Index)
}

func TestMap_EndToEndThroughTranslation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	lines := strings.Split(strings.TrimSuffix(numbered(30), "\n"), "\n")
	original := strings.Join(lines, "\n") + "\n"
	for i := 19; i < 25; i++ {
		lines[i] = "edited " + lines[i]
	}
	edited := strings.Join(lines, "\n") + "\n"

	repo := memvcs.New()
	require.NoError(t, repo.Commit("c1", map[string]string{"F": original}))
	require.NoError(t, repo.Commit("c2", map[string]string{"F": edited}))

	var steps []*vcs.RevisionRange
	require.NoError(t, repo.Walk(ctx, func(rr *vcs.RevisionRange) error {
		steps = append(steps, rr)
		return nil
	}))
	require.Len(t, steps, 2)

	f1, err := repo.File("c1", "F")
	require.NoError(t, err)
	f2, err := repo.File("c2", "F")
	require.NoError(t, err)

	first, err := mapping.Map(ctx, nil, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, f1, 1, 5)}),
	}, steps[0])
	require.NoError(t, err)
	require.Len(t, first.WithoutPredecessor(), 1)

	second, err := mapping.Map(ctx, first.To(), []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, f2, 1, 5)}),
	}, steps[1])
	require.NoError(t, err)

	pred, ok := second.Predecessor(mapping.Token{Ordinal: 2, Index: 0})
	require.True(t, ok)
	assert.Equal(t, mapping.Token{Ordinal: 1, Index: 0}, pred.Token)
	assert.Equal(t, mapping.Stats{ByRange: 1}, second.Stats())
}

func TestMap_ShiftedLinesAndRelocation(t *testing.T) {
	t.Parallel()

	oldFile := vcs.NewStaticFile("a.txt", "r1", []byte(numbered(10)))
	newFile := vcs.NewStaticFile("docs/a.txt", "r2", []byte("new\nlines\n"+numbered(10)))
	rr := &vcs.RevisionRange{
		Ordinal:     2,
		Revision:    "r2",
		Predecessor: "r1",
		FileChanges: []*vcs.FileChange{vcs.NewFileChange(oldFile, newFile)},
	}

	from := mapping.Admit(1, []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, oldFile, 4, 6)})})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 4, 6)}),
		entry([]vcs.Range{lineRange(t, newFile, 6, 8)}),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)

	succ, ok := res.Successor(from[0].Token)
	require.True(t, ok)
	assert.Equal(t, 1, succ.Token.Index)
	assert.Equal(t, []mapping.Ref[kind]{res.To()[0]}, res.WithoutPredecessor())
}

func TestMap_UntouchedFileKeepsCoordinates(t *testing.T) {
	t.Parallel()

	content := []byte(numbered(5))
	oldFile := vcs.NewStaticFile("same.txt", "r1", content)
	newFile := vcs.NewStaticFile("same.txt", "r2", content)
	rr := &vcs.RevisionRange{Ordinal: 2, Revision: "r2", Predecessor: "r1"}

	from := mapping.Admit(1, []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, oldFile, 2, 3)})})
	to := []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, newFile, 2, 3)})}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)
	assert.Len(t, res.WithSuccessor(), 1)
}

func TestMap_MixedRangesKeepOnlyTranslated(t *testing.T) {
	t.Parallel()

	oldA, newA, rr := step(numbered(5), "top\n"+numbered(5))
	unchanged := []byte(numbered(3))
	oldB := vcs.NewStaticFile("b.txt", "r1", unchanged)
	newB := vcs.NewStaticFile("b.txt", "r2", unchanged)

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldA, 2, 3), lineRange(t, oldB, 1, 2)}),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newA, 3, 4), lineRange(t, newB, 1, 2)}),
		entry([]vcs.Range{lineRange(t, newA, 3, 4)}),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)

	succ, ok := res.Successor(from[0].Token)
	require.True(t, ok)
	assert.Equal(t, 1, succ.Token.Index, "the range in the untouched file is not carried over")
}

func TestMap_NothingTranslatedFallsBackToAllRanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	oldA, newA, rr := step("x\ny\nz\n", "ab\ncd\n")
	unchanged := []byte(numbered(3))
	oldB := vcs.NewStaticFile("b.txt", "r1", unchanged)
	newB := vcs.NewStaticFile("b.txt", "r2", unchanged)

	lost := lineRange(t, oldA, 3, 3)
	sameOffsets, ok, err := vcs.RangeOf(ctx, newA, lost.Begin.Offset, lost.End.Offset, vcs.DefaultTabSize)
	require.NoError(t, err)
	require.True(t, ok)

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lost, lineRange(t, oldB, 1, 2)}),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newB, 1, 2)}),
		entry([]vcs.Range{sameOffsets, lineRange(t, newB, 1, 2)}),
	}

	res, err := mapping.Map(ctx, from, to, rr)
	require.NoError(t, err)

	succ, ok := res.Successor(from[0].Token)
	require.True(t, ok)
	assert.Equal(t, 1, succ.Token.Index)
}

func TestMap_RemovedFileLeavesEntryUnmatched(t *testing.T) {
	t.Parallel()

	oldFile := vcs.NewStaticFile("gone.txt", "r1", []byte(numbered(5)))
	other := vcs.NewStaticFile("other.txt", "r2", []byte(numbered(5)))
	rr := &vcs.RevisionRange{
		Ordinal:     2,
		Revision:    "r2",
		Predecessor: "r1",
		FileChanges: []*vcs.FileChange{
			vcs.NewFileChange(oldFile, nil),
			vcs.NewFileChange(nil, other),
		},
	}

	from := mapping.Admit(1, []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, oldFile, 2, 3)})})
	to := []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, other, 2, 3)})}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)
	assert.Len(t, res.WithoutSuccessor(), 1)
	assert.Len(t, res.WithoutPredecessor(), 1)
}

func TestMap_Compatibility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fromOpts   []mapping.EntryOption[kind]
		toOpts     []mapping.EntryOption[kind]
		expectLink bool
	}{
		{"no metadata", nil, nil, true},
		{"only from has metadata", []mapping.EntryOption[kind]{mapping.WithMetadata(kind{"a"})}, nil, true},
		{"only to has metadata", nil, []mapping.EntryOption[kind]{mapping.WithMetadata(kind{"a"})}, true},
		{
			"equal metadata",
			[]mapping.EntryOption[kind]{mapping.WithMetadata(kind{"a"})},
			[]mapping.EntryOption[kind]{mapping.WithMetadata(kind{"a"})},
			true,
		},
		{
			"different metadata",
			[]mapping.EntryOption[kind]{mapping.WithMetadata(kind{"a"})},
			[]mapping.EntryOption[kind]{mapping.WithMetadata(kind{"b"})},
			false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			oldFile, newFile, rr := step(numbered(5), numbered(5)+"tail\n")
			from := mapping.Admit(1, []mapping.Mappable[kind]{
				entry([]vcs.Range{lineRange(t, oldFile, 1, 2)}, testCase.fromOpts...),
			})
			to := []mapping.Mappable[kind]{entry([]vcs.Range{lineRange(t, newFile, 1, 2)}, testCase.toOpts...)}

			res, err := mapping.Map(context.Background(), from, to, rr)
			require.NoError(t, err)
			_, linked := res.Successor(from[0].Token)
			assert.Equal(t, testCase.expectLink, linked)
		})
	}
}

func TestMap_RangeCountMustAgree(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(10), numbered(10)+"tail\n")

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 1, 2), lineRange(t, oldFile, 5, 6)}),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 1, 2)}),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)
	assert.Empty(t, res.WithSuccessor())
}

func TestMap_RangeMatchIsNotBijective(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(10), numbered(10)+"tail\n")

	// Both from ranges land on the first to range; the second to range is never checked.
	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 1, 2), lineRange(t, oldFile, 1, 2)}),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 1, 2), lineRange(t, newFile, 7, 8)}),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)
	assert.Len(t, res.WithSuccessor(), 1)
}

func TestMap_FirstCompatibleWins(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(10), numbered(10)+"tail\n")

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 3, 4)}),
		entry([]vcs.Range{lineRange(t, oldFile, 3, 4)}),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 3, 4)}),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)

	_, ok := res.Successor(from[0].Token)
	assert.True(t, ok)
	_, ok = res.Successor(from[1].Token)
	assert.False(t, ok)
	assert.Equal(t, []mapping.Ref[kind]{from[1]}, res.WithoutSuccessor())
}

func TestCapabilityDefaults(t *testing.T) {
	t.Parallel()

	f := vcs.NewStaticFile("a.txt", "r1", []byte(numbered(3)))
	ranges := []vcs.Range{lineRange(t, f, 1, 2)}

	signed := mapping.Mappable[kind](mapping.NewEntry(ranges,
		mapping.WithSignature[kind]("Foo"), mapping.WithMetadata(kind{Name: "func"})))
	bare := mapping.Mappable[kind](mapping.NewEntry[kind](ranges))
	other := mapping.Mappable[kind](mapping.NewEntry(ranges, mapping.WithMetadata(kind{Name: "type"})))

	assert.Equal(t, "Foo", mapping.SignatureOf[kind](signed))
	assert.Empty(t, mapping.SignatureOf[kind](bare))

	meta, ok := mapping.MetadataOf[kind](signed)
	require.True(t, ok)
	assert.Equal(t, "func", meta.Name)
	_, ok = mapping.MetadataOf[kind](bare)
	assert.False(t, ok)

	assert.True(t, mapping.IsCompatible[kind](signed, bare))
	assert.False(t, mapping.IsCompatible[kind](signed, other))
	assert.True(t, mapping.SignatureMatches[kind](signed, signed))
	assert.False(t, mapping.SignatureMatches[kind](bare, bare))
	assert.True(t, mapping.RangesMatch[kind](signed, ranges, bare))
}

// caseless matches signatures ignoring case.
type caseless struct {
	*mapping.Entry[kind]
}

func (c caseless) SignatureMatchesWith(other mapping.Mappable[kind]) bool {
	return strings.EqualFold(c.Signature(), mapping.SignatureOf[kind](other))
}

func TestMap_CustomSignatureMatcher(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(5), "x\n")

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		caseless{mapping.NewEntry([]vcs.Range{lineRange(t, oldFile, 1, 1)}, mapping.WithSignature[kind]("foo"))},
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 1, 1)}, mapping.WithSignature[kind]("FOO")),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats().BySignature)
}

func TestResult_Queries(t *testing.T) {
	t.Parallel()

	oldFile, newFile, rr := step(numbered(5), numbered(5))
	sig := mapping.WithSignature[kind]("Foo")

	from := mapping.Admit(1, []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, oldFile, 1, 1)}, sig),
		entry([]vcs.Range{lineRange(t, oldFile, 4, 4)}, mapping.WithMetadata(kind{"a"})),
	})
	to := []mapping.Mappable[kind]{
		entry([]vcs.Range{lineRange(t, newFile, 4, 4)}, mapping.WithMetadata(kind{"b"})),
		entry([]vcs.Range{lineRange(t, newFile, 2, 2)}, sig),
	}

	res, err := mapping.Map(context.Background(), from, to, rr)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Ordinal())
	assert.Equal(t, []mapping.Ref[kind]{from[0]}, res.WithSuccessor())
	assert.Equal(t, []mapping.Ref[kind]{from[1]}, res.WithoutSuccessor())

	toRefs := res.To()
	assert.Equal(t, []mapping.Ref[kind]{toRefs[1]}, res.WithPredecessor())
	assert.Equal(t, []mapping.Ref[kind]{toRefs[0]}, res.WithoutPredecessor())

	pred, ok := res.Predecessor(toRefs[1].Token)
	require.True(t, ok)
	assert.Equal(t, from[0].Token, pred.Token)

	_, ok = res.Predecessor(toRefs[0].Token)
	assert.False(t, ok)

	assert.Equal(t, []mapping.Link{{From: from[0].Token, To: toRefs[1].Token}}, res.Links())

	// Copies do not alias internal state.
	toRefs[0] = mapping.Ref[kind]{}
	assert.NotNil(t, res.To()[0].Mappable)
}
