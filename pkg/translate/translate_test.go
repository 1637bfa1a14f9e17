package translate_test

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/lifespan/pkg/translate"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// numbered returns lines "l1".."l<n>".
func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i+1)
	}
	return lines
}

func join(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

// lineRange spans from the start of line begin to the end of line end's content.
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

func TestRange(t *testing.T) {
	t.Parallel()

	base := numbered(10)

	tests := []struct {
		name       string
		newLines   []string
		begin, end int
		expectOK   bool
		expectSpan [2]int // begin/end line in the new file
		expectText string
	}{
		{
			name:       "insert before shifts down",
			newLines:   slices.Insert(slices.Clone(base), 0, "x"),
			begin:      3,
			end:        5,
			expectOK:   true,
			expectSpan: [2]int{4, 6},
			expectText: "l3\nl4\nl5",
		},
		{
			name:       "delete before shifts up",
			newLines:   slices.Delete(slices.Clone(base), 0, 1),
			begin:      3,
			end:        5,
			expectOK:   true,
			expectSpan: [2]int{2, 4},
			expectText: "l3\nl4\nl5",
		},
		{
			name:       "edit after keeps position",
			newLines:   slices.Replace(slices.Clone(base), 7, 8, "changed"),
			begin:      3,
			end:        5,
			expectOK:   true,
			expectSpan: [2]int{3, 5},
			expectText: "l3\nl4\nl5",
		},
		{
			name:       "insert inside drops last line",
			newLines:   slices.Insert(slices.Clone(base), 3, "x"),
			begin:      3,
			end:        5,
			expectOK:   true,
			expectSpan: [2]int{3, 4},
			expectText: "l3\nx",
		},
		{
			name:       "begin deleted",
			newLines:   slices.Delete(slices.Clone(base), 2, 3),
			begin:      3,
			end:        5,
			expectOK:   true,
			expectSpan: [2]int{3, 4},
			expectText: "l4\nl5",
		},
		{
			name:       "end deleted",
			newLines:   slices.Delete(slices.Clone(base), 4, 5),
			begin:      3,
			end:        5,
			expectOK:   true,
			expectSpan: [2]int{4, 5},
			expectText: "l4\nl6",
		},
		{
			name:       "both deleted adjacent",
			newLines:   slices.Delete(slices.Clone(base), 2, 4),
			begin:      3,
			end:        4,
			expectOK:   true,
			expectSpan: [2]int{2, 3},
			expectText: "l2\nl5",
		},
		{
			name:       "both deleted apart",
			newLines:   slices.Delete(slices.Clone(base), 2, 5),
			begin:      3,
			end:        5,
			expectOK:   true,
			expectSpan: [2]int{4, 4},
			expectText: "l7",
		},
		{
			name:       "single deleted line anchors at top",
			newLines:   slices.Delete(slices.Clone(base), 2, 3),
			begin:      3,
			end:        3,
			expectOK:   true,
			expectSpan: [2]int{1, 1},
			expectText: "l1",
		},
		{
			name:     "single deleted line past new end",
			newLines: base[:2],
			begin:    3,
			end:      3,
			expectOK: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			oldFile := vcs.NewStaticFile("f.txt", "r1", []byte(join(base)))
			newFile := vcs.NewStaticFile("f.txt", "r2", []byte(join(testCase.newLines)))
			change := vcs.NewFileChange(oldFile, newFile)

			got, ok, err := translate.Range(ctx, lineRange(t, oldFile, testCase.begin, testCase.end), change)
			require.NoError(t, err)
			require.Equal(t, testCase.expectOK, ok)
			if !ok {
				return
			}

			assert.Equal(t, "r2", got.Revision())
			assert.Equal(t, testCase.expectSpan[0], got.Begin.Line)
			assert.Equal(t, testCase.expectSpan[1], got.End.Line)
			assert.Equal(t, 1, got.Begin.Column)

			text, err := got.Content(ctx)
			require.NoError(t, err)
			assert.Equal(t, testCase.expectText, text)
		})
	}
}

func TestRange_KeepsColumns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	oldFile := vcs.NewStaticFile("f.go", "r1", []byte("package a\n\nfunc f() {\n\treturn\n}\n"))
	newFile := vcs.NewStaticFile("f.go", "r2", []byte("package a\n\nimport \"os\"\n\nfunc f() {\n\treturn\n}\n"))

	r, ok, err := vcs.RangeOf(ctx, oldFile, 16, 29, vcs.DefaultTabSize)
	require.NoError(t, err)
	require.True(t, ok)
	before, err := r.Content(ctx)
	require.NoError(t, err)
	require.Equal(t, "f() {\n\treturn", before)

	got, ok, err := translate.Range(ctx, r, vcs.NewFileChange(oldFile, newFile))
	require.NoError(t, err)
	require.True(t, ok)

	after, err := got.Content(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, r.Begin.Column, got.Begin.Column)
	assert.Equal(t, r.End.Column, got.End.Column)
	assert.Equal(t, r.Begin.Line+2, got.Begin.Line)
}

func TestRange_Relocate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	content := []byte(join(numbered(4)))
	oldFile := vcs.NewStaticFile("a.txt", "r1", content)
	newFile := vcs.NewStaticFile("docs/a.txt", "r2", content)

	got, ok, err := translate.Range(ctx, lineRange(t, oldFile, 2, 3), vcs.NewFileChange(oldFile, newFile))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "docs/a.txt", got.Path())
	assert.Equal(t, 2, got.Begin.Line)
}

func TestRange_Remove(t *testing.T) {
	t.Parallel()

	oldFile := vcs.NewStaticFile("a.txt", "r1", []byte(join(numbered(4))))

	_, ok, err := translate.Range(context.Background(), lineRange(t, oldFile, 1, 2), vcs.NewFileChange(oldFile, nil))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRange_ForeignChange(t *testing.T) {
	t.Parallel()

	oldFile := vcs.NewStaticFile("a.txt", "r1", []byte(join(numbered(4))))
	other := vcs.NewStaticFile("b.txt", "r1", []byte("x\n"))
	otherNew := vcs.NewStaticFile("b.txt", "r2", []byte("y\n"))

	_, _, err := translate.Range(context.Background(), lineRange(t, oldFile, 1, 2), vcs.NewFileChange(other, otherNew))
	require.Error(t, err)
}
