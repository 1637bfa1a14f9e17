package vcs

import "sort"

// Line holds the byte offsets of one line.
type Line struct {
	// Start is the offset of the first byte of the line.
	Start int

	// ContentEnd is the offset where the line terminator begins.
	// For a final line without terminator it equals End.
	ContentEnd int

	// End is the offset just after the terminator.
	End int
}

// Text is the content of a file together with its line index.
type Text struct {
	Content []byte
	Lines   []Line
}

// NewText indexes content. The slice is not copied.
func NewText(content []byte) *Text {
	return &Text{Content: content, Lines: SplitLines(content)}
}

// SplitLines splits content into lines, keeping terminators.
// "\n", "\r\n" and a bare "\r" each end one line. A trailing fragment
// without terminator forms the final line; empty content has no lines.
func SplitLines(content []byte) []Line {
	lines := []Line{}
	start := 0

	for idx := 0; idx < len(content); idx++ {
		switch content[idx] {
		case '\n':
			lines = append(lines, Line{Start: start, ContentEnd: idx, End: idx + 1})
			start = idx + 1
		case '\r':
			end := idx + 1
			if end < len(content) && content[end] == '\n' {
				end++
			}
			lines = append(lines, Line{Start: start, ContentEnd: idx, End: end})
			start = end
			idx = end - 1
		}
	}

	if start < len(content) {
		lines = append(lines, Line{Start: start, ContentEnd: len(content), End: len(content)})
	}

	return lines
}

// LineCount returns the number of lines.
func (t *Text) LineCount() int {
	return len(t.Lines)
}

// nextColumn returns the column after a byte at column col.
func nextColumn(col int, b byte, tabSize int) int {
	if b == '\t' && tabSize > 0 {
		return ((col-1)/tabSize+1)*tabSize + 1
	}
	return col + 1
}

// Offset resolves a 1-based line and tab-aware column to a byte offset.
// Valid columns are those of the line's content bytes plus the column just
// after the last content byte. A column inside a tab expansion is invalid.
func (t *Text) Offset(line, column, tabSize int) (int, bool) {
	if line < 1 || line > len(t.Lines) || column < 1 {
		return 0, false
	}

	info := t.Lines[line-1]
	col := 1
	for offset := info.Start; offset < info.ContentEnd; offset++ {
		if col == column {
			return offset, true
		}
		if col > column {
			return 0, false
		}
		col = nextColumn(col, t.Content[offset], tabSize)
	}

	if col == column {
		return info.ContentEnd, true
	}
	return 0, false
}

// LineColumn converts a byte offset into a 1-based line and tab-aware column.
// Offsets inside a terminator, and the end of content, belong to the
// preceding line. Returns false if offset is outside [0, len(Content)].
func (t *Text) LineColumn(offset, tabSize int) (int, int, bool) {
	if offset < 0 || offset > len(t.Content) {
		return 0, 0, false
	}
	if len(t.Lines) == 0 {
		return 1, 1, true
	}

	idx := sort.Search(len(t.Lines), func(i int) bool {
		return t.Lines[i].End > offset
	})
	if idx >= len(t.Lines) {
		idx = len(t.Lines) - 1
	}

	info := t.Lines[idx]
	col := 1
	for pos := info.Start; pos < offset; pos++ {
		col = nextColumn(col, t.Content[pos], tabSize)
	}

	return idx + 1, col, true
}

// LineContent returns the content of a 1-based line without terminator.
func (t *Text) LineContent(line int) []byte {
	if line < 1 || line > len(t.Lines) {
		return nil
	}
	info := t.Lines[line-1]
	return t.Content[info.Start:info.ContentEnd]
}
