package vcs

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// surrogateMin and surrogateSpan delimit the UTF-16 surrogate block, which
// cannot be represented in a Go string and is skipped when encoding lines.
const (
	surrogateMin  = 0xD800
	surrogateSpan = 0x800
)

// DiffLines computes a line-level diff of two contents. Lines are split with
// SplitLines so terminators participate in the comparison.
func DiffLines(oldContent, newContent []byte) []LineChange {
	encoder := newLineEncoder()
	oldRunes := encoder.encode(oldContent)
	newRunes := encoder.encode(newContent)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	var changes []LineChange
	oldLine, newLine := 1, 1

	for _, d := range diffs {
		count := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldLine += count
			newLine += count
		case diffmatchpatch.DiffDelete:
			for i := range count {
				changes = append(changes, LineChange{Line: oldLine + i, Kind: LineDelete})
			}
			oldLine += count
		case diffmatchpatch.DiffInsert:
			for i := range count {
				changes = append(changes, LineChange{Line: newLine + i, Kind: LineInsert})
			}
			newLine += count
		}
	}

	return changes
}

// lineEncoder maps each distinct line to a single rune so the diff runs on lines.
type lineEncoder struct {
	index map[string]rune
	next  rune
}

func newLineEncoder() *lineEncoder {
	return &lineEncoder{index: make(map[string]rune), next: 1}
}

func (e *lineEncoder) encode(content []byte) []rune {
	lines := SplitLines(content)
	runes := make([]rune, 0, len(lines))
	for _, line := range lines {
		key := string(content[line.Start:line.End])
		r, ok := e.index[key]
		if !ok {
			r = e.next
			e.next++
			if e.next == surrogateMin {
				e.next += surrogateSpan
			}
			e.index[key] = r
		}
		runes = append(runes, r)
	}
	return runes
}
