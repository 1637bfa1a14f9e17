// Package markdown extracts heading sections from Markdown files.
//
// A section starts at its heading line and extends to the last non-blank
// line before the next heading of the same or a higher level. Its signature
// is the file path plus the titles of the enclosing headings, so a section
// keeps its identity when text around it moves.
package markdown

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/lifespan/pkg/extract"
	"github.com/yaklabco/lifespan/pkg/mapping"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Name is the extractor name used in configuration.
const Name = "markdown"

// signatureSeparator joins heading titles in a signature.
const signatureSeparator = " > "

// Section is the metadata attached to every extracted section.
type Section struct {
	Level int `json:"level" yaml:"level"`
}

// Compile-time interface check.
var _ extract.Extractor[Section] = (*Extractor)(nil)

// Extractor implements extract.Extractor for Markdown headings.
type Extractor struct {
	flavor  string
	tabSize int
	md      goldmark.Markdown
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFlavor selects "commonmark" or "gfm". Unknown flavors fall back to CommonMark.
func WithFlavor(flavor string) Option {
	return func(e *Extractor) {
		e.flavor = flavorOrDefault(flavor)
	}
}

// WithTabSize sets the tab width used for columns.
func WithTabSize(tabSize int) Option {
	return func(e *Extractor) {
		if tabSize > 0 {
			e.tabSize = tabSize
		}
	}
}

// New creates a Markdown section extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{flavor: FlavorCommonMark, tabSize: vcs.DefaultTabSize}
	for _, opt := range opts {
		opt(e)
	}
	e.md = newGoldmarkInstance(e.flavor)
	return e
}

// Name implements extract.Extractor.
func (e *Extractor) Name() string { return Name }

// Flavor returns the configured Markdown flavor.
func (e *Extractor) Flavor() string { return e.flavor }

// Accepts implements extract.Extractor.
func (e *Extractor) Accepts(filePath, language string) bool {
	if language == "markdown" {
		return true
	}
	switch strings.ToLower(path.Ext(filePath)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	default:
		return false
	}
}

// heading is a heading found in the document.
type heading struct {
	level int
	line  int
	title string
}

// Extract implements extract.Extractor.
func (e *Extractor) Extract(ctx context.Context, f vcs.File) ([]mapping.Mappable[Section], error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	src, err := vcs.TextOf(ctx, f)
	if err != nil {
		return nil, err
	}

	doc := e.md.Parser().Parse(text.NewReader(src.Content), parser.WithContext(parser.NewContext()))
	headings := collectHeadings(doc, src)

	out := make([]mapping.Mappable[Section], 0, len(headings))
	var trail []heading

	for i, h := range headings {
		for len(trail) > 0 && trail[len(trail)-1].level >= h.level {
			trail = trail[:len(trail)-1]
		}
		trail = append(trail, h)

		endLine := src.LineCount()
		for _, next := range headings[i+1:] {
			if next.level <= h.level {
				endLine = next.line - 1
				break
			}
		}
		for endLine > h.line && isBlank(src.LineContent(endLine)) {
			endLine--
		}

		r, ok, err := e.lineRange(ctx, f, h.line, endLine)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		out = append(out, mapping.NewEntry([]vcs.Range{r},
			mapping.WithSignature[Section](signature(f.Path(), trail)),
			mapping.WithMetadata(Section{Level: h.level}),
		))
	}

	return out, nil
}

func (e *Extractor) lineRange(ctx context.Context, f vcs.File, beginLine, endLine int) (vcs.Range, bool, error) {
	begin, ok, err := vcs.PositionAt(ctx, f, beginLine, 1, e.tabSize)
	if err != nil || !ok {
		return vcs.Range{}, false, err
	}
	end, ok, err := vcs.EndOfLine(ctx, f, endLine, e.tabSize)
	if err != nil || !ok {
		return vcs.Range{}, false, err
	}
	r, err := vcs.NewRange(begin, end)
	if err != nil {
		return vcs.Range{}, false, err
	}
	return r, true, nil
}

// collectHeadings returns the top-level headings in document order.
func collectHeadings(doc ast.Node, src *vcs.Text) []heading {
	var out []heading
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		h, ok := node.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		line, _, ok := src.LineColumn(h.Lines().At(0).Start, 1)
		if !ok {
			continue
		}
		out = append(out, heading{
			level: h.Level,
			line:  line,
			title: strings.TrimSpace(inlineText(h, src.Content)),
		})
	}
	return out
}

// inlineText concatenates the literal text below node.
func inlineText(node ast.Node, source []byte) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		default:
			b.WriteString(inlineText(child, source))
		}
	}
	return b.String()
}

func signature(filePath string, trail []heading) string {
	titles := make([]string, len(trail))
	for i, h := range trail {
		titles[i] = h.title
	}
	return filePath + "#" + strings.Join(titles, signatureSeparator)
}

func isBlank(line []byte) bool {
	return len(strings.TrimSpace(string(line))) == 0
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
