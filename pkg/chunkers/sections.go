package chunkers

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is a heading-delimited region of a markdown document
type Section struct {
	// Title is the heading text, empty for the preamble before the first
	// heading
	Title string `json:"title"`

	// HeadingLevel is the markdown heading depth (1 for #), 0 for the preamble
	HeadingLevel int `json:"heading_level"`

	// Start and End are half-open byte offsets of the section, heading line
	// included
	Start int `json:"start"`
	End   int `json:"end"`
}

// DetectSections parses source as markdown and returns its heading-delimited
// sections in document order. Each section runs from its heading line to the
// next heading (or EOF). Text before the first heading becomes an untitled
// preamble section. Plain text without headings yields a single preamble
// covering the whole input; empty input yields no sections.
func DetectSections(source []byte) []Section {
	if len(source) == 0 {
		return []Section{}
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var sections []Section
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		start := 0
		if lines := heading.Lines(); lines.Len() > 0 {
			start = lineStart(source, lines.At(0).Start)
		}

		sections = append(sections, Section{
			Title:        string(heading.Text(source)),
			HeadingLevel: heading.Level,
			Start:        start,
		})
		return ast.WalkSkipChildren, nil
	})

	if len(sections) == 0 {
		return []Section{{Title: "", HeadingLevel: 0, Start: 0, End: len(source)}}
	}

	// Close each section at the start of the next one.
	for i := range sections {
		if i+1 < len(sections) {
			sections[i].End = sections[i+1].Start
		} else {
			sections[i].End = len(source)
		}
	}

	// Preamble before the first heading.
	if sections[0].Start > 0 {
		preamble := Section{Title: "", HeadingLevel: 0, Start: 0, End: sections[0].Start}
		sections = append([]Section{preamble}, sections...)
	}

	return sections
}

// SectionAt returns the section containing the byte offset, or nil
func SectionAt(sections []Section, offset int) *Section {
	for i := range sections {
		if offset >= sections[i].Start && offset < sections[i].End {
			return &sections[i]
		}
	}
	return nil
}

// lineStart walks back from pos to the offset just after the previous newline
func lineStart(source []byte, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}
