// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx models a word-processing document as a tree of page sections,
// headers, paragraphs and runs, and encodes that tree as an Office Open XML
// (.docx) package. It covers the subset of WordprocessingML needed for
// manuscripts: text formatting, alignment, indents, line spacing, page breaks,
// per-section headers and page-number fields.
//
// All measurements are in twips (1/1440 inch) except font sizes, which are in
// half-points, and line spacing, which is in 240ths of a line.
package docx

// Alignment is a paragraph justification value.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignBoth   Alignment = "both"
)

// Field is a computed run value.
type Field int

const (
	// FieldNone marks a plain text run.
	FieldNone Field = iota

	// FieldPage renders the current page number.
	FieldPage
)

// Run is a span of uniformly formatted text.
type Run struct {
	Text   string
	Bold   bool
	Italic bool

	// Font and Size override the document defaults when set.
	Font string
	Size int

	// Field replaces Text with a computed value.
	Field Field

	// Tab emits a tab character before Text.
	Tab bool
}

// Indent sets paragraph indentation. FirstLine and Hanging are mutually
// exclusive; Hanging wins when both are set.
type Indent struct {
	Left      int
	FirstLine int
	Hanging   int
}

// Spacing overrides paragraph spacing. A zero Line inherits the document
// line spacing.
type Spacing struct {
	Line   int
	Before int
	After  int
}

// TabStop positions a custom tab.
type TabStop struct {
	Align Alignment
	Pos   int
}

// Paragraph is one block of text.
type Paragraph struct {
	Align           Alignment
	Indent          Indent
	Spacing         Spacing
	PageBreakBefore bool
	Tabs            []TabStop
	Runs            []Run
}

// Text returns a single plain run.
func Text(s string) Run {
	return Run{Text: s}
}

// Blank returns an empty paragraph, used for vertical spacing.
func Blank() Paragraph {
	return Paragraph{}
}

// Header is the repeating page header of a section.
type Header struct {
	Paragraphs []Paragraph
}

// PageSize is a page's width and height.
type PageSize struct {
	Width  int
	Height int
}

// Letter is US Letter, 8.5 by 11 inches.
var Letter = PageSize{Width: 12240, Height: 15840}

// Margins are the page margins plus the header and footer distances from the
// page edge.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
	Header int
	Footer int
}

// Section is a run of pages sharing geometry, header and page numbering.
type Section struct {
	PageSize PageSize
	Margins  Margins

	// Header is repeated on every page of the section. A nil header inherits
	// the previous section's.
	Header *Header

	// PageNumberStart restarts numbering at the given value. Zero continues
	// from the previous section.
	PageNumberStart int

	Blocks []Paragraph
}

// TextWidth returns the distance between the left and right margins.
func (s Section) TextWidth() int {
	return s.PageSize.Width - s.Margins.Left - s.Margins.Right
}

// Document is the root of the tree.
type Document struct {
	// Title and Creator populate the package core properties.
	Title   string
	Creator string

	// Font, FontSize and LineSpacing are the document-wide defaults.
	Font        string
	FontSize    int
	LineSpacing int

	Sections []Section
}

// Paragraphs returns every body paragraph in document order.
func (d *Document) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, s := range d.Sections {
		out = append(out, s.Blocks...)
	}
	return out
}

// PlainText returns the concatenated text of the paragraph's runs. Field runs
// and tabs contribute nothing.
func (p Paragraph) PlainText() string {
	var n int
	for _, r := range p.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range p.Runs {
		if r.Field == FieldNone {
			buf = append(buf, r.Text...)
		}
	}
	return string(buf)
}

// HasField reports whether any run of the paragraph is the field f.
func (p Paragraph) HasField(f Field) bool {
	for _, r := range p.Runs {
		if r.Field == f {
			return true
		}
	}
	return false
}
