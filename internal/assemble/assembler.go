// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble turns a document configuration and its references into a
// docx block tree laid out by APA 7 rules.
// Implements: section-inclusion resolution, student and professional title
// pages, the body section (abstract, headings, prose, reference list, notes),
// and page numbering.
package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/apa-generator/internal/apa"
	"github.com/pdiddy/apa-generator/internal/docx"
	"github.com/pdiddy/apa-generator/pkg/types"
)

// headerDistance is how far the page header sits from the top edge.
const headerDistance = apa.TwipsPerInch / 2

// Assembler builds documents with a fixed layout. It holds no mutable state
// and is safe for concurrent use.
type Assembler struct {
	layout apa.Layout
}

// New returns an Assembler for layout.
func New(layout apa.Layout) *Assembler {
	return &Assembler{layout: layout}
}

// Generate builds and encodes a document with the default APA layout.
func Generate(cfg types.DocumentConfig, refs []types.Reference) ([]byte, error) {
	return New(apa.DefaultLayout()).Generate(cfg, refs)
}

// Generate builds the block tree for cfg and encodes it as a .docx package.
func (a *Assembler) Generate(cfg types.DocumentConfig, refs []types.Reference) ([]byte, error) {
	data, err := docx.Marshal(a.Build(cfg, refs))
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// Build returns the block tree for cfg. The result has an optional title-page
// section followed by exactly one body section.
func (a *Assembler) Build(cfg types.DocumentConfig, refs []types.Reference) *docx.Document {
	inc := resolveSections(cfg.SectionOptions)
	labels := apa.LabelsFor(cfg.Language)
	authors := cfg.ResolvedAuthors()

	doc := &docx.Document{
		Title:       cfg.Title,
		Creator:     creator(authors),
		Font:        a.layout.Font,
		FontSize:    a.layout.FontSize,
		LineSpacing: a.layout.LineSpacing,
	}

	header := a.pageHeader(cfg)
	bodyStart := 1
	if inc.cover {
		doc.Sections = append(doc.Sections, a.section(header, 1, a.coverBlocks(cfg, authors, labels)))
		bodyStart = 2
	}
	doc.Sections = append(doc.Sections, a.section(header, bodyStart, a.bodyBlocks(cfg, refs, inc, labels)))
	return doc
}

func (a *Assembler) section(h *docx.Header, start int, blocks []docx.Paragraph) docx.Section {
	m := a.layout.Margins
	return docx.Section{
		PageSize: docx.Letter,
		Margins: docx.Margins{
			Top:    m.Top,
			Right:  m.Right,
			Bottom: m.Bottom,
			Left:   m.Left,
			Header: headerDistance,
			Footer: headerDistance,
		},
		Header:          h,
		PageNumberStart: start,
		Blocks:          blocks,
	}
}

// textWidth is the usable line width, where the right-aligned tab stop for
// the page number goes.
func (a *Assembler) textWidth() int {
	return docx.Letter.Width - a.layout.Margins.Left - a.layout.Margins.Right
}

// pageHeader returns the header shared by every page. Student papers carry
// only the page number; professional papers add the running head on the left.
func (a *Assembler) pageHeader(cfg types.DocumentConfig) *docx.Header {
	page := docx.Run{Field: docx.FieldPage}
	if cfg.CoverPage.Type != types.CoverProfessional {
		return &docx.Header{Paragraphs: []docx.Paragraph{{
			Align:   docx.Alignment(a.layout.PageNumberAlign),
			Spacing: docx.Spacing{Line: 240},
			Runs:    []docx.Run{page},
		}}}
	}
	head := apa.RunningHead(cfg.CoverPage.RunningHead, cfg.Title, a.layout.RunningHeadMaxLen)
	page.Tab = true
	return &docx.Header{Paragraphs: []docx.Paragraph{{
		Tabs:    []docx.TabStop{{Align: docx.Alignment(a.layout.PageNumberAlign), Pos: a.textWidth()}},
		Spacing: docx.Spacing{Line: 240},
		Runs:    []docx.Run{docx.Text(head), page},
	}}}
}

// inclusion holds the effective section flags.
type inclusion struct {
	cover        bool
	abstract     bool
	introduction bool
	method       bool
	results      bool
	discussion   bool
	references   bool
	footnotes    bool
}

func resolveSections(o *types.SectionOptions) inclusion {
	if o == nil {
		o = &types.SectionOptions{}
	}
	return inclusion{
		cover:        enabled(o.CoverPage),
		abstract:     enabled(o.Abstract),
		introduction: enabled(o.Introduction),
		method:       enabled(o.Method),
		results:      enabled(o.Results),
		discussion:   enabled(o.Discussion),
		references:   enabled(o.References),
		footnotes:    enabled(o.Footnotes),
	}
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

func creator(authors []types.Author) string {
	names := make([]string, len(authors))
	for i, au := range authors {
		names[i] = au.FullName()
	}
	return strings.Join(names, ", ")
}

var blankLine = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs splits text on blank lines. Single line breaks inside a
// paragraph are folded into spaces.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, chunk := range blankLine.Split(text, -1) {
		chunk = strings.Join(strings.Fields(chunk), " ")
		if chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}
