// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// MIMEType is the media type of an encoded document.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ErrNoSections is returned when encoding a document without sections.
var ErrNoSections = errors.New("document has no sections")

// zipEpoch is stamped on every package entry so that identical trees encode
// to identical bytes.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	relBase   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	ctBase    = "application/vnd.openxmlformats-officedocument.wordprocessingml."
	xmlDecl   = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// part is one file inside the package.
type part struct {
	name string
	data []byte
}

// Marshal encodes doc and returns the package bytes.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes doc to w as a .docx package. Nothing is written when the
// document is structurally empty.
func Encode(w io.Writer, doc *Document) error {
	if doc == nil || len(doc.Sections) == 0 {
		return ErrNoSections
	}

	headerIDs := make([]string, len(doc.Sections))
	var headers []part
	for i, s := range doc.Sections {
		if s.Header == nil {
			continue
		}
		n := len(headers) + 1
		headerIDs[i] = "rIdHeader" + strconv.Itoa(n)
		headers = append(headers, part{
			name: "word/header" + strconv.Itoa(n) + ".xml",
			data: headerXML(s.Header),
		})
	}

	parts := []part{
		{"[Content_Types].xml", contentTypesXML(len(headers))},
		{"_rels/.rels", packageRelsXML()},
		{"docProps/core.xml", corePropsXML(doc)},
		{"word/_rels/document.xml.rels", documentRelsXML(len(headers))},
		{"word/document.xml", documentXML(doc, headerIDs)},
		{"word/styles.xml", stylesXML(doc)},
		{"word/settings.xml", settingsXML()},
	}
	parts = append(parts, headers...)

	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing package: %w", err)
	}
	return nil
}

// xmlBuilder accumulates markup. Writes to a bytes.Buffer cannot fail.
type xmlBuilder struct {
	bytes.Buffer
}

func (b *xmlBuilder) raw(s string) {
	b.WriteString(s)
}

func (b *xmlBuilder) text(s string) {
	_ = xml.EscapeText(b, []byte(s))
}

func (b *xmlBuilder) attr(name string, v int) {
	b.WriteString(" " + name + `="` + strconv.Itoa(v) + `"`)
}

func contentTypesXML(headerCount int) []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.raw(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.raw(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.raw(`<Override PartName="/word/document.xml" ContentType="` + ctBase + `document.main+xml"/>`)
	b.raw(`<Override PartName="/word/styles.xml" ContentType="` + ctBase + `styles+xml"/>`)
	b.raw(`<Override PartName="/word/settings.xml" ContentType="` + ctBase + `settings+xml"/>`)
	for i := 1; i <= headerCount; i++ {
		b.raw(`<Override PartName="/word/header` + strconv.Itoa(i) + `.xml" ContentType="` + ctBase + `header+xml"/>`)
	}
	b.raw(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.raw(`</Types>`)
	return b.Bytes()
}

func packageRelsXML() []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<Relationships xmlns="` + nsPkgRels + `">`)
	b.raw(`<Relationship Id="rId1" Type="` + relBase + `officeDocument" Target="word/document.xml"/>`)
	b.raw(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>`)
	b.raw(`</Relationships>`)
	return b.Bytes()
}

func documentRelsXML(headerCount int) []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<Relationships xmlns="` + nsPkgRels + `">`)
	b.raw(`<Relationship Id="rIdStyles" Type="` + relBase + `styles" Target="styles.xml"/>`)
	b.raw(`<Relationship Id="rIdSettings" Type="` + relBase + `settings" Target="settings.xml"/>`)
	for i := 1; i <= headerCount; i++ {
		n := strconv.Itoa(i)
		b.raw(`<Relationship Id="rIdHeader` + n + `" Type="` + relBase + `header" Target="header` + n + `.xml"/>`)
	}
	b.raw(`</Relationships>`)
	return b.Bytes()
}

func corePropsXML(doc *Document) []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"`)
	b.raw(` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"`)
	b.raw(` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	if doc.Title != "" {
		b.raw(`<dc:title>`)
		b.text(doc.Title)
		b.raw(`</dc:title>`)
	}
	if doc.Creator != "" {
		b.raw(`<dc:creator>`)
		b.text(doc.Creator)
		b.raw(`</dc:creator>`)
	}
	b.raw(`</cp:coreProperties>`)
	return b.Bytes()
}

func settingsXML() []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<w:settings xmlns:w="` + nsW + `">`)
	b.raw(`<w:defaultTabStop w:val="720"/>`)
	b.raw(`<w:characterSpacingControl w:val="doNotCompress"/>`)
	b.raw(`<w:compat><w:compatSetting w:name="compatibilityMode" w:uri="http://schemas.microsoft.com/office/word" w:val="15"/></w:compat>`)
	b.raw(`</w:settings>`)
	return b.Bytes()
}

func stylesXML(doc *Document) []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<w:styles xmlns:w="` + nsW + `">`)
	b.raw(`<w:docDefaults><w:rPrDefault><w:rPr>`)
	if doc.Font != "" {
		fonts(&b, doc.Font)
	}
	if doc.FontSize > 0 {
		sizes(&b, doc.FontSize)
	}
	b.raw(`<w:lang w:val="en-US"/>`)
	b.raw(`</w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:before="0" w:after="0"`)
	if doc.LineSpacing > 0 {
		b.attr("w:line", doc.LineSpacing)
		b.raw(` w:lineRule="auto"`)
	}
	b.raw(`/></w:pPr></w:pPrDefault></w:docDefaults>`)
	b.raw(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)
	b.raw(`<w:style w:type="paragraph" w:styleId="Header"><w:name w:val="header"/><w:basedOn w:val="Normal"/></w:style>`)
	b.raw(`</w:styles>`)
	return b.Bytes()
}

func fonts(b *xmlBuilder, font string) {
	b.raw(`<w:rFonts w:ascii="`)
	b.text(font)
	b.raw(`" w:hAnsi="`)
	b.text(font)
	b.raw(`" w:eastAsia="`)
	b.text(font)
	b.raw(`" w:cs="`)
	b.text(font)
	b.raw(`"/>`)
}

func sizes(b *xmlBuilder, size int) {
	b.raw(`<w:sz`)
	b.attr("w:val", size)
	b.raw(`/><w:szCs`)
	b.attr("w:val", size)
	b.raw(`/>`)
}

func headerXML(h *Header) []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<w:hdr xmlns:w="` + nsW + `" xmlns:r="` + nsR + `">`)
	if len(h.Paragraphs) == 0 {
		b.raw(`<w:p/>`)
	}
	for _, p := range h.Paragraphs {
		paragraph(&b, p, "")
	}
	b.raw(`</w:hdr>`)
	return b.Bytes()
}

func documentXML(doc *Document, headerIDs []string) []byte {
	var b xmlBuilder
	b.raw(xmlDecl)
	b.raw(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `"><w:body>`)
	last := len(doc.Sections) - 1
	for i, s := range doc.Sections {
		props := sectionProps(s, headerIDs[i])
		if i == last {
			for _, p := range s.Blocks {
				paragraph(&b, p, "")
			}
			b.raw(props)
			continue
		}
		// A non-final section ends with the paragraph that carries its properties.
		if len(s.Blocks) == 0 {
			paragraph(&b, Paragraph{}, props)
			continue
		}
		for j, p := range s.Blocks {
			if j == len(s.Blocks)-1 {
				paragraph(&b, p, props)
			} else {
				paragraph(&b, p, "")
			}
		}
	}
	b.raw(`</w:body></w:document>`)
	return b.Bytes()
}

func sectionProps(s Section, headerID string) string {
	var b xmlBuilder
	b.raw(`<w:sectPr>`)
	if headerID != "" {
		b.raw(`<w:headerReference w:type="default" r:id="` + headerID + `"/>`)
	}
	size := s.PageSize
	if size.Width == 0 || size.Height == 0 {
		size = Letter
	}
	b.raw(`<w:pgSz`)
	b.attr("w:w", size.Width)
	b.attr("w:h", size.Height)
	b.raw(`/><w:pgMar`)
	b.attr("w:top", s.Margins.Top)
	b.attr("w:right", s.Margins.Right)
	b.attr("w:bottom", s.Margins.Bottom)
	b.attr("w:left", s.Margins.Left)
	b.attr("w:header", s.Margins.Header)
	b.attr("w:footer", s.Margins.Footer)
	b.raw(` w:gutter="0"/>`)
	if s.PageNumberStart > 0 {
		b.raw(`<w:pgNumType`)
		b.attr("w:start", s.PageNumberStart)
		b.raw(`/>`)
	}
	b.raw(`</w:sectPr>`)
	return b.String()
}

// paragraph writes p. sectPr, when non-empty, is embedded in the paragraph
// properties and closes the current section.
func paragraph(b *xmlBuilder, p Paragraph, sectPr string) {
	b.raw(`<w:p>`)
	paragraphProps(b, p, sectPr)
	for _, r := range p.Runs {
		run(b, r)
	}
	b.raw(`</w:p>`)
}

func paragraphProps(b *xmlBuilder, p Paragraph, sectPr string) {
	var pp xmlBuilder
	if p.PageBreakBefore {
		pp.raw(`<w:pageBreakBefore/>`)
	}
	if len(p.Tabs) > 0 {
		pp.raw(`<w:tabs>`)
		for _, t := range p.Tabs {
			pp.raw(`<w:tab w:val="` + string(orLeft(t.Align)) + `"`)
			pp.attr("w:pos", t.Pos)
			pp.raw(`/>`)
		}
		pp.raw(`</w:tabs>`)
	}
	if p.Spacing != (Spacing{}) {
		pp.raw(`<w:spacing`)
		pp.attr("w:before", p.Spacing.Before)
		pp.attr("w:after", p.Spacing.After)
		if p.Spacing.Line > 0 {
			pp.attr("w:line", p.Spacing.Line)
			pp.raw(` w:lineRule="auto"`)
		}
		pp.raw(`/>`)
	}
	if p.Indent != (Indent{}) {
		pp.raw(`<w:ind`)
		pp.attr("w:left", p.Indent.Left)
		switch {
		case p.Indent.Hanging > 0:
			pp.attr("w:hanging", p.Indent.Hanging)
		case p.Indent.FirstLine > 0:
			pp.attr("w:firstLine", p.Indent.FirstLine)
		}
		pp.raw(`/>`)
	}
	if p.Align != "" {
		pp.raw(`<w:jc w:val="` + string(p.Align) + `"/>`)
	}
	pp.raw(sectPr)
	if pp.Len() == 0 {
		return
	}
	b.raw(`<w:pPr>`)
	b.Write(pp.Bytes())
	b.raw(`</w:pPr>`)
}

func orLeft(a Alignment) Alignment {
	if a == "" {
		return AlignLeft
	}
	return a
}

func runProps(r Run) string {
	var b xmlBuilder
	if r.Font != "" {
		fonts(&b, r.Font)
	}
	if r.Bold {
		b.raw(`<w:b/><w:bCs/>`)
	}
	if r.Italic {
		b.raw(`<w:i/><w:iCs/>`)
	}
	if r.Size > 0 {
		sizes(&b, r.Size)
	}
	if b.Len() == 0 {
		return ""
	}
	return `<w:rPr>` + b.String() + `</w:rPr>`
}

func run(b *xmlBuilder, r Run) {
	rPr := runProps(r)
	if r.Tab {
		b.raw(`<w:r>` + rPr + `<w:tab/></w:r>`)
	}
	if r.Field == FieldPage {
		b.raw(`<w:r>` + rPr + `<w:fldChar w:fldCharType="begin"/></w:r>`)
		b.raw(`<w:r>` + rPr + `<w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>`)
		b.raw(`<w:r>` + rPr + `<w:fldChar w:fldCharType="separate"/></w:r>`)
		b.raw(`<w:r>` + rPr + `<w:t>1</w:t></w:r>`)
		b.raw(`<w:r>` + rPr + `<w:fldChar w:fldCharType="end"/></w:r>`)
		return
	}
	if r.Text == "" {
		return
	}
	b.raw(`<w:r>` + rPr)
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.raw(`<w:br/>`)
		}
		if line == "" {
			continue
		}
		b.raw(`<w:t xml:space="preserve">`)
		b.text(line)
		b.raw(`</w:t>`)
	}
	b.raw(`</w:r>`)
}
