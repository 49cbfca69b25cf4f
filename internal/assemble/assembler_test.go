// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/apa-generator/internal/apa"
	"github.com/pdiddy/apa-generator/internal/docx"
	"github.com/pdiddy/apa-generator/pkg/types"
)

func boolPtr(b bool) *bool { return &b }

func baseConfig() types.DocumentConfig {
	return types.DocumentConfig{
		Type:        types.DocResearchPaper,
		Title:       "The Impact of Climate Change",
		Authors:     []types.Author{{FirstName: "Juan", MiddleName: "David", LastName: "Pérez"}},
		Institution: "Universidad Nacional",
		Course:      "Biología 101",
		Professor:   "Dra. Ruiz",
		DueDate:     types.NewDate(2024, time.March, 15),
		CoverPage:   types.CoverPage{Type: types.CoverStudent},
		Abstract:    "A short abstract.",
		Keywords:    []string{"climate", "crops", "policy"},
		BodySections: &types.BodySections{
			Introduction: "First paragraph.\n\nSecond paragraph.",
			Results:      "Findings.",
			Footnotes:    "A note.",
		},
	}
}

func book(last string, year int) types.Reference {
	return &types.Book{
		ReferenceBase: types.ReferenceBase{
			Type:    types.RefBook,
			Authors: []types.Author{{FirstName: "A", LastName: last}},
			Year:    year,
			Title:   "Book by " + last,
		},
		Publisher: "Press",
	}
}

func texts(ps []docx.Paragraph) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.PlainText()
	}
	return out
}

func bodySection(doc *docx.Document) docx.Section {
	return doc.Sections[len(doc.Sections)-1]
}

func TestBuildStudentCover(t *testing.T) {
	doc := New(apa.DefaultLayout()).Build(baseConfig(), nil)
	require.Len(t, doc.Sections, 2)

	cover := doc.Sections[0]
	assert.Equal(t, 1, cover.PageNumberStart)
	lines := texts(cover.Blocks)
	assert.Equal(t, []string{"", "", ""}, lines[:3])
	assert.Equal(t, "The Impact of Climate Change", lines[3])
	assert.True(t, cover.Blocks[3].Runs[0].Bold)
	assert.Equal(t, docx.AlignCenter, cover.Blocks[3].Align)
	assert.Equal(t, []string{
		"", "Juan David Pérez", "Universidad Nacional", "Biología 101", "Dra. Ruiz", "marzo 15, 2024",
	}, lines[4:])

	require.NotNil(t, cover.Header)
	require.Len(t, cover.Header.Paragraphs, 1)
	hp := cover.Header.Paragraphs[0]
	assert.True(t, hp.HasField(docx.FieldPage))
	assert.Equal(t, "", hp.PlainText())
	assert.Equal(t, docx.AlignRight, hp.Align)
}

func TestBuildProfessionalCover(t *testing.T) {
	cfg := baseConfig()
	cfg.CoverPage = types.CoverPage{Type: types.CoverProfessional, AuthorNote: "Correspondence to J. Pérez."}
	doc := New(apa.DefaultLayout()).Build(cfg, nil)

	for _, s := range doc.Sections {
		require.NotNil(t, s.Header)
		hp := s.Header.Paragraphs[0]
		assert.Equal(t, "IMPACT OF CLIMATE CHANGE", hp.PlainText())
		assert.True(t, hp.HasField(docx.FieldPage))
		require.Len(t, hp.Tabs, 1)
		assert.Equal(t, 9360, hp.Tabs[0].Pos)
	}

	lines := texts(doc.Sections[0].Blocks)
	assert.Equal(t, "Correspondence to J. Pérez.", lines[len(lines)-1])
	assert.Equal(t, "Author Note", lines[len(lines)-2])
	for _, l := range lines[len(lines)-2-8 : len(lines)-2] {
		assert.Equal(t, "", l)
	}
}

func TestBuildProfessionalRunningHeadOverride(t *testing.T) {
	cfg := baseConfig()
	cfg.CoverPage = types.CoverPage{Type: types.CoverProfessional, RunningHead: "climate"}
	doc := New(apa.DefaultLayout()).Build(cfg, nil)
	assert.Equal(t, "CLIMATE", doc.Sections[0].Header.Paragraphs[0].PlainText())
}

func TestBuildPageNumberStart(t *testing.T) {
	cfg := baseConfig()
	doc := New(apa.DefaultLayout()).Build(cfg, nil)
	assert.Equal(t, 2, bodySection(doc).PageNumberStart)

	cfg.SectionOptions = &types.SectionOptions{CoverPage: boolPtr(false)}
	doc = New(apa.DefaultLayout()).Build(cfg, nil)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, 1, bodySection(doc).PageNumberStart)
}

func TestBuildBodyOrder(t *testing.T) {
	doc := New(apa.DefaultLayout()).Build(baseConfig(), []types.Reference{book("Smith", 2020)})
	blocks := bodySection(doc).Blocks
	assert.Equal(t, []string{
		"Abstract",
		"A short abstract.",
		"Keywords: climate, crops, policy",
		"The Impact of Climate Change",
		"Introduction",
		"First paragraph.",
		"Second paragraph.",
		"Results",
		"Findings.",
		"References",
		"Smith, A. (2020). Book by Smith. Press.",
		"Notes",
		"A note.",
	}, texts(blocks))

	assert.Equal(t, docx.Indent{}, blocks[1].Indent, "abstract is not indented")
	assert.True(t, blocks[2].Runs[0].Italic)
	assert.False(t, blocks[2].Runs[1].Italic)
	assert.True(t, blocks[3].PageBreakBefore, "title follows the abstract page")
	assert.Equal(t, docx.AlignLeft, blocks[4].Align)
	assert.Equal(t, 720, blocks[5].Indent.FirstLine)
	assert.True(t, blocks[9].PageBreakBefore)
	assert.Equal(t, docx.Indent{Left: 720, Hanging: 720}, blocks[10].Indent)
	assert.True(t, blocks[11].PageBreakBefore)
}

func TestBuildSpanishLabels(t *testing.T) {
	cfg := baseConfig()
	cfg.Language = types.LangSpanish
	doc := New(apa.DefaultLayout()).Build(cfg, []types.Reference{book("Smith", 2020)})
	lines := texts(bodySection(doc).Blocks)
	assert.Contains(t, lines, "Resumen")
	assert.Contains(t, lines, "Referencias")
	assert.Contains(t, lines, "Introducción")
}

func TestBuildPlaceholderWhenNoProse(t *testing.T) {
	cfg := baseConfig()
	cfg.Abstract = ""
	cfg.BodySections = nil
	doc := New(apa.DefaultLayout()).Build(cfg, nil)
	blocks := bodySection(doc).Blocks
	require.Len(t, blocks, 2)
	assert.False(t, blocks[0].PageBreakBefore)
	assert.Equal(t, apa.LabelsFor(types.LangEnglish).Placeholder, blocks[1].PlainText())
}

func TestBuildDeprecatedIntroduction(t *testing.T) {
	cfg := baseConfig()
	cfg.BodySections = nil
	cfg.Introduction = "Legacy intro."
	lines := texts(bodySection(New(apa.DefaultLayout()).Build(cfg, nil)).Blocks)
	assert.Contains(t, lines, "Legacy intro.")
}

func TestBuildSectionOmission(t *testing.T) {
	cfg := baseConfig()
	cfg.SectionOptions = &types.SectionOptions{
		Abstract:   boolPtr(false),
		Results:    boolPtr(false),
		References: boolPtr(false),
		Footnotes:  boolPtr(false),
	}
	doc := New(apa.DefaultLayout()).Build(cfg, []types.Reference{book("Smith", 2020)})
	lines := texts(bodySection(doc).Blocks)
	for _, absent := range []string{"Abstract", "Results", "References", "Notes", "Findings."} {
		assert.NotContains(t, lines, absent)
	}
	for _, l := range lines {
		assert.NotContains(t, l, "Smith")
	}
}

func TestBuildReferenceOrder(t *testing.T) {
	refs := []types.Reference{book("Smith", 2001), book("Anderson", 2002), book("García", 2003)}
	blocks := bodySection(New(apa.DefaultLayout()).Build(baseConfig(), refs)).Blocks
	var entries []string
	for _, p := range blocks {
		if p.Indent.Hanging > 0 {
			entries = append(entries, p.PlainText())
		}
	}
	require.Len(t, entries, 3)
	assert.True(t, strings.HasPrefix(entries[0], "Anderson"))
	assert.True(t, strings.HasPrefix(entries[1], "García"))
	assert.True(t, strings.HasPrefix(entries[2], "Smith"))
	assert.Equal(t, "Smith", refs[0].Base().FirstAuthorLastName(), "input order untouched")
}

func TestSortReferencesStableAndEmptyFirst(t *testing.T) {
	noAuthor := &types.Report{
		ReferenceBase: types.ReferenceBase{Type: types.RefReport, Title: "Anonymous"},
		Organization:  "WHO",
	}
	refs := []types.Reference{book("Lee", 2001), noAuthor, book("Lee", 1999), book("Adams", 2005)}
	sorted := SortReferences(refs, types.LangEnglish)
	require.Len(t, sorted, 4)
	assert.Same(t, noAuthor, sorted[0])
	assert.Equal(t, "Adams", sorted[1].Base().FirstAuthorLastName())
	assert.Equal(t, 2001, sorted[2].Base().Year)
	assert.Equal(t, 1999, sorted[3].Base().Year)
}

func TestBuildSkipsUnknownReferences(t *testing.T) {
	unknown, _ := types.NewReference("pamphlet")
	unknown.Base().Title = "Mystery"
	doc := New(apa.DefaultLayout()).Build(baseConfig(), []types.Reference{unknown})
	lines := texts(bodySection(doc).Blocks)
	assert.NotContains(t, lines, "References")
}

func TestBuildPlaceholderAuthor(t *testing.T) {
	cfg := baseConfig()
	cfg.Authors = nil
	lines := texts(New(apa.DefaultLayout()).Build(cfg, nil).Sections[0].Blocks)
	assert.Contains(t, lines, "Nombre Apellido")
}

func TestBuildIsIdempotent(t *testing.T) {
	a := New(apa.DefaultLayout())
	refs := []types.Reference{book("Smith", 2001), book("Anderson", 2002)}
	assert.Equal(t, a.Build(baseConfig(), refs), a.Build(baseConfig(), refs))

	first, err := a.Generate(baseConfig(), refs)
	require.NoError(t, err)
	second, err := a.Generate(baseConfig(), refs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateProducesDocx(t *testing.T) {
	data, err := Generate(baseConfig(), nil)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")
}

func TestSplitParagraphs(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, splitParagraphs("one\ntwo\r\n\r\n  \n three  "))
	assert.Empty(t, splitParagraphs("  \n\n "))
}
