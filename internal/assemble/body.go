// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/apa-generator/internal/apa"
	"github.com/pdiddy/apa-generator/internal/docx"
	"github.com/pdiddy/apa-generator/pkg/types"
)

func (a *Assembler) bodyBlocks(cfg types.DocumentConfig, refs []types.Reference, inc inclusion, labels apa.Labels) []docx.Paragraph {
	var blocks []docx.Paragraph

	abstract := inc.abstract && strings.TrimSpace(cfg.Abstract) != ""
	if abstract {
		blocks = append(blocks, heading(labels.Abstract, docx.AlignCenter))
		for _, p := range splitParagraphs(cfg.Abstract) {
			blocks = append(blocks, docx.Paragraph{Align: docx.AlignLeft, Runs: []docx.Run{docx.Text(p)}})
		}
		if kw := keywordList(cfg.Keywords); kw != "" {
			blocks = append(blocks, docx.Paragraph{
				Indent: docx.Indent{FirstLine: a.layout.FirstLineIndent},
				Runs:   []docx.Run{{Text: labels.Keywords, Italic: true}, docx.Text(kw)},
			})
		}
	}

	title := heading(cfg.Title, docx.AlignCenter)
	title.PageBreakBefore = abstract
	blocks = append(blocks, title)

	body := cfg.Body()
	var prose int
	for _, sub := range []struct {
		on    bool
		label string
		text  string
	}{
		{inc.introduction, labels.Introduction, body.Introduction},
		{inc.method, labels.Method, body.Method},
		{inc.results, labels.Results, body.Results},
		{inc.discussion, labels.Discussion, body.Discussion},
	} {
		paras := splitParagraphs(sub.text)
		if !sub.on || len(paras) == 0 {
			continue
		}
		blocks = append(blocks, heading(sub.label, docx.AlignLeft))
		blocks = append(blocks, a.indented(paras)...)
		prose++
	}
	if prose == 0 {
		blocks = append(blocks, a.indented([]string{labels.Placeholder})...)
	}

	if inc.references {
		if entries := a.referenceEntries(refs, cfg.Language); len(entries) > 0 {
			h := heading(labels.References, docx.AlignCenter)
			h.PageBreakBefore = true
			blocks = append(blocks, h)
			blocks = append(blocks, entries...)
		}
	}

	if notes := splitParagraphs(body.Footnotes); inc.footnotes && len(notes) > 0 {
		h := heading(labels.Notes, docx.AlignCenter)
		h.PageBreakBefore = true
		blocks = append(blocks, h)
		blocks = append(blocks, a.indented(notes)...)
	}
	return blocks
}

// referenceEntries formats refs as hanging-indent paragraphs ordered by the
// first author's last name. Entries the formatter cannot render are dropped.
func (a *Assembler) referenceEntries(refs []types.Reference, lang types.Language) []docx.Paragraph {
	sorted := SortReferences(refs, lang)
	hang := a.layout.HangingIndent()
	var out []docx.Paragraph
	for _, r := range sorted {
		citation := apa.FormatReference(r)
		if citation == "" {
			continue
		}
		out = append(out, docx.Paragraph{
			Indent: docx.Indent{Left: hang, Hanging: hang},
			Runs:   []docx.Run{docx.Text(citation)},
		})
	}
	return out
}

// SortReferences returns a copy of refs stably ordered by the first author's
// last name under the collation rules of lang. A missing last name sorts
// first. The input slice is not modified.
func SortReferences(refs []types.Reference, lang types.Language) []types.Reference {
	tag := language.English
	if lang == types.LangSpanish {
		tag = language.Spanish
	}
	// A Collator is not safe for concurrent use.
	c := collate.New(tag)
	out := slices.Clone(refs)
	slices.SortStableFunc(out, func(x, y types.Reference) int {
		return c.CompareString(sortKey(x), sortKey(y))
	})
	return out
}

func sortKey(r types.Reference) string {
	if r == nil {
		return ""
	}
	return r.Base().FirstAuthorLastName()
}

func (a *Assembler) indented(paras []string) []docx.Paragraph {
	out := make([]docx.Paragraph, len(paras))
	for i, p := range paras {
		out[i] = docx.Paragraph{
			Indent: docx.Indent{FirstLine: a.layout.FirstLineIndent},
			Runs:   []docx.Run{docx.Text(p)},
		}
	}
	return out
}

func heading(text string, align docx.Alignment) docx.Paragraph {
	return docx.Paragraph{Align: align, Runs: []docx.Run{{Text: text, Bold: true}}}
}

func keywordList(keywords []string) string {
	kept := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kept = append(kept, k)
		}
	}
	return strings.Join(kept, ", ")
}
