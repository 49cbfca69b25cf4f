// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"github.com/pdiddy/apa-generator/internal/apa"
	"github.com/pdiddy/apa-generator/internal/docx"
	"github.com/pdiddy/apa-generator/pkg/types"
)

// coverBlocks returns the title page. Both variants share the title and
// byline block; the professional page adds the author note near the bottom.
func (a *Assembler) coverBlocks(cfg types.DocumentConfig, authors []types.Author, labels apa.Labels) []docx.Paragraph {
	var blocks []docx.Paragraph
	for i := 0; i < a.layout.CoverTopPadding; i++ {
		blocks = append(blocks, docx.Blank())
	}

	blocks = append(blocks, centered(docx.Run{Text: cfg.Title, Bold: true}), docx.Blank())
	for _, au := range authors {
		blocks = append(blocks, centered(docx.Text(au.FullName())))
	}
	for _, line := range []string{
		cfg.Institution,
		cfg.Course,
		cfg.Professor,
		apa.FormatDate(cfg.DueDate.Time),
	} {
		if line != "" {
			blocks = append(blocks, centered(docx.Text(line)))
		}
	}

	if cfg.CoverPage.Type == types.CoverProfessional {
		blocks = append(blocks, a.authorNote(cfg.CoverPage.AuthorNote, labels)...)
	}
	return blocks
}

func (a *Assembler) authorNote(note string, labels apa.Labels) []docx.Paragraph {
	paras := splitParagraphs(note)
	if len(paras) == 0 {
		return nil
	}
	var blocks []docx.Paragraph
	for i := 0; i < a.layout.AuthorNotePadding; i++ {
		blocks = append(blocks, docx.Blank())
	}
	blocks = append(blocks, centered(docx.Run{Text: labels.AuthorNote, Bold: true}))
	for _, p := range paras {
		blocks = append(blocks, centered(docx.Text(p)))
	}
	return blocks
}

func centered(runs ...docx.Run) docx.Paragraph {
	return docx.Paragraph{Align: docx.AlignCenter, Runs: runs}
}
