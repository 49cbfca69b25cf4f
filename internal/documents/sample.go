// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package documents

import (
	"fmt"
	"time"

	"github.com/pdiddy/apa-generator/internal/apa"
	"github.com/pdiddy/apa-generator/internal/docx"
	"github.com/pdiddy/apa-generator/pkg/types"
)

// SampleFilename is the download name of the smoke-test document.
const SampleFilename = "test_apa.docx"

// SampleDocument returns the fixed smoke-test document: one page with a
// centered bold title and one double-spaced paragraph.
func SampleDocument() *docx.Document {
	l := apa.DefaultLayout()
	return &docx.Document{
		Title:       "Documento de prueba APA",
		Font:        l.Font,
		FontSize:    l.FontSize,
		LineSpacing: l.LineSpacing,
		Sections: []docx.Section{{
			PageSize: docx.Letter,
			Margins: docx.Margins{
				Top:    l.Margins.Top,
				Right:  l.Margins.Right,
				Bottom: l.Margins.Bottom,
				Left:   l.Margins.Left,
				Header: apa.TwipsPerInch / 2,
				Footer: apa.TwipsPerInch / 2,
			},
			Blocks: []docx.Paragraph{
				{Align: docx.AlignCenter, Runs: []docx.Run{{Text: "Documento de prueba APA", Bold: true}}},
				{Runs: []docx.Run{docx.Text("Este es un documento de prueba generado con el formato APA.")}},
			},
		}},
	}
}

// Sample encodes SampleDocument.
func (s *Service) Sample() (*Result, error) {
	s.log.Info("generating sample document")
	data, err := docx.Marshal(SampleDocument())
	if err != nil {
		return nil, fmt.Errorf("encoding sample document: %w", err)
	}
	return &Result{Filename: SampleFilename, Data: data}, nil
}

// ExampleConfig returns a complete request exercising every section. The CLI
// prints it as a starting point for new input files.
func ExampleConfig() types.DocumentConfig {
	return types.DocumentConfig{
		Type:  types.DocResearchPaper,
		Title: "The Impact of Sleep on Academic Performance",
		Authors: []types.Author{
			{FirstName: "María", MiddleName: "José", LastName: "García"},
			{FirstName: "John", LastName: "Smith"},
		},
		Institution: "Universidad Nacional",
		Course:      "PSY 101: Introduction to Psychology",
		Professor:   "Dr. Laura Méndez",
		DueDate:     types.NewDate(2026, time.March, 15),
		CoverPage:   types.CoverPage{Type: types.CoverStudent},
		Abstract:    "This paper reviews the evidence linking sleep duration to academic outcomes in undergraduate students.",
		Keywords:    []string{"sleep", "academic performance", "students"},
		BodySections: &types.BodySections{
			Introduction: "Sleep is essential for memory consolidation.\n\nThis paper summarizes recent findings.",
			Method:       "We reviewed peer-reviewed studies published between 2010 and 2025.",
			Results:      "Shorter sleep was consistently associated with lower grades.",
			Discussion:   "Institutions should consider later class start times.",
		},
		References: types.ReferenceList{
			&types.JournalArticle{
				ReferenceBase: types.ReferenceBase{
					Type:    types.RefJournalArticle,
					Authors: []types.Author{{FirstName: "Matthew", LastName: "Walker"}},
					Year:    2019,
					Title:   "Sleep and memory consolidation",
				},
				JournalName: "Nature Reviews Neuroscience",
				Volume:      "20",
				Issue:       "3",
				Pages:       "131-142",
				DOI:         "10.1038/s41583-019-0123-4",
			},
			&types.Book{
				ReferenceBase: types.ReferenceBase{
					Type:    types.RefBook,
					Authors: []types.Author{{FirstName: "Ana", LastName: "Anderson"}},
					Year:    2021,
					Title:   "Understanding sleep",
				},
				Edition:   "2",
				Publisher: "Academic Press",
			},
		},
	}
}
