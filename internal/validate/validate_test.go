// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/apa-generator/pkg/types"
)

func validConfig() types.DocumentConfig {
	return types.DocumentConfig{
		Type:        types.DocEssay,
		Title:       "Sleep and memory",
		Authors:     []types.Author{{FirstName: "Ana", LastName: "Pérez"}},
		Institution: "Universidad Nacional",
		DueDate:     types.NewDate(2024, time.May, 2),
		CoverPage:   types.CoverPage{Type: types.CoverStudent},
		References: types.ReferenceList{
			&types.Book{
				ReferenceBase: types.ReferenceBase{
					Type:    types.RefBook,
					Authors: []types.Author{{FirstName: "Ian", LastName: "Walker"}},
					Year:    2017,
					Title:   "Why We Sleep",
				},
				Publisher: "Scribner",
				DOI:       "10.1/sleep",
			},
		},
	}
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	out := make(map[string]string, len(verr.Details))
	for _, d := range verr.Details {
		out[d.Field] = d.Message
	}
	return out
}

func TestDocumentValid(t *testing.T) {
	assert.NoError(t, New().Document(validConfig()))
}

func TestDocumentDeprecatedAuthorAccepted(t *testing.T) {
	cfg := validConfig()
	cfg.Authors = nil
	cfg.Author = &types.Author{FirstName: "Ana", LastName: "Pérez"}
	assert.NoError(t, New().Document(cfg))
}

func TestDocumentFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.DocumentConfig)
		field  string
		msg    string
	}{
		{"short title", func(c *types.DocumentConfig) { c.Title = "ab" }, "title", "must be at least 3 characters"},
		{"missing institution", func(c *types.DocumentConfig) { c.Institution = "" }, "institution", "is required"},
		{"bad type", func(c *types.DocumentConfig) { c.Type = "poem" }, "type", "must be one of: essay, research_paper, review_article, case_study, literature_review"},
		{"bad cover", func(c *types.DocumentConfig) { c.CoverPage.Type = "fancy" }, "coverPage.type", "must be one of: student, professional"},
		{"no authors", func(c *types.DocumentConfig) { c.Authors = nil }, "authors", "at least one author is required"},
		{"author last name", func(c *types.DocumentConfig) { c.Authors[0].LastName = "" }, "authors[0].lastName", "is required"},
		{"no due date", func(c *types.DocumentConfig) { c.DueDate = types.Date{} }, "dueDate", "is required"},
		{"too many keywords", func(c *types.DocumentConfig) { c.Keywords = make([]string, 11) }, "keywords", "must be at most 10 items"},
		{"language", func(c *types.DocumentConfig) { c.Language = "fr" }, "language", "must be one of: en, es"},
		{"long abstract", func(c *types.DocumentConfig) { c.Abstract = strings.Repeat("x", 3001) }, "abstract", "must be at most 3000 characters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			got := details(t, New().Document(cfg))
			assert.Equal(t, tc.msg, got[tc.field], "details: %v", got)
		})
	}
}

func TestDocumentReferenceErrors(t *testing.T) {
	cfg := validConfig()
	unknown, _ := types.NewReference("pamphlet")
	cfg.References = append(cfg.References,
		&types.JournalArticle{
			ReferenceBase: types.ReferenceBase{Type: types.RefJournalArticle, Year: 900, Title: "Old"},
			JournalName:   "J",
			Volume:        "1",
		},
		unknown,
	)
	got := details(t, New().Document(cfg))
	assert.Equal(t, "is required", got["references[1].pages"])
	assert.Equal(t, "must be at least 1000", got["references[1].year"])
	assert.Equal(t, "at least one author is required", got["references[1].authors"])
	assert.Equal(t, `unsupported reference type "pamphlet"`, got["references[2].type"])
}

func TestReferenceWebsiteNeedsNoAuthor(t *testing.T) {
	site := &types.Website{
		ReferenceBase: types.ReferenceBase{Type: types.RefWebsite, Title: "Facts"},
		WebsiteName:   "NASA",
		URL:           "https://nasa.gov",
	}
	assert.NoError(t, New().Reference(site))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Details: []Detail{{"title", "is required"}, {"dueDate", "is required"}}}
	assert.Equal(t, "invalid document: title: is required; dueDate: is required", err.Error())
	assert.Equal(t, []string{"title: is required", "dueDate: is required"}, err.Messages())
}

func TestAdvise(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, Advise(cfg))

	cfg.Title = strings.Repeat("word ", 13)
	cfg.Abstract = strings.Repeat("word ", 251)
	cfg.Keywords = []string{"one", "two"}
	cfg.References[0].(*types.Book).DOI = ""
	warnings := Advise(cfg)
	require.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], "title has 13 words")
	assert.Contains(t, warnings[1], "abstract has 251 words")
	assert.Contains(t, warnings[2], "2 keywords")
	assert.Contains(t, warnings[3], "Why We Sleep")
}
