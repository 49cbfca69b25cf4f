// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/apa-generator/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Director       []CSLName `yaml:"director,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	PublisherPlace string    `yaml:"publisher-place,omitempty"`
	Event          string    `yaml:"event,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Edition        string    `yaml:"edition,omitempty"`
	Number         string    `yaml:"number,omitempty"`
	Genre          string    `yaml:"genre,omitempty"`
	Authority      string    `yaml:"authority,omitempty"`
	Medium         string    `yaml:"medium,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps reference variants to CSL item types.
var cslTypes = map[types.ReferenceType]string{
	types.RefBook:             "book",
	types.RefJournalArticle:   "article-journal",
	types.RefWebsite:          "webpage",
	types.RefThesis:           "thesis",
	types.RefConferencePaper:  "paper-conference",
	types.RefReport:           "report",
	types.RefNewspaperArticle: "article-newspaper",
	types.RefMagazineArticle:  "article-magazine",
	types.RefFilm:             "motion_picture",
	types.RefPodcast:          "broadcast",
	types.RefSocialMedia:      "post",
	types.RefLegalCase:        "legal_case",
}

// FormatCSL writes refs as a CSL-YAML list to w. Unknown variants are
// skipped.
func FormatCSL(refs []types.Reference, w io.Writer) error {
	items := make([]CSLItem, 0, len(refs))
	for _, r := range refs {
		if item, ok := toCSLItem(r); ok {
			items = append(items, item)
		}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a Reference to a CSLItem.
func toCSLItem(r types.Reference) (CSLItem, bool) {
	typ, ok := cslTypes[r.Kind()]
	if !ok {
		return CSLItem{}, false
	}
	b := r.Base()
	item := CSLItem{ID: b.ID, Type: typ, Title: b.Title}
	for _, a := range b.Authors {
		item.Author = append(item.Author, cslName(a))
	}
	if b.Year != 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{b.Year}}}
	}

	switch v := r.(type) {
	case *types.Book:
		item.Publisher, item.Edition, item.Volume = v.Publisher, v.Edition, v.Volume
		item.DOI, item.URL = v.DOI, v.URL
	case *types.JournalArticle:
		item.ContainerTitle, item.Volume, item.Issue, item.Page = v.JournalName, v.Volume, v.Issue, v.Pages
		item.DOI, item.URL = v.DOI, v.URL
	case *types.Website:
		item.ContainerTitle, item.URL = v.WebsiteName, v.URL
	case *types.Thesis:
		item.Publisher, item.Genre, item.URL = v.Institution, thesisGenre(v.ThesisType), v.URL
		item.Medium = v.Database
	case *types.ConferencePaper:
		item.Event, item.PublisherPlace = v.ConferenceName, v.Location
		item.DOI, item.URL = v.DOI, v.URL
	case *types.Report:
		item.Publisher, item.Number = v.Organization, v.ReportNumber
		item.DOI, item.URL = v.DOI, v.URL
	case *types.NewspaperArticle:
		item.ContainerTitle, item.Page, item.URL = v.NewspaperName, v.Pages, v.URL
	case *types.MagazineArticle:
		item.ContainerTitle, item.Volume, item.Issue, item.Page = v.MagazineName, v.Volume, v.Issue, v.Pages
		item.URL = v.URL
	case *types.Film:
		item.Publisher, item.PublisherPlace = v.Studio, v.Country
		if v.Director != "" {
			item.Director = []CSLName{parseAuthorName(v.Director)}
		}
	case *types.Podcast:
		item.ContainerTitle, item.Number, item.Publisher = v.PodcastName, v.EpisodeNumber, v.Platform
		item.URL = v.URL
	case *types.SocialMedia:
		item.ContainerTitle, item.URL = v.Platform, v.URL
	case *types.LegalCase:
		item.Authority, item.Number = v.Court, v.CaseNumber
		item.ContainerTitle, item.Volume, item.Page = v.Reporter, v.ReporterVolume, v.ReporterPages
		item.URL = v.URL
	}
	return item, true
}

func thesisGenre(k types.ThesisKind) string {
	if k == types.ThesisDoctoral {
		return "Doctoral dissertation"
	}
	return "Master's thesis"
}

func cslName(a types.Author) CSLName {
	given := strings.TrimSpace(strings.Join([]string{a.FirstName, a.MiddleName}, " "))
	if a.LastName == "" {
		return CSLName{Literal: given}
	}
	return CSLName{Family: a.LastName, Given: given}
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
