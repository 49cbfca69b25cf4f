// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for APA document generation.
// Implements: document configuration (DocumentConfig, Author, CoverPage, section
//
//	options and body sections), the reference sum type (Reference and its
//	twelve variants), and service configuration.
package types

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// DocumentType classifies the academic work. It is informational only and does
// not change layout rules.
type DocumentType string

const (
	DocEssay            DocumentType = "essay"
	DocResearchPaper    DocumentType = "research_paper"
	DocReviewArticle    DocumentType = "review_article"
	DocCaseStudy        DocumentType = "case_study"
	DocLiteratureReview DocumentType = "literature_review"
)

// CoverPageType selects one of the two mutually exclusive APA title pages.
type CoverPageType string

const (
	CoverStudent      CoverPageType = "student"
	CoverProfessional CoverPageType = "professional"
)

// Language selects the heading label table used by the assembler.
type Language string

const (
	LangEnglish Language = "en"
	LangSpanish Language = "es"
)

// Author identifies a document or reference author. It has no identity beyond
// its position in an ordered list.
type Author struct {
	FirstName  string `json:"firstName" yaml:"firstName" validate:"required,max=100"`
	MiddleName string `json:"middleName,omitempty" yaml:"middleName,omitempty" validate:"max=100"`
	LastName   string `json:"lastName" yaml:"lastName" validate:"required,max=100"`
}

// FullName returns "First [Middle] Last" as printed on the cover page.
func (a Author) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.FirstName, a.MiddleName, a.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// PlaceholderAuthor stands in when a document carries no author at all.
var PlaceholderAuthor = Author{FirstName: "Nombre", LastName: "Apellido"}

// CoverPage configures the title page.
type CoverPage struct {
	// Type is student or professional.
	Type CoverPageType `json:"type" yaml:"type" validate:"required,oneof=student professional"`

	// IncludePageNumber is accepted for compatibility; APA 7 numbers every page.
	IncludePageNumber *bool `json:"includePageNumber,omitempty" yaml:"includePageNumber,omitempty"`

	// RunningHead overrides the derived running head (professional only).
	RunningHead string `json:"runningHead,omitempty" yaml:"runningHead,omitempty" validate:"max=50"`

	// AuthorNote is printed at the bottom of the professional title page.
	AuthorNote string `json:"authorNote,omitempty" yaml:"authorNote,omitempty" validate:"max=2000"`
}

// SectionOptions toggles individual sections. A nil flag means included.
type SectionOptions struct {
	CoverPage    *bool `json:"coverPage,omitempty" yaml:"coverPage,omitempty"`
	Abstract     *bool `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Introduction *bool `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Method       *bool `json:"method,omitempty" yaml:"method,omitempty"`
	Results      *bool `json:"results,omitempty" yaml:"results,omitempty"`
	Discussion   *bool `json:"discussion,omitempty" yaml:"discussion,omitempty"`
	References   *bool `json:"references,omitempty" yaml:"references,omitempty"`
	Footnotes    *bool `json:"footnotes,omitempty" yaml:"footnotes,omitempty"`
}

// BodySections holds the prose of the document body. Paragraphs inside each
// section are separated by a blank line.
type BodySections struct {
	Introduction string `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Method       string `json:"method,omitempty" yaml:"method,omitempty"`
	Results      string `json:"results,omitempty" yaml:"results,omitempty"`
	Discussion   string `json:"discussion,omitempty" yaml:"discussion,omitempty"`
	Footnotes    string `json:"footnotes,omitempty" yaml:"footnotes,omitempty"`
}

// DocumentConfig is one document generation request.
type DocumentConfig struct {
	Type  DocumentType `json:"type" yaml:"type" validate:"required,oneof=essay research_paper review_article case_study literature_review"`
	Title string       `json:"title" yaml:"title" validate:"required,min=3,max=300"`

	// Author is the deprecated single-author alias. Use Authors.
	Author  *Author  `json:"author,omitempty" yaml:"author,omitempty"`
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty" validate:"max=20,dive"`

	Institution string `json:"institution" yaml:"institution" validate:"required,max=200"`
	Course      string `json:"course,omitempty" yaml:"course,omitempty" validate:"max=200"`
	Professor   string `json:"professor,omitempty" yaml:"professor,omitempty" validate:"max=200"`
	DueDate     Date   `json:"dueDate" yaml:"dueDate"`

	CoverPage CoverPage `json:"coverPage" yaml:"coverPage"`

	// Abstract is advisory-capped at 250 words; the hard limit is 3000 characters.
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty" validate:"max=3000"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty" validate:"max=10"`

	// Introduction is the deprecated top-level introduction. Use BodySections.
	Introduction string `json:"introduction,omitempty" yaml:"introduction,omitempty"`

	BodySections   *BodySections   `json:"bodySections,omitempty" yaml:"bodySections,omitempty"`
	SectionOptions *SectionOptions `json:"sectionOptions,omitempty" yaml:"sectionOptions,omitempty"`
	Language       Language        `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,oneof=en es"`

	// References is the bibliography. Input order is not significant.
	References ReferenceList `json:"references,omitempty" yaml:"references,omitempty"`
}

// ResolvedAuthors returns Authors, falling back to the deprecated Author field
// and finally to PlaceholderAuthor.
func (c DocumentConfig) ResolvedAuthors() []Author {
	if len(c.Authors) > 0 {
		return c.Authors
	}
	if c.Author != nil {
		return []Author{*c.Author}
	}
	return []Author{PlaceholderAuthor}
}

// Body returns the body sections with the deprecated Introduction applied.
func (c DocumentConfig) Body() BodySections {
	var b BodySections
	if c.BodySections != nil {
		b = *c.BodySections
	}
	if b.Introduction == "" {
		b.Introduction = c.Introduction
	}
	return b
}

// Date is a calendar date. It accepts "2006-01-02" or RFC 3339 on the wire and
// always marshals as "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate returns the Date for year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s as a calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: expected YYYY-MM-DD", s)
	}
	// Keep the calendar day the caller wrote, whatever the offset.
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// String returns the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDate(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
