// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.yaml.in/yaml/v3"
)

// ReferenceType tags a Reference variant.
type ReferenceType string

const (
	RefBook             ReferenceType = "book"
	RefJournalArticle   ReferenceType = "journal_article"
	RefWebsite          ReferenceType = "website"
	RefThesis           ReferenceType = "thesis"
	RefConferencePaper  ReferenceType = "conference_paper"
	RefReport           ReferenceType = "report"
	RefNewspaperArticle ReferenceType = "newspaper_article"
	RefMagazineArticle  ReferenceType = "magazine_article"
	RefFilm             ReferenceType = "film"
	RefPodcast          ReferenceType = "podcast"
	RefSocialMedia      ReferenceType = "social_media"
	RefLegalCase        ReferenceType = "legal_case"
)

// ReferenceTypes lists every supported variant tag.
var ReferenceTypes = []ReferenceType{
	RefBook, RefJournalArticle, RefWebsite, RefThesis,
	RefConferencePaper, RefReport, RefNewspaperArticle, RefMagazineArticle,
	RefFilm, RefPodcast, RefSocialMedia, RefLegalCase,
}

// ErrUnknownReferenceType is returned when a reference carries a type tag
// outside ReferenceTypes.
var ErrUnknownReferenceType = errors.New("unknown reference type")

// Reference is a bibliographic entry. The set of implementations is closed:
// the twelve variant structs below plus UnknownReference.
type Reference interface {
	// Kind returns the variant tag.
	Kind() ReferenceType
	// Base returns the fields shared by every variant.
	Base() *ReferenceBase
	isReference()
}

// ReferenceBase holds the fields shared by every variant.
type ReferenceBase struct {
	ID      string        `json:"id,omitempty" yaml:"id,omitempty"`
	Type    ReferenceType `json:"type" yaml:"type"`
	Authors []Author      `json:"authors" yaml:"authors" validate:"dive"`

	// Year is the publication year; zero means undated (rendered "s.f.").
	Year  int    `json:"year,omitempty" yaml:"year,omitempty" validate:"omitempty,min=1000,max=2100"`
	Title string `json:"title" yaml:"title" validate:"required,max=500"`
}

// Base implements Reference.
func (b *ReferenceBase) Base() *ReferenceBase { return b }

func (*ReferenceBase) isReference() {}

// FirstAuthorLastName returns the last name of the first author, or "".
func (b *ReferenceBase) FirstAuthorLastName() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0].LastName
}

// Book is a whole book, cited with its publisher and optional edition.
type Book struct {
	ReferenceBase `yaml:",inline"`
	Publisher     string `json:"publisher" yaml:"publisher" validate:"required,max=200"`
	Edition       string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Volume        string `json:"volume,omitempty" yaml:"volume,omitempty"`
	DOI           string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
}

// JournalArticle is an article in a periodical with volume, issue and pages.
type JournalArticle struct {
	ReferenceBase `yaml:",inline"`
	JournalName   string `json:"journalName" yaml:"journalName" validate:"required,max=300"`
	Volume        string `json:"volume" yaml:"volume" validate:"required"`
	Issue         string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages         string `json:"pages" yaml:"pages" validate:"required"`
	DOI           string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Website is a page on a website. The site name stands in for a missing author.
type Website struct {
	ReferenceBase `yaml:",inline"`
	WebsiteName   string     `json:"websiteName" yaml:"websiteName" validate:"required,max=200"`
	URL           string     `json:"url" yaml:"url" validate:"required"`
	AccessDate    *time.Time `json:"accessDate,omitempty" yaml:"accessDate,omitempty"`
}

// ThesisKind distinguishes doctoral dissertations from master's theses.
type ThesisKind string

const (
	ThesisDoctoral ThesisKind = "doctoral"
	ThesisMasters  ThesisKind = "masters"
)

// Thesis is a doctoral dissertation or master's thesis.
type Thesis struct {
	ReferenceBase `yaml:",inline"`
	Institution   string     `json:"institution" yaml:"institution" validate:"required,max=200"`
	ThesisType    ThesisKind `json:"thesisType" yaml:"thesisType" validate:"required,oneof=doctoral masters"`
	Database      string     `json:"database,omitempty" yaml:"database,omitempty"`
	URL           string     `json:"url,omitempty" yaml:"url,omitempty"`
}

// ConferencePaper is a paper or presentation given at a conference.
type ConferencePaper struct {
	ReferenceBase  `yaml:",inline"`
	ConferenceName string `json:"conferenceName" yaml:"conferenceName" validate:"required,max=300"`
	Location       string `json:"location,omitempty" yaml:"location,omitempty"`
	DOI            string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL            string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Report is a technical or institutional report. The organization stands in
// for a missing author.
type Report struct {
	ReferenceBase `yaml:",inline"`
	Organization  string `json:"organization" yaml:"organization" validate:"required,max=200"`
	ReportNumber  string `json:"reportNumber,omitempty" yaml:"reportNumber,omitempty"`
	DOI           string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
}

// NewspaperArticle is an article in a newspaper.
type NewspaperArticle struct {
	ReferenceBase `yaml:",inline"`
	NewspaperName string `json:"newspaperName" yaml:"newspaperName" validate:"required,max=200"`
	Pages         string `json:"pages,omitempty" yaml:"pages,omitempty"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
}

// MagazineArticle is an article in a magazine.
type MagazineArticle struct {
	ReferenceBase `yaml:",inline"`
	MagazineName  string `json:"magazineName" yaml:"magazineName" validate:"required,max=200"`
	Volume        string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue         string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages         string `json:"pages,omitempty" yaml:"pages,omitempty"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Film is a motion picture, credited to its director when it has no authors.
type Film struct {
	ReferenceBase `yaml:",inline"`
	Director      string `json:"director,omitempty" yaml:"director,omitempty"`
	Studio        string `json:"studio,omitempty" yaml:"studio,omitempty"`
	Country       string `json:"country,omitempty" yaml:"country,omitempty"`
}

// Podcast is one podcast episode.
type Podcast struct {
	ReferenceBase `yaml:",inline"`
	PodcastName   string `json:"podcastName" yaml:"podcastName" validate:"required,max=200"`
	EpisodeNumber string `json:"episodeNumber,omitempty" yaml:"episodeNumber,omitempty"`
	Platform      string `json:"platform,omitempty" yaml:"platform,omitempty"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
}

// SocialMedia is a post on a social network, cited by the author's handle.
type SocialMedia struct {
	ReferenceBase `yaml:",inline"`
	Platform      string     `json:"platform" yaml:"platform" validate:"required,oneof=Twitter Facebook Instagram LinkedIn TikTok"`
	Handle        string     `json:"handle" yaml:"handle" validate:"required"`
	URL           string     `json:"url" yaml:"url" validate:"required"`
	AccessDate    *time.Time `json:"accessDate,omitempty" yaml:"accessDate,omitempty"`
}

// LegalCase is a court decision cited by case number and reporter.
type LegalCase struct {
	ReferenceBase  `yaml:",inline"`
	CaseNumber     string `json:"caseNumber" yaml:"caseNumber" validate:"required"`
	Court          string `json:"court" yaml:"court" validate:"required"`
	Reporter       string `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	ReporterVolume string `json:"reporterVolume,omitempty" yaml:"reporterVolume,omitempty"`
	ReporterPages  string `json:"reporterPages,omitempty" yaml:"reporterPages,omitempty"`
	URL            string `json:"url,omitempty" yaml:"url,omitempty"`
}

// UnknownReference carries an entry whose type tag was not recognized. Only the
// shared fields survive decoding.
type UnknownReference struct {
	ReferenceBase `yaml:",inline"`
}

func (*Book) Kind() ReferenceType             { return RefBook }
func (*JournalArticle) Kind() ReferenceType   { return RefJournalArticle }
func (*Website) Kind() ReferenceType          { return RefWebsite }
func (*Thesis) Kind() ReferenceType           { return RefThesis }
func (*ConferencePaper) Kind() ReferenceType  { return RefConferencePaper }
func (*Report) Kind() ReferenceType           { return RefReport }
func (*NewspaperArticle) Kind() ReferenceType { return RefNewspaperArticle }
func (*MagazineArticle) Kind() ReferenceType  { return RefMagazineArticle }
func (*Film) Kind() ReferenceType             { return RefFilm }
func (*Podcast) Kind() ReferenceType          { return RefPodcast }
func (*SocialMedia) Kind() ReferenceType      { return RefSocialMedia }
func (*LegalCase) Kind() ReferenceType        { return RefLegalCase }
func (u *UnknownReference) Kind() ReferenceType {
	return u.Type
}

// NewReference returns an empty variant for t. Unrecognized tags yield an
// *UnknownReference and ErrUnknownReferenceType.
func NewReference(t ReferenceType) (Reference, error) {
	var r Reference
	switch t {
	case RefBook:
		r = &Book{}
	case RefJournalArticle:
		r = &JournalArticle{}
	case RefWebsite:
		r = &Website{}
	case RefThesis:
		r = &Thesis{}
	case RefConferencePaper:
		r = &ConferencePaper{}
	case RefReport:
		r = &Report{}
	case RefNewspaperArticle:
		r = &NewspaperArticle{}
	case RefMagazineArticle:
		r = &MagazineArticle{}
	case RefFilm:
		r = &Film{}
	case RefPodcast:
		r = &Podcast{}
	case RefSocialMedia:
		r = &SocialMedia{}
	case RefLegalCase:
		r = &LegalCase{}
	default:
		u := &UnknownReference{}
		u.Type = t
		return u, fmt.Errorf("%w: %q", ErrUnknownReferenceType, t)
	}
	r.Base().Type = t
	return r, nil
}

// ReferenceList is an ordered list of references that decodes a flat JSON or
// YAML array by dispatching on each element's "type" tag. Elements with an
// unrecognized tag decode to *UnknownReference; rejecting them is left to the
// input validation layer.
type ReferenceList []Reference

type typeTag struct {
	Type ReferenceType `json:"type" yaml:"type"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *ReferenceList) UnmarshalJSON(data []byte) error {
	out, err := ReadReferencesJSON(data, false)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *ReferenceList) UnmarshalYAML(node *yaml.Node) error {
	out, err := ReadReferencesYAML(node, false)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// ReadReferencesJSON decodes a JSON array of references. With strict set, a
// field the element's variant does not define is an error. Elements with an
// unrecognized type are always decoded leniently.
func ReadReferencesJSON(data []byte, strict bool) (ReferenceList, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding references: %w", err)
	}
	out := make(ReferenceList, 0, len(raw))
	for i, item := range raw {
		var tag typeTag
		if err := json.Unmarshal(item, &tag); err != nil {
			return nil, fmt.Errorf("decoding reference %d: %w", i, err)
		}
		ref, known := NewReference(tag.Type)
		dec := json.NewDecoder(bytes.NewReader(item))
		if strict && known == nil {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(ref); err != nil {
			return nil, fmt.Errorf("decoding reference %d (%s): %w", i, tag.Type, err)
		}
		out = append(out, ref)
	}
	return out, nil
}

// ReadReferencesYAML decodes a YAML sequence of references. Strictness works
// as in ReadReferencesJSON.
func ReadReferencesYAML(node *yaml.Node, strict bool) (ReferenceList, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("decoding references: line %d: expected a list", node.Line)
	}
	out := make(ReferenceList, 0, len(node.Content))
	for i, item := range node.Content {
		var tag typeTag
		if err := item.Decode(&tag); err != nil {
			return nil, fmt.Errorf("decoding reference %d: %w", i, err)
		}
		ref, known := NewReference(tag.Type)
		var err error
		if strict && known == nil {
			err = decodeKnownFields(item, ref)
		} else {
			err = item.Decode(ref)
		}
		if err != nil {
			return nil, fmt.Errorf("decoding reference %d (%s): %w", i, tag.Type, err)
		}
		out = append(out, ref)
	}
	return out, nil
}

// decodeKnownFields decodes node into v, rejecting keys v does not define.
// yaml.Node.Decode has no such option, so the node is re-encoded and read
// back through a Decoder.
func decodeKnownFields(node *yaml.Node, v any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// MarshalJSON implements json.Marshaler. Each element is written with its
// variant tag, whatever its Type field holds.
func (l ReferenceList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.tagged())
}

// MarshalYAML implements yaml.Marshaler.
func (l ReferenceList) MarshalYAML() (any, error) {
	return l.tagged(), nil
}

func (l ReferenceList) tagged() []Reference {
	out := make([]Reference, len(l))
	for i, r := range l {
		out[i] = WithKind(r)
	}
	return out
}

// WithKind returns r with its Type field set to r.Kind(). When the field
// already matches r is returned as is; otherwise a shallow copy is tagged so
// the caller's value is left untouched.
func WithKind(r Reference) Reference {
	if r.Base().Type == r.Kind() {
		return r
	}
	v := reflect.ValueOf(r)
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	out := c.Interface().(Reference)
	out.Base().Type = r.Kind()
	return out
}
