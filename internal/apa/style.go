// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apa holds the APA 7 rules: the physical layout table, the heading
// labels, the reference formatter, and running-head derivation.
// Everything in this package is pure and safe for concurrent use.
package apa

import "github.com/pdiddy/apa-generator/pkg/types"

// Twips per inch. Word measures page geometry in twentieths of a point.
const TwipsPerInch = 1440

// Margins are page margins in twips.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Layout is the APA 7 physical formatting table. Values are read-only; use
// DefaultLayout to obtain one and pass it by value.
type Layout struct {
	// Margins are 1 inch on every side.
	Margins Margins

	// Font is the serif body font.
	Font string

	// FontSize is in half-points (24 = 12 pt).
	FontSize int

	// LineSpacing is in 240ths of a line (480 = double).
	LineSpacing int

	// FirstLineIndent is the paragraph indent in twips (0.5 in).
	FirstLineIndent int

	// ReferenceIndent is the reference-list indent in twips. It is negative:
	// the first line hangs 0.5 in to the left of the rest.
	ReferenceIndent int

	// PageNumberAlign is where the page number sits in the header.
	PageNumberAlign string

	// RunningHeadMaxLen is the longest running head APA allows.
	RunningHeadMaxLen int

	// RunningHeadPrefix is the APA 6 "Running head:" label. APA 7 dropped it;
	// it is kept for callers that render legacy manuscripts.
	RunningHeadPrefix string

	// CoverTopPadding is the number of blank double-spaced lines above the title.
	CoverTopPadding int

	// AuthorNotePadding is the number of blank lines pushing the author note
	// toward the bottom of the professional title page.
	AuthorNotePadding int
}

// DefaultLayout returns the APA 7 layout.
func DefaultLayout() Layout {
	return Layout{
		Margins: Margins{
			Top:    TwipsPerInch,
			Right:  TwipsPerInch,
			Bottom: TwipsPerInch,
			Left:   TwipsPerInch,
		},
		Font:              "Times New Roman",
		FontSize:          24,
		LineSpacing:       480,
		FirstLineIndent:   TwipsPerInch / 2,
		ReferenceIndent:   -TwipsPerInch / 2,
		PageNumberAlign:   "right",
		RunningHeadMaxLen: 50,
		RunningHeadPrefix: "RUNNING HEAD: ",
		CoverTopPadding:   3,
		AuthorNotePadding: 8,
	}
}

// HangingIndent returns the positive hanging distance for reference entries.
func (l Layout) HangingIndent() int {
	if l.ReferenceIndent < 0 {
		return -l.ReferenceIndent
	}
	return l.ReferenceIndent
}

// Labels are the fixed strings the assembler prints as headings.
type Labels struct {
	Abstract     string
	Keywords     string
	References   string
	Notes        string
	AuthorNote   string
	Introduction string
	Method       string
	Results      string
	Discussion   string

	// Placeholder fills an otherwise empty body.
	Placeholder string
}

var englishLabels = Labels{
	Abstract:     "Abstract",
	Keywords:     "Keywords: ",
	References:   "References",
	Notes:        "Notes",
	AuthorNote:   "Author Note",
	Introduction: "Introduction",
	Method:       "Method",
	Results:      "Results",
	Discussion:   "Discussion",
	Placeholder:  "Begin writing your paper here.",
}

var spanishLabels = Labels{
	Abstract:     "Resumen",
	Keywords:     "Palabras clave: ",
	References:   "Referencias",
	Notes:        "Notas",
	AuthorNote:   "Nota del autor",
	Introduction: "Introducción",
	Method:       "Método",
	Results:      "Resultados",
	Discussion:   "Discusión",
	Placeholder:  "Comience a escribir su trabajo aquí.",
}

// LabelsFor returns the label table for lang. Unknown or empty languages get
// the English table.
func LabelsFor(lang types.Language) Labels {
	if lang == types.LangSpanish {
		return spanishLabels
	}
	return englishLabels
}
