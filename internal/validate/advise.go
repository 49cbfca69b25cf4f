// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"strings"

	"github.com/pdiddy/apa-generator/pkg/types"
)

// APA 7 recommendations checked by Advise.
const (
	MaxAbstractWords = 250
	MinKeywords      = 3
	MaxKeywords      = 5
	MaxTitleWords    = 12
)

// Advise returns style warnings for cfg. Warnings describe departures from
// APA recommendations; they never prevent generation.
func Advise(cfg types.DocumentConfig) []string {
	var warnings []string
	if n := len(strings.Fields(cfg.Title)); n > MaxTitleWords {
		warnings = append(warnings, fmt.Sprintf("title has %d words; APA recommends at most %d", n, MaxTitleWords))
	}
	if n := len(strings.Fields(cfg.Abstract)); n > MaxAbstractWords {
		warnings = append(warnings, fmt.Sprintf("abstract has %d words; APA recommends at most %d", n, MaxAbstractWords))
	}
	if n := len(cfg.Keywords); n > 0 && (n < MinKeywords || n > MaxKeywords) {
		warnings = append(warnings, fmt.Sprintf("%d keywords given; APA recommends %d to %d", n, MinKeywords, MaxKeywords))
	}
	for i, ref := range cfg.References {
		if supportsDOI(ref) && doi(ref) == "" {
			warnings = append(warnings, fmt.Sprintf("reference %d (%s) has no DOI", i+1, ref.Base().Title))
		}
	}
	return warnings
}

func supportsDOI(ref types.Reference) bool {
	switch ref.(type) {
	case *types.Book, *types.JournalArticle, *types.ConferencePaper, *types.Report:
		return true
	}
	return false
}

func doi(ref types.Reference) string {
	switch r := ref.(type) {
	case *types.Book:
		return r.DOI
	case *types.JournalArticle:
		return r.DOI
	case *types.ConferencePaper:
		return r.DOI
	case *types.Report:
		return r.DOI
	}
	return ""
}
