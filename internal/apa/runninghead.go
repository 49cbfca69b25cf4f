// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apa

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// leadingStopwords are dropped when they open the title. They are kept
// anywhere else.
var leadingStopwords = map[string]bool{
	"the": true, "a": true, "an": true,
	"el": true, "la": true, "los": true, "las": true,
	"un": true, "una": true, "unos": true, "unas": true,
}

// DeriveRunningHead builds an uppercase running head of at most maxLen runes
// from title. Non-alphanumeric characters are stripped from each word, a
// leading article is skipped, and words are appended while they fit. When no
// word fits, the first maxLen runes of the uppercased title are used.
func DeriveRunningHead(title string, maxLen int) string {
	var b strings.Builder
	length := 0
	for i, word := range strings.Fields(title) {
		clean := alphanumeric(word)
		if clean == "" {
			continue
		}
		if i == 0 && leadingStopwords[strings.ToLower(clean)] {
			continue
		}
		clean = strings.ToUpper(clean)
		n := utf8.RuneCountInString(clean)
		sep := 0
		if length > 0 {
			sep = 1
		}
		if length+sep+n > maxLen {
			break
		}
		if sep == 1 {
			b.WriteByte(' ')
		}
		b.WriteString(clean)
		length += sep + n
	}
	if length > 0 {
		return b.String()
	}
	return truncateRunes(strings.ToUpper(strings.TrimSpace(title)), maxLen)
}

// RunningHead returns the running head for a document: override, uppercased
// and clipped to maxLen, when set, otherwise one derived from title.
func RunningHead(override, title string, maxLen int) string {
	if override = strings.TrimSpace(override); override != "" {
		return truncateRunes(strings.ToUpper(override), maxLen)
	}
	return DeriveRunningHead(title, maxLen)
}

func alphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
