// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apa

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/apa-generator/pkg/types"
)

const (
	// maxListedAuthors is the longest list printed in full. Longer lists keep
	// the first 19, an ellipsis, and the final author.
	maxListedAuthors = 20
	truncatedHead    = 19

	doiPrefix = "https://doi.org/"
	noDate    = "(s.f.)"
)

// months is the fixed Spanish month table used by FormatDate.
var months = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders d as "<month> <day>, <year>" with Spanish month names.
// The zero time renders as "".
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d, %d", months[int(d.Month())-1], d.Day(), d.Year())
}

// FormatAuthorName renders "LastName, F. M.". The middle initial is omitted
// when there is no middle name.
func FormatAuthorName(a types.Author) string {
	last := strings.TrimSpace(a.LastName)
	initials := make([]string, 0, 2)
	for _, name := range []string{a.FirstName, a.MiddleName} {
		if i := initial(name); i != "" {
			initials = append(initials, i+".")
		}
	}
	switch {
	case len(initials) == 0:
		return last
	case last == "":
		return strings.Join(initials, " ")
	}
	return last + ", " + strings.Join(initials, " ")
}

// initial returns the uppercased first letter of name, or "".
func initial(name string) string {
	name = strings.TrimSpace(name)
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// FormatMultipleAuthors joins authors following the APA 7 list rules:
// "A, & B" for two, a serial list with ", & " up to twenty, and for 21 or more
// the first 19, ", ... ", and the last author.
func FormatMultipleAuthors(authors []types.Author) string {
	n := len(authors)
	switch {
	case n == 0:
		return ""
	case n == 1:
		return FormatAuthorName(authors[0])
	case n == 2:
		return FormatAuthorName(authors[0]) + ", & " + FormatAuthorName(authors[1])
	case n <= maxListedAuthors:
		return joinNames(authors[:n-1]) + ", & " + FormatAuthorName(authors[n-1])
	}
	return joinNames(authors[:truncatedHead]) + ", ... " + FormatAuthorName(authors[n-1])
}

func joinNames(authors []types.Author) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = FormatAuthorName(a)
	}
	return strings.Join(names, ", ")
}

// FormatReference renders ref as an APA 7 reference-list entry. A reference
// whose type is not one of the supported variants yields "".
func FormatReference(ref types.Reference) string {
	if ref == nil {
		return ""
	}
	switch r := ref.(type) {
	case *types.Book:
		return formatBook(r)
	case *types.JournalArticle:
		return formatJournalArticle(r)
	case *types.Website:
		return formatWebsite(r)
	case *types.Thesis:
		return formatThesis(r)
	case *types.ConferencePaper:
		return formatConferencePaper(r)
	case *types.Report:
		return formatReport(r)
	case *types.NewspaperArticle:
		return formatNewspaperArticle(r)
	case *types.MagazineArticle:
		return formatMagazineArticle(r)
	case *types.Film:
		return formatFilm(r)
	case *types.Podcast:
		return formatPodcast(r)
	case *types.SocialMedia:
		return formatSocialMedia(r)
	case *types.LegalCase:
		return formatLegalCase(r)
	}
	return ""
}

// entry accumulates the space-separated elements of one reference.
type entry struct {
	parts []string
}

func (e *entry) add(s string) {
	if s = strings.TrimSpace(s); s != "" {
		e.parts = append(e.parts, s)
	}
}

func (e *entry) String() string {
	return strings.Join(e.parts, " ")
}

// lead writes the author and date elements. With no author, APA moves the
// title into the author position; lead then reports that the title is spent.
func (e *entry) lead(b *types.ReferenceBase, author, title string) (titleUsed bool) {
	if author == "" {
		author = sentence(title)
		titleUsed = true
	}
	e.add(author)
	e.add(year(b.Year) + ".")
	return titleUsed
}

func year(y int) string {
	if y == 0 {
		return noDate
	}
	return "(" + strconv.Itoa(y) + ")"
}

// sentence ends s with a single period unless it already ends with terminal
// punctuation.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") {
		return s
	}
	return s + "."
}

// bare strips one trailing period so a bracketed or parenthesized element can
// follow the title before the closing period.
func bare(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".")
}

// link returns the DOI as a URL, or url when there is no DOI.
func link(doi, url string) string {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return strings.TrimSpace(url)
	}
	if strings.HasPrefix(doi, "http://") || strings.HasPrefix(doi, "https://") {
		return doi
	}
	return doiPrefix + strings.TrimPrefix(doi, "doi:")
}

func formatBook(r *types.Book) string {
	var e entry
	title := r.Title
	if r.Edition != "" {
		title = bare(title) + " (" + r.Edition + " ed.)"
	}
	if !e.lead(&r.ReferenceBase, FormatMultipleAuthors(r.Authors), title) {
		e.add(sentence(title))
	}
	e.add(sentence(r.Publisher))
	e.add(link(r.DOI, r.URL))
	return e.String()
}

func formatJournalArticle(r *types.JournalArticle) string {
	var e entry
	if !e.lead(&r.ReferenceBase, FormatMultipleAuthors(r.Authors), r.Title) {
		e.add(sentence(r.Title))
	}
	source := r.JournalName
	if r.Volume != "" {
		source += ", " + r.Volume
	}
	if r.Issue != "" {
		source += "(" + r.Issue + ")"
	}
	if r.Pages != "" {
		source += ", " + r.Pages
	}
	e.add(sentence(source))
	e.add(link(r.DOI, r.URL))
	return e.String()
}

func formatWebsite(r *types.Website) string {
	var e entry
	author := FormatMultipleAuthors(r.Authors)
	siteIsAuthor := author == "" && r.WebsiteName != ""
	if siteIsAuthor {
		author = sentence(r.WebsiteName)
	}
	if !e.lead(&r.ReferenceBase, author, r.Title) {
		e.add(sentence(r.Title))
	}
	if !siteIsAuthor {
		e.add(sentence(r.WebsiteName))
	}
	e.add(r.URL)
	return e.String()
}

func formatThesis(r *types.Thesis) string {
	var e entry
	label := "Tesis de maestría"
	if r.ThesisType == types.ThesisDoctoral {
		label = "Tesis doctoral"
	}
	desc := "[" + label
	if r.Institution != "" {
		desc += ", " + r.Institution
	}
	desc += "]"
	if r.Database != "" {
		desc += " (" + r.Database + ")"
	}
	title := bare(r.Title) + " " + desc
	if !e.lead(&r.ReferenceBase, FormatMultipleAuthors(r.Authors), title) {
		e.add(sentence(title))
	}
	e.add(r.URL)
	return e.String()
}

func formatConferencePaper(r *types.ConferencePaper) string {
	var e entry
	title := bare(r.Title) + " [Presentación en congreso]"
	if !e.lead(&r.ReferenceBase, FormatMultipleAuthors(r.Authors), title) {
		e.add(sentence(title))
	}
	e.add(sentence(joinNonEmpty(", ", r.ConferenceName, r.Location)))
	e.add(link(r.DOI, r.URL))
	return e.String()
}

func formatReport(r *types.Report) string {
	var e entry
	title := r.Title
	if r.ReportNumber != "" {
		title = bare(title) + " (Informe N.º " + r.ReportNumber + ")"
	}
	author := FormatMultipleAuthors(r.Authors)
	orgIsAuthor := author == "" && r.Organization != ""
	if orgIsAuthor {
		author = sentence(r.Organization)
	}
	if !e.lead(&r.ReferenceBase, author, title) {
		e.add(sentence(title))
	}
	if !orgIsAuthor {
		e.add(sentence(r.Organization))
	}
	e.add(link(r.DOI, r.URL))
	return e.String()
}

func formatNewspaperArticle(r *types.NewspaperArticle) string {
	var e entry
	if !e.lead(&r.ReferenceBase, FormatMultipleAuthors(r.Authors), r.Title) {
		e.add(sentence(r.Title))
	}
	e.add(sentence(joinNonEmpty(", ", r.NewspaperName, r.Pages)))
	e.add(r.URL)
	return e.String()
}

func formatMagazineArticle(r *types.MagazineArticle) string {
	var e entry
	if !e.lead(&r.ReferenceBase, FormatMultipleAuthors(r.Authors), r.Title) {
		e.add(sentence(r.Title))
	}
	volume := r.Volume
	if r.Issue != "" {
		volume += "(" + r.Issue + ")"
	}
	e.add(sentence(joinNonEmpty(", ", r.MagazineName, volume, r.Pages)))
	e.add(r.URL)
	return e.String()
}

func formatFilm(r *types.Film) string {
	var e entry
	author := FormatMultipleAuthors(r.Authors)
	if author == "" && r.Director != "" {
		author = r.Director + " (Director)"
	}
	title := bare(r.Title) + " [Película]"
	if !e.lead(&r.ReferenceBase, author, title) {
		e.add(sentence(title))
	}
	e.add(sentence(joinNonEmpty("; ", r.Studio, r.Country)))
	return e.String()
}

func formatPodcast(r *types.Podcast) string {
	var e entry
	title := bare(r.Title)
	if r.EpisodeNumber != "" {
		title += " (N.º " + r.EpisodeNumber + ")"
	}
	title += " [Episodio de pódcast]"
	if !e.lead(&r.ReferenceBase, FormatMultipleAuthors(r.Authors), title) {
		e.add(sentence(title))
	}
	if r.PodcastName != "" {
		e.add(sentence("En " + r.PodcastName))
	}
	e.add(sentence(r.Platform))
	e.add(r.URL)
	return e.String()
}

func formatSocialMedia(r *types.SocialMedia) string {
	var e entry
	handle := strings.TrimSpace(r.Handle)
	if handle != "" && !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	author := FormatMultipleAuthors(r.Authors)
	switch {
	case author != "" && handle != "":
		author += " [" + handle + "]"
	case handle != "":
		author = handle
	}
	title := bare(r.Title) + " [Publicación]"
	if !e.lead(&r.ReferenceBase, author, title) {
		e.add(sentence(title))
	}
	e.add(sentence(r.Platform))
	e.add(r.URL)
	return e.String()
}

func formatLegalCase(r *types.LegalCase) string {
	var e entry
	cite := bare(r.Title)
	if r.CaseNumber != "" {
		cite += ", N.º " + r.CaseNumber
	}
	if r.Reporter != "" {
		cite += ", " + joinNonEmpty(" ", r.ReporterVolume, r.Reporter, r.ReporterPages)
	}
	court := joinNonEmpty(" ", r.Court, yearOrEmpty(r.Year))
	if court != "" {
		cite += " (" + court + ")"
	}
	e.add(sentence(cite))
	e.add(r.URL)
	return e.String()
}

func yearOrEmpty(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
