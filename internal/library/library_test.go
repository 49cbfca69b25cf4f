// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/apa-generator/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.LibraryConfig{Path: filepath.Join(t.TempDir(), "lib", "references.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func journal(id, last string, year int, title string) *types.JournalArticle {
	return &types.JournalArticle{
		ReferenceBase: types.ReferenceBase{
			ID:      id,
			Type:    types.RefJournalArticle,
			Authors: []types.Author{{FirstName: "A", LastName: last}},
			Year:    year,
			Title:   title,
		},
		JournalName: "Science",
		Volume:      "1",
		Pages:       "1-2",
		DOI:         "10.1/" + last,
	}
}

func TestImportAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	ref := journal("", "Walker", 2019, "Sleep")
	added, err := s.Put(ctx, ref)
	require.NoError(t, err)
	assert.True(t, added)
	_, err = uuid.Parse(ref.ID)
	require.NoError(t, err, "a new ID is assigned")

	got, err := s.Get(ctx, ref.ID)
	require.NoError(t, err)
	require.IsType(t, &types.JournalArticle{}, got)
	assert.Equal(t, ref, got.(*types.JournalArticle))

	ref.Title = "Sleep, revised"
	added, err = s.Put(ctx, ref)
	require.NoError(t, err)
	assert.False(t, added)
	got, err = s.Get(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sleep, revised", got.Base().Title)
}

func TestImportSummaryAndUnknown(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	sum, err := s.Import(ctx, []types.Reference{journal("a", "Smith", 2001, "One"), journal("b", "Adams", 2002, "Two")})
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Added: 2}, sum)

	sum, err = s.Import(ctx, []types.Reference{journal("a", "Smith", 2001, "One")})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)
	assert.Equal(t, 1, sum.Total())

	unknown, _ := types.NewReference("pamphlet")
	_, err = s.Import(ctx, []types.Reference{journal("c", "Lee", 2003, "Three"), unknown})
	assert.ErrorIs(t, err, types.ErrUnknownReferenceType)
	_, err = s.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound, "failed import writes nothing")
}

func TestListFilters(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	site := &types.Website{
		ReferenceBase: types.ReferenceBase{ID: "w", Type: types.RefWebsite, Title: "Climate facts"},
		WebsiteName:   "NASA",
		URL:           "https://nasa.gov",
	}
	_, err := s.Import(ctx, []types.Reference{
		journal("1", "Smith", 2001, "Ocean heat"),
		journal("2", "Adams", 2002, "Climate models"),
		site,
	})
	require.NoError(t, err)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "w", all[0].Base().ID, "no author sorts first")
	assert.Equal(t, "2", all[1].Base().ID)

	byType, err := s.List(ctx, ListOptions{Type: types.RefWebsite})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.IsType(t, &types.Website{}, byType[0])

	byQuery, err := s.List(ctx, ListOptions{Query: "CLIMATE"})
	require.NoError(t, err)
	assert.Len(t, byQuery, 2)

	limited, err := s.List(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	_, err := s.Put(ctx, journal("x", "Smith", 2001, "One"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "x"))
	assert.ErrorIs(t, s.Delete(ctx, "x"), ErrNotFound)
}

func TestResolve(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	_, err := s.Put(ctx, journal("stored", "Smith", 2001, "One"))
	require.NoError(t, err)

	input, err := parse([]byte("references:\n  - id: stored\n  - type: book\n    title: Inline\n    publisher: P\n    authors: [{firstName: A, lastName: B}]\n"), false)
	require.NoError(t, err)
	require.True(t, IsCitation(input[0]))

	resolved, err := s.Resolve(ctx, input)
	require.NoError(t, err)
	assert.IsType(t, &types.JournalArticle{}, resolved[0])
	assert.IsType(t, &types.Book{}, resolved[1])

	missing := types.ReferenceList{&types.UnknownReference{ReferenceBase: types.ReferenceBase{ID: "nope"}}}
	_, err = s.Resolve(ctx, missing)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadFileAndWriteYAML(t *testing.T) {
	dir := t.TempDir()
	refs := types.ReferenceList{journal("j1", "Smith", 2001, "One")}

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, refs))
	yamlPath := filepath.Join(dir, "refs.yaml")
	require.NoError(t, os.WriteFile(yamlPath, buf.Bytes(), 0o644))

	got, err := ReadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, refs[0], got[0])

	jsonPath := filepath.Join(dir, "refs.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"type":"website","title":"T","websiteName":"S","url":"https://s"}]`), 0o644))
	got, err = ReadFile(jsonPath)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.IsType(t, &types.Website{}, got[0])
}

func TestFormatCSL(t *testing.T) {
	refs := []types.Reference{
		journal("j1", "Smith", 2001, "Ocean heat"),
		&types.Thesis{
			ReferenceBase: types.ReferenceBase{ID: "t1", Type: types.RefThesis, Title: "Soils",
				Authors: []types.Author{{FirstName: "Ana", MiddleName: "María", LastName: "Vega"}}},
			Institution: "UNAM",
			ThesisType:  types.ThesisDoctoral,
		},
		&types.Film{
			ReferenceBase: types.ReferenceBase{ID: "f1", Type: types.RefFilm, Title: "Volver", Year: 2006},
			Director:      "Pedro Almodóvar",
		},
	}

	var buf bytes.Buffer
	if err := FormatCSL(refs, &buf); err != nil {
		t.Fatalf("FormatCSL: %v", err)
	}
	s := buf.String()

	for _, want := range []string{
		"type: article-journal",
		"container-title: Science",
		"DOI: 10.1/Smith",
		"type: thesis",
		"genre: Doctoral dissertation",
		"given: Ana María",
		"type: motion_picture",
		"family: Almodóvar",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("CSL output missing %q:\n%s", want, s)
		}
	}
	if strings.Count(s, "date-parts") != 2 {
		t.Errorf("expected 2 issued dates, got %d", strings.Count(s, "date-parts"))
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Pedro Almodóvar", CSLName{Given: "Pedro", Family: "Almodóvar"}},
		{"Plato", CSLName{Literal: "Plato"}},
		{"", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.in); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
