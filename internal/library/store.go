// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps a local SQLite collection of references that
// documents can cite by ID, with YAML import and export and CSL-YAML output
// for reference managers.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/apa-generator/pkg/types"
)

// ErrNotFound is returned when no reference has the requested ID.
var ErrNotFound = errors.New("reference not found")

const defaultListLimit = 1000

// Store manages the reference library database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the library database at cfg.Path.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = types.DefaultAppConfig().Library.Path
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			first_author TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL,
			data TEXT NOT NULL,
			added_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_type ON refs(type)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_first_author ON refs(first_author)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from one import.
type ImportSummary struct {
	Added   int
	Updated int
}

// Total returns the number of references written.
func (s ImportSummary) Total() int {
	return s.Added + s.Updated
}

// Put inserts or replaces ref. A reference without an ID is given a new one,
// written back into ref. It reports whether the reference was new.
func (s *Store) Put(ctx context.Context, ref types.Reference) (bool, error) {
	sum, err := s.Import(ctx, []types.Reference{ref})
	if err != nil {
		return false, err
	}
	return sum.Added == 1, nil
}

// Import writes refs in one transaction. Unknown reference types are
// rejected before anything is written.
func (s *Store) Import(ctx context.Context, refs []types.Reference) (ImportSummary, error) {
	for i, r := range refs {
		if r == nil {
			return ImportSummary{}, fmt.Errorf("reference %d is empty", i)
		}
		if _, ok := r.(*types.UnknownReference); ok {
			return ImportSummary{}, fmt.Errorf("reference %d: %w: %q", i, types.ErrUnknownReferenceType, r.Kind())
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var sum ImportSummary
	now := s.now().UTC().Format(time.RFC3339Nano)
	for _, r := range refs {
		b := r.Base()
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		data, err := json.Marshal(types.WithKind(r))
		if err != nil {
			return ImportSummary{}, fmt.Errorf("encoding reference %s: %w", b.ID, err)
		}

		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM refs WHERE id = ?`, b.ID).Scan(&exists); err != nil {
			return ImportSummary{}, fmt.Errorf("checking reference %s: %w", b.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO refs (id, type, first_author, year, title, data, added_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				type=excluded.type, first_author=excluded.first_author, year=excluded.year,
				title=excluded.title, data=excluded.data, updated_at=excluded.updated_at`,
			b.ID, string(r.Kind()), b.FirstAuthorLastName(), b.Year, b.Title, string(data), now, now,
		)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("writing reference %s: %w", b.ID, err)
		}
		if exists > 0 {
			sum.Updated++
		} else {
			sum.Added++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("committing import: %w", err)
	}
	return sum, nil
}

// Get returns the reference with id.
func (s *Store) Get(ctx context.Context, id string) (types.Reference, error) {
	var typ, data string
	err := s.db.QueryRowContext(ctx, `SELECT type, data FROM refs WHERE id = ?`, id).Scan(&typ, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying reference %s: %w", id, err)
	}
	return decode(typ, data)
}

// Delete removes the reference with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM refs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting reference %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListOptions filters List.
type ListOptions struct {
	// Type restricts results to one variant.
	Type types.ReferenceType

	// Query matches a substring of the title or first author's last name,
	// case-insensitively.
	Query string

	// Limit caps the number of results (default 1000).
	Limit int
}

// List returns references ordered by first author, year and title.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Reference, error) {
	var (
		where []string
		args  []any
	)
	if opts.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(opts.Type))
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		where = append(where, "(lower(title) LIKE ? OR lower(first_author) LIKE ?)")
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like)
	}
	query := `SELECT type, data FROM refs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` ORDER BY first_author, year, title LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}
	defer rows.Close()

	var out []types.Reference
	for rows.Next() {
		var typ, data string
		if err := rows.Scan(&typ, &data); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		ref, err := decode(typ, data)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// Resolve replaces library citations in refs with the stored references. A
// citation is an entry that carries an ID but no type. Complete references
// pass through unchanged.
func (s *Store) Resolve(ctx context.Context, refs types.ReferenceList) (types.ReferenceList, error) {
	out := make(types.ReferenceList, len(refs))
	for i, r := range refs {
		out[i] = r
		if !IsCitation(r) {
			continue
		}
		stored, err := s.Get(ctx, r.Base().ID)
		if err != nil {
			return nil, fmt.Errorf("resolving reference %d: %w", i, err)
		}
		out[i] = stored
	}
	return out, nil
}

// IsCitation reports whether r only points at a library entry.
func IsCitation(r types.Reference) bool {
	u, ok := r.(*types.UnknownReference)
	return ok && u.Type == "" && u.ID != ""
}

func decode(typ, data string) (types.Reference, error) {
	ref, err := types.NewReference(types.ReferenceType(typ))
	if err != nil {
		return nil, fmt.Errorf("decoding stored reference: %w", err)
	}
	if err := json.Unmarshal([]byte(data), ref); err != nil {
		return nil, fmt.Errorf("decoding stored reference: %w", err)
	}
	return ref, nil
}
