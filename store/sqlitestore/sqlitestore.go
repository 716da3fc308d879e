// Package sqlitestore provides a SQLite-backed entity store.
//
// Rows live in a single table keyed by (kind, id), with the full record
// held as a JSON field map and an autoincrement sequence preserving
// insertion order. The driver is modernc.org/sqlite, so the store is
// pure Go and needs no cgo.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/laskinner/dag-tui/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	kind    TEXT NOT NULL,
	id      TEXT NOT NULL,
	fields  TEXT NOT NULL,
	UNIQUE (kind, id)
);
`

// Store implements store.EntityStore on a SQLite database file.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) a SQLite database at path and runs
// migrations. Use ":memory:" for an ephemeral store.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func failf(op string, err error) error {
	return fmt.Errorf("sqlitestore: %s: %w", op, errors.Join(store.ErrStoreFailed, err))
}

// ReadAll returns every row of the kind in insertion order.
func (s *Store) ReadAll(ctx context.Context, kind store.Kind) ([]store.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fields FROM entities WHERE kind = ? ORDER BY seq`, string(kind))
	if err != nil {
		return nil, failf("select", err)
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		var fields string
		if err := rows.Scan(&fields); err != nil {
			return nil, failf("scan row", err)
		}
		var rec store.Record
		if err := json.Unmarshal([]byte(fields), &rec); err != nil {
			return nil, failf("decode row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, failf("iterate rows", err)
	}
	if records == nil {
		records = []store.Record{}
	}
	return records, nil
}

// Append inserts a new row, rejecting duplicate ids within the kind.
func (s *Store) Append(ctx context.Context, kind store.Kind, rec store.Record) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}
	id := rec.ID()
	if id == "" {
		return store.ErrInvalidRecord
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entities WHERE kind = ? AND id = ?`,
		string(kind), id).Scan(&exists)
	if err != nil {
		return failf("check row "+id, err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s %q", store.ErrDuplicateID, kind, id)
	}

	fields, err := json.Marshal(rec)
	if err != nil {
		return failf("encode row "+id, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO entities (kind, id, fields) VALUES (?, ?, ?)`,
		string(kind), id, string(fields)); err != nil {
		return failf("insert row "+id, err)
	}
	return nil
}

// UpdateField updates one field of the row matching id.
func (s *Store) UpdateField(ctx context.Context, kind store.Kind, id, field, value string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	var fields string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM entities WHERE kind = ? AND id = ?`,
		string(kind), id).Scan(&fields)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, id)
	}
	if err != nil {
		return failf("read row "+id, err)
	}

	var rec store.Record
	if err := json.Unmarshal([]byte(fields), &rec); err != nil {
		return failf("decode row "+id, err)
	}
	rec[field] = value

	encoded, err := json.Marshal(rec)
	if err != nil {
		return failf("encode row "+id, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE entities SET fields = ? WHERE kind = ? AND id = ?`,
		string(encoded), string(kind), id); err != nil {
		return failf("write row "+id, err)
	}
	return nil
}

// DeleteByID removes the row matching id.
func (s *Store) DeleteByID(ctx context.Context, kind store.Kind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", store.ErrInvalidKind, kind)
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM entities WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return failf("delete row "+id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return failf("delete row "+id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, id)
	}
	return nil
}
