package deck

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no deck has the requested id.
var ErrNotFound = errors.New("deck: not found")

// Store persists decks in SQLite. The deck body is stored as JSON with
// the owner broken out for listing.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database and runs migrations. Use
// ":memory:" for an ephemeral store.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("deck: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("deck: set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("deck: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS decks (
			id         TEXT PRIMARY KEY,
			owner      TEXT NOT NULL,
			name       TEXT NOT NULL,
			body       TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_decks_owner ON decks(owner);
	`)
	return err
}

// Save upserts a deck, assigning an id if it has none.
func (s *Store) Save(ctx context.Context, d *Deck) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("deck: encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decks (id, owner, name, body, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET owner = excluded.owner, name = excluded.name,
			body = excluded.body, updated_at = excluded.updated_at
	`, d.ID, d.Owner, d.Name, string(body))
	return err
}

// Deck loads one deck by id. Satisfies the session controller's loader.
func (s *Store) Deck(ctx context.Context, id string) (*Deck, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM decks WHERE id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var d Deck
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return nil, fmt.Errorf("deck: decode: %w", err)
	}
	return &d, nil
}

// ListByOwner returns all of a user's decks, most recently updated
// first.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]*Deck, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT body FROM decks WHERE owner = ? ORDER BY updated_at DESC", owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*Deck
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var d Deck
		if err := json.Unmarshal([]byte(body), &d); err != nil {
			return nil, fmt.Errorf("deck: decode: %w", err)
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

// Delete removes a deck. Deleting a missing deck is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM decks WHERE id = ?", id)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
