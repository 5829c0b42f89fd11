// Package gamestore is a local, file-backed save store for the
// houseturn CLI: one sqlite database holding one row per game, the
// latest persisted GameState document as a blob. Grounded on the
// teacher's pkg/db wrapper shape (configuration struct, a single
// guarded handle, domain-named error classification) but adapted for
// a local embedded database instead of a networked Postgres pool —
// modernc.org/sqlite needs no cgo toolchain and no running server,
// matching a CLI tool meant to run standalone.
package gamestore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"houseturn/internal/model"
	"houseturn/internal/persist"
)

// ErrorType classifies a store failure the way the teacher's pkg/db
// classifies SQL errors, adapted to sqlite's own error strings.
type ErrorType int

const (
	Unknown ErrorType = iota
	NotFound
	DuplicatedElement
)

// GetSQLErrorCode inspects a driver error string for a known sqlite
// failure mode.
func GetSQLErrorCode(errStr string) ErrorType {
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return DuplicatedElement
	}
	if errStr == sql.ErrNoRows.Error() {
		return NotFound
	}
	return Unknown
}

// Store wraps a single sqlite handle holding every locally-saved game.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the sqlite file at path, ensuring
// the games table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening game store: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	turn INTEGER NOT NULL,
	state BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating games table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying sqlite handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts a game's current state, keyed by gameID.
func (s *Store) Save(gameID string, state *model.GameState) error {
	blob, err := persist.Encode(state)
	if err != nil {
		return fmt.Errorf("encoding state for %s: %w", gameID, err)
	}

	_, err = s.db.Exec(`
INSERT INTO games (id, turn, state, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET turn = excluded.turn, state = excluded.state, updated_at = excluded.updated_at`,
		gameID, state.Turn, blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving game %s: %w", gameID, err)
	}
	return nil
}

// Load retrieves a game's last-saved state.
func (s *Store) Load(gameID string) (*model.GameState, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT state FROM games WHERE id = ?`, gameID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading game %s: %w", gameID, err)
	}

	state, err := persist.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("decoding state for %s: %w", gameID, err)
	}
	return state, nil
}

// GameSummary is a listing row without the full state blob.
type GameSummary struct {
	ID        string
	Turn      int
	UpdatedAt string
}

// List returns every saved game's id, turn, and last-update time.
func (s *Store) List() ([]GameSummary, error) {
	rows, err := s.db.Query(`SELECT id, turn, updated_at FROM games ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.ID, &g.Turn, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Delete removes a saved game.
func (s *Store) Delete(gameID string) error {
	_, err := s.db.Exec(`DELETE FROM games WHERE id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("deleting game %s: %w", gameID, err)
	}
	return nil
}
