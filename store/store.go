// SPDX-License-Identifier: MIT

// Package store persists cavity runs and their time steps in SQLite.
//
// A run row holds the problem parameters as JSON; every stored step holds
// its scalars plus the full solution vector X as a little-endian float64
// blob, enough to restart or post-process the run.
//
// Database configuration:
//   - WAL mode for concurrent readers
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a run or step does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is a SQLite-backed run log. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
// Open is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err = db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenExisting is Open for readers: it fails with an error wrapping
// fs.ErrNotExist instead of creating a new database at path.
func OpenExisting(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	return Open(path)
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("store: %q: %w", p, err)
		}
	}

	return nil
}
