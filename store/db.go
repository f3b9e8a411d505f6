// SPDX-License-Identifier: MIT

// Package store persists benchmark suites, prior covariance data and
// assimilation runs in a SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotInitialized is returned when the schema has not been created.
	ErrNotInitialized = errors.New("store: database not initialized, run 'glls import' first")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("store: not found")
)

// Store provides SQLite operations for glls.
type Store struct {
	db *sql.DB
}

// New opens the database at path. Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateSchema creates all tables and indexes.
func (s *Store) CreateSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// wrap maps driver errors to the package sentinels.
func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", what, ErrNotInitialized)
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}

// withTx runs fn in a transaction, rolling back on error.
func (s *Store) withTx(what string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrap(what, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return wrap(what, err)
	}
	if err := tx.Commit(); err != nil {
		return wrap(what, err)
	}
	return nil
}
