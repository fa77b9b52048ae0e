package storage

import (
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "candidates_schema",
		Up:      migration001Candidates,
	},
	{
		Version: 2,
		Name:    "ledger_expenses",
		Up:      migration002LedgerExpenses,
	},
	{
		Version: 3,
		Name:    "ingest_runs",
		Up:      migration003IngestRuns,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, m := range allMigrations {
		if applied[m.Version] {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d (%s): begin: %w", m.Version, m.Name, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.Version, m.Name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s): record: %w", m.Version, m.Name, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d (%s): commit: %w", m.Version, m.Name, err)
		}
	}

	return nil
}

func (s *Storage) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migration001Candidates(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE candidates (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		amount REAL NOT NULL,
		description TEXT NOT NULL,
		counterparty_account TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		source TEXT NOT NULL,
		source_label TEXT NOT NULL,
		account_label TEXT NOT NULL DEFAULT '',
		raw_text TEXT NOT NULL DEFAULT '',
		source_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		needs_review INTEGER NOT NULL DEFAULT 0,
		matched_expense_id TEXT NOT NULL DEFAULT '',
		match_score REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`)
	if err != nil {
		return err
	}

	// The hash index is what makes exact-duplicate suppression cheap.
	if _, err := tx.Exec(
		`CREATE UNIQUE INDEX idx_candidates_source_hash ON candidates(source_hash)`,
	); err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX idx_candidates_status ON candidates(status)`)
	return err
}

func migration002LedgerExpenses(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE ledger_expenses (
		id TEXT PRIMARY KEY,
		amount REAL NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		recurring_id TEXT NOT NULL DEFAULT '',
		reconciled INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`CREATE INDEX idx_ledger_recurring ON ledger_expenses(recurring_id, reconciled)`,
	)
	return err
}

func migration003IngestRuns(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE ingest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		received INTEGER NOT NULL DEFAULT 0,
		ignored INTEGER NOT NULL DEFAULT 0,
		unparseable INTEGER NOT NULL DEFAULT 0,
		duplicates INTEGER NOT NULL DEFAULT 0,
		reconciled INTEGER NOT NULL DEFAULT 0,
		pending INTEGER NOT NULL DEFAULT 0
	)`)
	return err
}
