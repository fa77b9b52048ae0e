package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Storage provides SQLite-backed persistence for candidates, the
// ledger match pool, and ingest run bookkeeping. It implements the
// Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens (and migrates) a SQLite database at the given path.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveCandidate inserts a candidate record.
func (s *Storage) SaveCandidate(c *CandidateRecord) error {
	query := `
	INSERT INTO candidates
	(id, kind, amount, description, counterparty_account, date, source,
	 source_label, account_label, raw_text, source_hash, status,
	 needs_review, matched_expense_id, match_score, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		c.ID,
		c.Kind,
		c.Amount,
		c.Description,
		c.CounterpartyAccount,
		c.Date,
		c.Source,
		c.SourceLabel,
		c.AccountLabel,
		c.RawText,
		c.SourceHash,
		c.Status,
		c.NeedsReview,
		c.MatchedExpenseID,
		c.MatchScore,
		c.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetCandidate retrieves a candidate by id, nil when absent.
func (s *Storage) GetCandidate(id string) (*CandidateRecord, error) {
	row := s.db.QueryRow(candidateSelect+" WHERE id = ?", id)
	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// HasSourceHash reports whether this hash was processed before.
func (s *Storage) HasSourceHash(hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM candidates WHERE source_hash = ?", hash,
	).Scan(&count)
	return count > 0, err
}

const candidateSelect = `
	SELECT id, kind, amount, description, counterparty_account, date,
	       source, source_label, account_label, raw_text, source_hash,
	       status, needs_review, matched_expense_id, match_score, created_at
	FROM candidates`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*CandidateRecord, error) {
	c := &CandidateRecord{}
	var createdAt string
	err := row.Scan(
		&c.ID,
		&c.Kind,
		&c.Amount,
		&c.Description,
		&c.CounterpartyAccount,
		&c.Date,
		&c.Source,
		&c.SourceLabel,
		&c.AccountLabel,
		&c.RawText,
		&c.SourceHash,
		&c.Status,
		&c.NeedsReview,
		&c.MatchedExpenseID,
		&c.MatchScore,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		c.CreatedAt = t
	}
	return c, nil
}

// ListCandidates returns records matching the filters, newest first.
func (s *Storage) ListCandidates(filters CandidateFilters) ([]*CandidateRecord, error) {
	query := candidateSelect + " WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Source != "" {
		query += " AND source = ?"
		args = append(args, filters.Source)
	}
	if filters.NeedsReview {
		query += " AND needs_review = 1"
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filters.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*CandidateRecord
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	return records, rows.Err()
}

// UpdateCandidateStatus moves a candidate through its lifecycle.
func (s *Storage) UpdateCandidateStatus(id, status string) error {
	result, err := s.db.Exec(
		"UPDATE candidates SET status = ? WHERE id = ?", status, id,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("candidate %s not found", id)
	}
	return nil
}

// Stats returns aggregate candidate counts by status.
func (s *Storage) Stats() (*Stats, error) {
	rows, err := s.db.Query("SELECT status, COUNT(1) FROM candidates GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &Stats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case StatusPending:
			stats.Pending = count
		case StatusConfirmed:
			stats.Confirmed = count
		case StatusIgnored:
			stats.Ignored = count
		case StatusReconciled:
			stats.Reconciled = count
		}
	}
	return stats, rows.Err()
}

// SaveLedgerExpense inserts or replaces a ledger expense.
func (s *Storage) SaveLedgerExpense(e *transaction.LedgerExpense) error {
	_, err := s.db.Exec(`
	INSERT OR REPLACE INTO ledger_expenses
	(id, amount, date, description, recurring_id, reconciled)
	VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount, e.Date, e.Description, e.RecurringID, e.Reconciled,
	)
	return err
}

// MatchPool returns recurrence-linked, unreconciled expenses.
func (s *Storage) MatchPool() ([]transaction.LedgerExpense, error) {
	rows, err := s.db.Query(`
	SELECT id, amount, date, description, recurring_id, reconciled
	FROM ledger_expenses
	WHERE recurring_id != '' AND reconciled = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []transaction.LedgerExpense
	for rows.Next() {
		var e transaction.LedgerExpense
		if err := rows.Scan(
			&e.ID, &e.Amount, &e.Date, &e.Description, &e.RecurringID, &e.Reconciled,
		); err != nil {
			return nil, err
		}
		pool = append(pool, e)
	}
	return pool, rows.Err()
}

// MarkReconciled flags an expense as reconciled.
func (s *Storage) MarkReconciled(expenseID string) error {
	result, err := s.db.Exec(
		"UPDATE ledger_expenses SET reconciled = 1 WHERE id = ?", expenseID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("ledger expense %s not found", expenseID)
	}
	return nil
}

// StartIngestRun records the start of a batch ingest run.
func (s *Storage) StartIngestRun(source string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO ingest_runs (source, started_at) VALUES (?, ?)",
		source, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CompleteIngestRun records the outcome counters of a run.
func (s *Storage) CompleteIngestRun(runID int64, counts RunCounts) error {
	_, err := s.db.Exec(`
	UPDATE ingest_runs
	SET completed_at = ?, received = ?, ignored = ?, unparseable = ?,
	    duplicates = ?, reconciled = ?, pending = ?
	WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339),
		counts.Received,
		counts.Ignored,
		counts.Unparseable,
		counts.Duplicates,
		counts.Reconciled,
		counts.Pending,
		runID,
	)
	return err
}

// ListIngestRuns returns recent runs, newest first.
func (s *Storage) ListIngestRuns(limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
	SELECT id, source, started_at, completed_at,
	       received, ignored, unparseable, duplicates, reconciled, pending
	FROM ingest_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []IngestRun
	for rows.Next() {
		var run IngestRun
		var started string
		var completed sql.NullString
		if err := rows.Scan(
			&run.ID, &run.Source, &started, &completed,
			&run.Counts.Received, &run.Counts.Ignored, &run.Counts.Unparseable,
			&run.Counts.Duplicates, &run.Counts.Reconciled, &run.Counts.Pending,
		); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339, started); perr == nil {
			run.StartedAt = t
		}
		if completed.Valid {
			if t, perr := time.Parse(time.RFC3339, completed.String); perr == nil {
				run.CompletedAt = &t
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
