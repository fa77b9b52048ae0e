package storage

import (
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Repository defines the complete storage interface. It allows
// swapping implementations (SQLite today, something else later) and
// keeps tests on the in-memory mock.
type Repository interface {
	CandidateRepository
	LedgerRepository
	IngestRunRepository
	Close() error
}

// CandidateRepository stores extracted transaction candidates and the
// exact-duplicate hash index over them.
type CandidateRepository interface {
	// SaveCandidate inserts a candidate record.
	SaveCandidate(c *CandidateRecord) error

	// GetCandidate retrieves a record by id; nil when absent.
	GetCandidate(id string) (*CandidateRecord, error)

	// HasSourceHash reports whether a message with this source hash
	// was already processed (exact-duplicate suppression).
	HasSourceHash(hash string) (bool, error)

	// ListCandidates returns records matching the filters, newest first.
	ListCandidates(filters CandidateFilters) ([]*CandidateRecord, error)

	// UpdateCandidateStatus moves a candidate through its lifecycle
	// (pending -> confirmed or ignored).
	UpdateCandidateStatus(id, status string) error

	// Stats returns aggregate counts by status.
	Stats() (*Stats, error)
}

// CandidateFilters narrows ListCandidates results.
type CandidateFilters struct {
	Status      string // empty = all
	Source      string // "sms", "notification", empty = all
	NeedsReview bool   // only review-flagged candidates
	Limit       int    // 0 = default 50
	Offset      int
}

// LedgerRepository holds the expense pool the matcher runs against.
type LedgerRepository interface {
	// SaveLedgerExpense inserts or replaces a ledger expense.
	SaveLedgerExpense(e *transaction.LedgerExpense) error

	// MatchPool returns recurrence-linked, unreconciled expenses,
	// the only entries eligible for auto-matching.
	MatchPool() ([]transaction.LedgerExpense, error)

	// MarkReconciled flags an expense as reconciled against a
	// bank-detected candidate so it leaves the match pool.
	MarkReconciled(expenseID string) error
}

// IngestRunRepository tracks batch ingest runs for observability.
type IngestRunRepository interface {
	// StartIngestRun records the start of a run, returning its id.
	StartIngestRun(source string) (int64, error)

	// CompleteIngestRun records the outcome counters of a run.
	CompleteIngestRun(runID int64, counts RunCounts) error

	// ListIngestRuns returns recent runs, newest first.
	ListIngestRuns(limit int) ([]IngestRun, error)
}

// RunCounts are the per-outcome counters of an ingest run.
type RunCounts struct {
	Received    int `json:"received"`
	Ignored     int `json:"ignored"`
	Unparseable int `json:"unparseable"`
	Duplicates  int `json:"duplicates"`
	Reconciled  int `json:"reconciled"`
	Pending     int `json:"pending"`
}
