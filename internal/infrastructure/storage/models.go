package storage

import (
	"time"

	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Candidate lifecycle statuses. A candidate is born pending; the user
// confirms or ignores it. Reconciled candidates were absorbed by a
// recurrence-generated expense and never surfaced.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusIgnored    = "ignored"
	StatusReconciled = "reconciled"
)

// CandidateRecord is a persisted transaction candidate plus the
// identity and lifecycle state the store assigns to it.
type CandidateRecord struct {
	ID                  string    `json:"id"`
	Kind                string    `json:"kind"`
	Amount              float64   `json:"amount"`
	Description         string    `json:"description"`
	CounterpartyAccount string    `json:"counterparty_account,omitempty"`
	Date                string    `json:"date"`
	Source              string    `json:"source"`
	SourceLabel         string    `json:"source_label"`
	AccountLabel        string    `json:"account_label"`
	RawText             string    `json:"raw_text"`
	SourceHash          string    `json:"source_hash"`
	Status              string    `json:"status"`
	NeedsReview         bool      `json:"needs_review"`
	MatchedExpenseID    string    `json:"matched_expense_id,omitempty"`
	MatchScore          float64   `json:"match_score,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewCandidateRecord builds a record from a domain candidate.
func NewCandidateRecord(id string, c transaction.Candidate, hash string) *CandidateRecord {
	return &CandidateRecord{
		ID:                  id,
		Kind:                string(c.Kind),
		Amount:              c.Amount,
		Description:         c.Description,
		CounterpartyAccount: c.CounterpartyAccount,
		Date:                c.Date,
		Source:              string(c.Source),
		SourceLabel:         c.SourceLabel,
		AccountLabel:        c.AccountLabel,
		RawText:             c.RawText,
		SourceHash:          hash,
		Status:              StatusPending,
		NeedsReview:         c.NeedsReview,
		CreatedAt:           time.Now().UTC(),
	}
}

// Stats holds aggregate candidate counts.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Confirmed  int `json:"confirmed"`
	Ignored    int `json:"ignored"`
	Reconciled int `json:"reconciled"`
}

// IngestRun is a recorded batch ingest run.
type IngestRun struct {
	ID          int64      `json:"id"`
	Source      string     `json:"source"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Counts      RunCounts  `json:"counts"`
}
