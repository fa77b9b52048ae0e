package ingest

import (
	"github.com/spendwise/banktext-backend/internal/domain/matcher"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Status tells which stage of the pipeline resolved a message. None of
// the absent-result statuses is an error: most messages are simply not
// financial.
type Status string

const (
	// StatusIgnored: no institution resolved or no pattern matched.
	StatusIgnored Status = "ignored"
	// StatusUnparseable: a pattern matched but the amount text held no
	// usable number, so the zero-amount candidate was dropped.
	StatusUnparseable Status = "unparseable"
	// StatusDuplicate: the exact same message content was processed
	// before (source-hash hit).
	StatusDuplicate Status = "duplicate"
	// StatusReconciled: the candidate matched a recurrence-generated
	// expense and was absorbed instead of surfacing as pending.
	StatusReconciled Status = "reconciled"
	// StatusPending: a novel candidate was stored for confirmation.
	StatusPending Status = "pending"
)

// Outcome is what Process reports back for one message.
type Outcome struct {
	Status    Status
	Candidate *transaction.Candidate
	// CandidateID is set for pending and reconciled outcomes.
	CandidateID string
	// Match is set when the candidate reconciled against an expense.
	Match *matcher.MatchResult
}
