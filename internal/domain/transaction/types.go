// Package transaction defines the core types shared by the extraction
// and deduplication pipeline: the candidate produced from a raw bank
// message and the ledger expense it is scored against.
package transaction

// Kind is the transaction kind detected from a message.
type Kind string

const (
	KindExpense  Kind = "expense"
	KindIncome   Kind = "income"
	KindTransfer Kind = "transfer"
)

// Source identifies the delivery channel a message arrived on.
type Source string

const (
	SourceSMS          Source = "sms"
	SourceNotification Source = "notification"
)

// Candidate is a structured transaction extracted from raw bank text.
// It is immutable once built and carries no identity; the storage layer
// assigns an id and a lifecycle status when the candidate is accepted.
type Candidate struct {
	Kind        Kind
	Amount      float64
	Description string
	// CounterpartyAccount is the destination account, set only for
	// transfers (capture group 2 of the transfer rule).
	CounterpartyAccount string
	// Date is the calendar date (YYYY-MM-DD) of the message, with
	// time-of-day deliberately discarded.
	Date         string
	Source       Source
	SourceLabel  string // lower-cased institution name
	AccountLabel string // ledger account the institution maps to
	RawText      string // full input, kept for diagnostics and re-scoring
	// NeedsReview marks expenses whose counterparty looks like another
	// of the user's own accounts (likely a transfer, not a purchase).
	NeedsReview bool
}

// LedgerExpense is the read-only view of a stored expense that the
// duplicate matcher needs. Only entries generated by a recurring
// template are eligible match targets.
type LedgerExpense struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
	// RecurringID links the expense to the recurring template that
	// generated it. Empty for manual entries.
	RecurringID string `json:"recurring_id,omitempty"`
	// Reconciled is set once a bank-detected candidate has been matched
	// to this expense; reconciled entries leave the match pool.
	Reconciled bool `json:"reconciled"`
}

// RecurrenceLinked reports whether the expense was generated from a
// recurring template and is therefore eligible for auto-matching.
func (e LedgerExpense) RecurrenceLinked() bool {
	return e.RecurringID != ""
}
