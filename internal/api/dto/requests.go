package dto

// MessageRequest is the inbound tuple from a platform capture layer:
// one SMS or one notification, fire-and-forget.
type MessageRequest struct {
	// Source is "sms" or "notification".
	Source string `json:"source" binding:"required"`
	// SourceID is the SMS sender id or the notification app id.
	SourceID string `json:"source_id" binding:"required"`
	// Title is the notification title; ignored for SMS.
	Title string `json:"title"`
	// Body is the message text.
	Body string `json:"body" binding:"required"`
	// TimestampMillis is the delivery time in Unix milliseconds.
	TimestampMillis int64 `json:"timestamp_ms" binding:"required"`
}

// InstitutionRequest registers a custom institution at runtime.
// Patterns are case-insensitive regular expressions with group 1 the
// amount and group 2 (optional) the counterparty; at least one of the
// three must be present.
type InstitutionRequest struct {
	Name         string `json:"name" binding:"required"`
	Identifier   string `json:"identifier" binding:"required"`
	AccountLabel string `json:"account_label"`
	Expense      string `json:"expense"`
	Income       string `json:"income"`
	Transfer     string `json:"transfer"`
}

// LedgerExpenseRequest seeds the match pool. Only entries with a
// recurring id are ever eligible for auto-matching.
type LedgerExpenseRequest struct {
	ID          string  `json:"id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description"`
	RecurringID string  `json:"recurring_id"`
}
