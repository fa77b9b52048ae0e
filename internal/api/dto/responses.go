package dto

// MessageResponse reports how the pipeline resolved a message.
type MessageResponse struct {
	// Status is one of ignored, unparseable, duplicate, reconciled,
	// pending.
	Status string `json:"status"`
	// CandidateID is set for pending and reconciled outcomes.
	CandidateID string `json:"candidate_id,omitempty"`
	// Candidate echoes the extracted values when extraction succeeded.
	Candidate *CandidateView `json:"candidate,omitempty"`
	// Match describes the absorbed recurring expense, if any.
	Match *MatchView `json:"match,omitempty"`
}

// CandidateView is the API shape of an extracted candidate.
type CandidateView struct {
	Kind                string  `json:"kind"`
	Amount              float64 `json:"amount"`
	Description         string  `json:"description"`
	CounterpartyAccount string  `json:"counterparty_account,omitempty"`
	Date                string  `json:"date"`
	Source              string  `json:"source"`
	SourceLabel         string  `json:"source_label"`
	AccountLabel        string  `json:"account_label"`
	NeedsReview         bool    `json:"needs_review"`
}

// MatchView describes a reconciliation match.
type MatchView struct {
	ExpenseID   string  `json:"expense_id"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// InstitutionsResponse lists the registered institutions in
// resolution order.
type InstitutionsResponse struct {
	Institutions []string `json:"institutions"`
}
