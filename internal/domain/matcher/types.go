package matcher

import (
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Config holds the matching tolerances. The numbers are not provably
// optimal; they are the behavior to preserve, so they live here as
// configuration rather than as buried constants.
type Config struct {
	// AmountTolerance is the relative amount gate: a candidate passes
	// when |candidate - target| <= target * AmountTolerance.
	AmountTolerance float64
	// DateToleranceDays is the hard date gate, inclusive.
	DateToleranceDays int
	// MinDescriptionScore excludes targets whose description
	// similarity falls below it, unless amount and date are strong.
	MinDescriptionScore float64
	// StrongAmountScore and StrongDateScore define the escape hatch:
	// above both, the description gate is waived. Institutions
	// abbreviate merchant names differently across channels, so a
	// near-exact amount and date is sufficient evidence on its own.
	StrongAmountScore float64
	StrongDateScore   float64
	// Weights of the final score; they should sum to 1.
	AmountWeight      float64
	DateWeight        float64
	DescriptionWeight float64
}

// DefaultConfig returns the standard tolerances: ±5% amount, ±7 days,
// 0.4 description floor, 0.4/0.3/0.3 weights.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:     0.05,
		DateToleranceDays:   7,
		MinDescriptionScore: 0.4,
		StrongAmountScore:   0.9,
		StrongDateScore:     0.7,
		AmountWeight:        0.4,
		DateWeight:          0.3,
		DescriptionWeight:   0.3,
	}
}

// MatchResult is the best-scoring ledger expense for a candidate.
type MatchResult struct {
	Expense transaction.LedgerExpense
	// Score is the weighted confidence in (0,1].
	Score float64
	// AmountDiff and DaysDiff are kept for diagnostics.
	AmountDiff float64
	DaysDiff   float64
}
