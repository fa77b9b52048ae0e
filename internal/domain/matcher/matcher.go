// Package matcher decides whether an extracted transaction candidate
// duplicates an expense the recurrence engine already generated.
//
// Exact equality never works here: amounts, dates, and descriptions
// from a bank message never line up with the values stored for a
// recurring template. The matcher instead applies two hard gates
// (amount within a relative tolerance, date within a day window) and a
// weighted soft score over amount, date, and description similarity.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	if result := m.FindMatch(candidate, pool); result != nil {
//		// candidate duplicates result.Expense
//	}
package matcher

import (
	"math"

	"github.com/spendwise/banktext-backend/internal/domain/normalize"
	"github.com/spendwise/banktext-backend/internal/domain/similarity"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Matcher scores candidates against recurrence-generated expenses.
type Matcher struct {
	config Config
}

// NewMatcher creates a matcher with the given tolerances.
func NewMatcher(config Config) *Matcher {
	return &Matcher{config: config}
}

// FindMatch scores the candidate against every expense in the pool and
// returns the highest-scoring one, or nil when nothing passes the
// gates. The pool must already be restricted to recurrence-linked,
// unreconciled entries; passing manual expenses risks silently
// absorbing a legitimate independent transaction.
func (m *Matcher) FindMatch(
	candidate transaction.Candidate,
	pool []transaction.LedgerExpense,
) *MatchResult {
	var best *MatchResult

	for _, expense := range pool {
		score, amountDiff, daysDiff := m.score(candidate, expense)
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &MatchResult{
				Expense:    expense,
				Score:      score,
				AmountDiff: amountDiff,
				DaysDiff:   daysDiff,
			}
		}
	}

	return best
}

// score returns 0 when any hard gate fails, otherwise the weighted
// confidence in (0,1].
func (m *Matcher) score(
	candidate transaction.Candidate,
	target transaction.LedgerExpense,
) (score, amountDiff, daysDiff float64) {
	// Hard gate: amount within relative tolerance of the target.
	amountDiff = math.Abs(candidate.Amount - target.Amount)
	amountThreshold := target.Amount * m.config.AmountTolerance
	if amountDiff > amountThreshold {
		return 0, amountDiff, 0
	}

	// Hard gate: dates within the day window.
	candidateDate, err := normalize.ParseDate(candidate.Date)
	if err != nil {
		return 0, amountDiff, 0
	}
	targetDate, err := normalize.ParseDate(target.Date)
	if err != nil {
		return 0, amountDiff, 0
	}
	daysDiff = math.Abs(candidateDate.Sub(targetDate).Hours() / 24)
	if daysDiff > float64(m.config.DateToleranceDays) {
		return 0, amountDiff, daysDiff
	}

	// Soft scores: 1.0 at exact, 0.0 at the tolerance edge. The 0.01
	// floor keeps tiny targets from dividing by a near-zero threshold.
	amountScore := 1 - amountDiff/math.Max(amountThreshold, 0.01)
	dateScore := 1 - daysDiff/float64(m.config.DateToleranceDays)
	descScore := similarity.Score(candidate.Description, target.Description)

	// A near-exact amount and date carries the match even when the
	// descriptions disagree.
	strongAmountDate := amountScore > m.config.StrongAmountScore &&
		dateScore > m.config.StrongDateScore
	if descScore < m.config.MinDescriptionScore && !strongAmountDate {
		return 0, amountDiff, daysDiff
	}

	score = m.config.AmountWeight*amountScore +
		m.config.DateWeight*dateScore +
		m.config.DescriptionWeight*descScore
	return score, amountDiff, daysDiff
}
