package ingest

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/banktext-backend/internal/domain/extractor"
	"github.com/spendwise/banktext-backend/internal/domain/matcher"
	"github.com/spendwise/banktext-backend/internal/domain/registry"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
	"github.com/spendwise/banktext-backend/internal/infrastructure/storage"
)

// 2024-03-05 08:00:00 UTC
const testTimestamp = int64(1709625600000)

func testEntries() []registry.Entry {
	return []registry.Entry{
		{
			Name:         "Revolut",
			Identifier:   "revolut",
			AccountLabel: "Revolut",
			Expense:      regexp.MustCompile(`(?i)spent\s+([\d.,]+)\s*€?\s+at\s+(.+)`),
			Income:       regexp.MustCompile(`(?i)received\s+([\d.,]+)\s*€?\s+from\s+(.+)`),
		},
		{
			Name:       "LoudBank",
			Identifier: "loudbank",
			Expense:    regexp.MustCompile(`(?i)charged\s+(\S+)\s+at\s+(.+)`),
		},
	}
}

func newTestPipeline(t *testing.T) (*Pipeline, *storage.MockRepository) {
	t.Helper()
	reg, err := registry.New(testEntries())
	require.NoError(t, err)

	ext := extractor.New(reg, extractor.Config{}, nil)
	m := matcher.NewMatcher(matcher.DefaultConfig())
	repo := storage.NewMockRepository()
	return NewPipeline(ext, m, repo, nil), repo
}

func revolutMessage(body string) extractor.Message {
	return extractor.Message{
		SourceID:        "revolut",
		Body:            body,
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	}
}

func recurringExpense(id string, amount float64, date, desc string) *transaction.LedgerExpense {
	return &transaction.LedgerExpense{
		ID:          id,
		Amount:      amount,
		Date:        date,
		Description: desc,
		RecurringID: "rec-1",
	}
}

func TestProcess_PendingCandidate(t *testing.T) {
	p, repo := newTestPipeline(t)

	outcome, err := p.Process(revolutMessage("You spent 12,50€ at Bar Roma"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, outcome.Status)
	assert.NotEmpty(t, outcome.CandidateID)
	require.NotNil(t, outcome.Candidate)
	assert.InDelta(t, 12.50, outcome.Candidate.Amount, 0.0001)

	require.True(t, repo.SaveCandidateCalled)
	saved := repo.LastSavedCandidate
	require.NotNil(t, saved)
	assert.Equal(t, storage.StatusPending, saved.Status)
	assert.Equal(t, "Bar Roma", saved.Description)
	assert.NotEmpty(t, saved.SourceHash)
}

func TestProcess_UnknownSenderIgnored(t *testing.T) {
	p, repo := newTestPipeline(t)

	outcome, err := p.Process(extractor.Message{
		SourceID:        "com.example.game",
		Body:            "You earned 500 coins at level 3",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusIgnored, outcome.Status)
	assert.Nil(t, outcome.Candidate)
	assert.False(t, repo.SaveCandidateCalled)
}

func TestProcess_ZeroAmountUnparseable(t *testing.T) {
	p, repo := newTestPipeline(t)

	outcome, err := p.Process(extractor.Message{
		SourceID:        "loudbank",
		Body:            "charged something at Shop",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusUnparseable, outcome.Status)
	require.NotNil(t, outcome.Candidate)
	assert.Zero(t, outcome.Candidate.Amount)
	assert.False(t, repo.SaveCandidateCalled)
}

func TestProcess_RedeliverySuppressed(t *testing.T) {
	p, repo := newTestPipeline(t)
	msg := revolutMessage("You spent 12,50€ at Bar Roma")

	first, err := p.Process(msg)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, first.Status)

	second, err := p.Process(msg)
	require.NoError(t, err)
	assert.Equal(t, StatusDuplicate, second.Status)
	assert.Empty(t, second.CandidateID)

	// Only the first delivery was stored.
	records, err := repo.ListCandidates(storage.CandidateFilters{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestProcess_ReconcilesAgainstRecurringExpense(t *testing.T) {
	p, repo := newTestPipeline(t)
	require.NoError(t, repo.SaveLedgerExpense(
		recurringExpense("exp-1", 12.50, "2024-03-05", "Bar Roma")))

	outcome, err := p.Process(revolutMessage("You spent 12,50€ at Bar Roma"))
	require.NoError(t, err)

	assert.Equal(t, StatusReconciled, outcome.Status)
	require.NotNil(t, outcome.Match)
	assert.Equal(t, "exp-1", outcome.Match.Expense.ID)

	assert.True(t, repo.MarkReconciledCalled)
	assert.Equal(t, "exp-1", repo.LastReconciledID)

	saved := repo.LastSavedCandidate
	require.NotNil(t, saved)
	assert.Equal(t, storage.StatusReconciled, saved.Status)
	assert.Equal(t, "exp-1", saved.MatchedExpenseID)
	assert.Greater(t, saved.MatchScore, 0.9)
}

func TestProcess_ReconciledExpenseLeavesPool(t *testing.T) {
	p, repo := newTestPipeline(t)
	require.NoError(t, repo.SaveLedgerExpense(
		recurringExpense("exp-1", 12.50, "2024-03-05", "Bar Roma")))

	first, err := p.Process(revolutMessage("You spent 12,50€ at Bar Roma"))
	require.NoError(t, err)
	require.Equal(t, StatusReconciled, first.Status)

	// A second, slightly different charge finds nothing left to absorb
	// it and surfaces as pending.
	second, err := p.Process(revolutMessage("You spent 12,60€ at Bar Roma"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, second.Status)
}

func TestProcess_IncomeNeverReconciled(t *testing.T) {
	p, repo := newTestPipeline(t)
	require.NoError(t, repo.SaveLedgerExpense(
		recurringExpense("exp-1", 300.00, "2024-03-05", "Salary")))

	outcome, err := p.Process(revolutMessage("You received 300,00€ from Salary"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, outcome.Status)
	assert.False(t, repo.MarkReconciledCalled)
}

func TestProcess_ManualExpensesNotAbsorbed(t *testing.T) {
	p, repo := newTestPipeline(t)
	manual := recurringExpense("exp-1", 12.50, "2024-03-05", "Bar Roma")
	manual.RecurringID = ""
	require.NoError(t, repo.SaveLedgerExpense(manual))

	outcome, err := p.Process(revolutMessage("You spent 12,50€ at Bar Roma"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, outcome.Status)
	assert.False(t, repo.MarkReconciledCalled)
}

func TestProcess_StorageErrors(t *testing.T) {
	msg := revolutMessage("You spent 12,50€ at Bar Roma")

	t.Run("hash lookup", func(t *testing.T) {
		p, repo := newTestPipeline(t)
		repo.HasSourceHashErr = errors.New("db locked")
		_, err := p.Process(msg)
		assert.ErrorContains(t, err, "source hash lookup")
	})

	t.Run("match pool", func(t *testing.T) {
		p, repo := newTestPipeline(t)
		repo.MatchPoolErr = errors.New("db locked")
		_, err := p.Process(msg)
		assert.ErrorContains(t, err, "loading match pool")
	})

	t.Run("save", func(t *testing.T) {
		p, repo := newTestPipeline(t)
		repo.SaveCandidateErr = errors.New("db locked")
		_, err := p.Process(msg)
		assert.ErrorContains(t, err, "saving candidate")
	})

	t.Run("mark reconciled", func(t *testing.T) {
		p, repo := newTestPipeline(t)
		require.NoError(t, repo.SaveLedgerExpense(
			recurringExpense("exp-1", 12.50, "2024-03-05", "Bar Roma")))
		repo.MarkReconciledErr = errors.New("db locked")
		_, err := p.Process(msg)
		assert.ErrorContains(t, err, "marking expense reconciled")
	})
}

func TestSourceHash(t *testing.T) {
	base := transaction.Candidate{
		Kind:        transaction.KindExpense,
		Amount:      12.50,
		Date:        "2024-03-05",
		Description: "Bar Roma",
		SourceLabel: "revolut",
	}

	t.Run("stable", func(t *testing.T) {
		assert.Equal(t, SourceHash(base), SourceHash(base))
	})

	t.Run("insensitive to casing and punctuation", func(t *testing.T) {
		variant := base
		variant.Description = "BAR ROMA!"
		assert.Equal(t, SourceHash(base), SourceHash(variant))
	})

	t.Run("sensitive to amount", func(t *testing.T) {
		variant := base
		variant.Amount = 12.51
		assert.NotEqual(t, SourceHash(base), SourceHash(variant))
	})

	t.Run("sensitive to date", func(t *testing.T) {
		variant := base
		variant.Date = "2024-03-06"
		assert.NotEqual(t, SourceHash(base), SourceHash(variant))
	})

	t.Run("sensitive to institution", func(t *testing.T) {
		variant := base
		variant.SourceLabel = "paypal"
		assert.NotEqual(t, SourceHash(base), SourceHash(variant))
	})
}

func TestProcessBatch(t *testing.T) {
	p, repo := newTestPipeline(t)
	require.NoError(t, repo.SaveLedgerExpense(
		recurringExpense("exp-1", 9.99, "2024-03-05", "Netflix")))

	msgs := []extractor.Message{
		revolutMessage("You spent 12,50€ at Bar Roma"),
		revolutMessage("You spent 12,50€ at Bar Roma"), // redelivery
		revolutMessage("You spent 9,99€ at Netflix"),
		{
			SourceID:        "com.example.game",
			Body:            "You earned 500 coins at level 3",
			TimestampMillis: testTimestamp,
			Source:          transaction.SourceNotification,
		},
		{
			SourceID:        "loudbank",
			Body:            "charged something at Shop",
			TimestampMillis: testTimestamp,
			Source:          transaction.SourceNotification,
		},
	}

	counts, err := p.ProcessBatch("scan", msgs)
	require.NoError(t, err)

	assert.Equal(t, 5, counts.Received)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 1, counts.Duplicates)
	assert.Equal(t, 1, counts.Reconciled)
	assert.Equal(t, 1, counts.Ignored)
	assert.Equal(t, 1, counts.Unparseable)

	runs, err := repo.ListIngestRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "scan", runs[0].Source)
	require.NotNil(t, runs[0].CompletedAt)
	assert.Equal(t, counts, runs[0].Counts)
}
