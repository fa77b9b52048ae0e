// Package ingest wires the extraction and deduplication stages into
// the message pipeline: extract a candidate, suppress exact
// duplicates via the source hash, absorb candidates that match a
// recurrence-generated expense, and persist the rest as pending.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spendwise/banktext-backend/internal/domain/extractor"
	"github.com/spendwise/banktext-backend/internal/domain/matcher"
	"github.com/spendwise/banktext-backend/internal/domain/normalize"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
	"github.com/spendwise/banktext-backend/internal/infrastructure/storage"
)

// Pipeline processes captured bank messages end to end.
type Pipeline struct {
	extractor *extractor.Extractor
	matcher   *matcher.Matcher
	repo      storage.Repository
	logger    *slog.Logger
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(
	ext *extractor.Extractor,
	m *matcher.Matcher,
	repo storage.Repository,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: ext,
		matcher:   m,
		repo:      repo,
		logger:    logger,
	}
}

// SourceHash computes the stable exact-duplicate hash over the
// normalized description, amount, date, and source label. Two
// deliveries of the same bank message hash identically.
func SourceHash(c transaction.Candidate) string {
	payload := fmt.Sprintf("%s|%.2f|%s|%s",
		normalize.Description(c.Description),
		c.Amount,
		c.Date,
		c.SourceLabel,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Process runs one message through the pipeline. Only storage failures
// surface as errors; every no-result stage is an expected outcome.
func (p *Pipeline) Process(msg extractor.Message) (Outcome, error) {
	cand, ok := p.extractor.Extract(msg)
	if !ok {
		return Outcome{Status: StatusIgnored}, nil
	}

	// A zero amount means extraction produced no usable value, never a
	// legitimate zero-amount transaction.
	if cand.Amount == 0 {
		p.logger.Debug("dropping zero-amount candidate",
			"source", string(cand.Source),
			"institution", cand.SourceLabel,
		)
		return Outcome{Status: StatusUnparseable, Candidate: cand}, nil
	}

	hash := SourceHash(*cand)
	seen, err := p.repo.HasSourceHash(hash)
	if err != nil {
		return Outcome{}, fmt.Errorf("source hash lookup: %w", err)
	}
	if seen {
		p.logger.Debug("exact duplicate suppressed", "hash", hash)
		return Outcome{Status: StatusDuplicate, Candidate: cand}, nil
	}

	record := storage.NewCandidateRecord(uuid.NewString(), *cand, hash)

	// Only expense candidates can duplicate recurrence-generated
	// expenses; income and transfers always surface as pending.
	if cand.Kind == transaction.KindExpense {
		pool, err := p.repo.MatchPool()
		if err != nil {
			return Outcome{}, fmt.Errorf("loading match pool: %w", err)
		}
		if match := p.matcher.FindMatch(*cand, pool); match != nil {
			return p.reconcile(record, cand, match)
		}
	}

	if err := p.repo.SaveCandidate(record); err != nil {
		return Outcome{}, fmt.Errorf("saving candidate: %w", err)
	}

	p.logger.Info("pending candidate stored",
		"id", record.ID,
		"kind", record.Kind,
		"amount", record.Amount,
		"institution", record.SourceLabel,
		"needs_review", record.NeedsReview,
	)
	return Outcome{
		Status:      StatusPending,
		Candidate:   cand,
		CandidateID: record.ID,
	}, nil
}

// reconcile links the candidate to the matched expense instead of
// surfacing it. The record is still stored (status reconciled) so its
// hash suppresses redeliveries and the raw text stays available for
// diagnostics.
func (p *Pipeline) reconcile(
	record *storage.CandidateRecord,
	cand *transaction.Candidate,
	match *matcher.MatchResult,
) (Outcome, error) {
	record.Status = storage.StatusReconciled
	record.MatchedExpenseID = match.Expense.ID
	record.MatchScore = match.Score

	if err := p.repo.MarkReconciled(match.Expense.ID); err != nil {
		return Outcome{}, fmt.Errorf("marking expense reconciled: %w", err)
	}
	if err := p.repo.SaveCandidate(record); err != nil {
		return Outcome{}, fmt.Errorf("saving reconciled candidate: %w", err)
	}

	p.logger.Info("candidate reconciled against recurring expense",
		"candidate_id", record.ID,
		"expense_id", match.Expense.ID,
		"score", match.Score,
	)
	return Outcome{
		Status:      StatusReconciled,
		Candidate:   cand,
		CandidateID: record.ID,
		Match:       match,
	}, nil
}

// ProcessBatch runs a slice of messages and records the run counters.
// A storage failure on one message aborts the batch; extraction-level
// no-results never do.
func (p *Pipeline) ProcessBatch(source string, msgs []extractor.Message) (storage.RunCounts, error) {
	runID, err := p.repo.StartIngestRun(source)
	if err != nil {
		return storage.RunCounts{}, fmt.Errorf("starting ingest run: %w", err)
	}

	counts := storage.RunCounts{Received: len(msgs)}
	for _, msg := range msgs {
		outcome, err := p.Process(msg)
		if err != nil {
			return counts, err
		}
		switch outcome.Status {
		case StatusIgnored:
			counts.Ignored++
		case StatusUnparseable:
			counts.Unparseable++
		case StatusDuplicate:
			counts.Duplicates++
		case StatusReconciled:
			counts.Reconciled++
		case StatusPending:
			counts.Pending++
		}
	}

	if err := p.repo.CompleteIngestRun(runID, counts); err != nil {
		return counts, fmt.Errorf("completing ingest run: %w", err)
	}

	p.logger.Info("ingest run complete",
		"run_id", runID,
		"received", counts.Received,
		"pending", counts.Pending,
		"reconciled", counts.Reconciled,
		"duplicates", counts.Duplicates,
	)
	return counts, nil
}
