package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// MockRepository is an in-memory implementation of Repository for
// testing. It keeps everything in maps, making tests fast and
// isolated.
type MockRepository struct {
	mu         sync.Mutex
	candidates map[string]*CandidateRecord
	hashes     map[string]bool
	ledger     map[string]*transaction.LedgerExpense
	runs       map[int64]*IngestRun
	nextRunID  int64

	// Hooks for test assertions
	SaveCandidateCalled  bool
	LastSavedCandidate   *CandidateRecord
	MarkReconciledCalled bool
	LastReconciledID     string

	// Error injection for testing error paths
	SaveCandidateErr  error
	HasSourceHashErr  error
	MatchPoolErr      error
	MarkReconciledErr error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		candidates: make(map[string]*CandidateRecord),
		hashes:     make(map[string]bool),
		ledger:     make(map[string]*transaction.LedgerExpense),
		runs:       make(map[int64]*IngestRun),
	}
}

func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) SaveCandidate(c *CandidateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCandidateCalled = true
	if m.SaveCandidateErr != nil {
		return m.SaveCandidateErr
	}
	if m.hashes[c.SourceHash] {
		return fmt.Errorf("duplicate source hash %s", c.SourceHash)
	}
	cp := *c
	m.candidates[c.ID] = &cp
	m.hashes[c.SourceHash] = true
	m.LastSavedCandidate = &cp
	return nil
}

func (m *MockRepository) GetCandidate(id string) (*CandidateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockRepository) HasSourceHash(hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HasSourceHashErr != nil {
		return false, m.HasSourceHashErr
	}
	return m.hashes[hash], nil
}

func (m *MockRepository) ListCandidates(filters CandidateFilters) ([]*CandidateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []*CandidateRecord
	for _, c := range m.candidates {
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		if filters.Source != "" && c.Source != filters.Source {
			continue
		}
		if filters.NeedsReview && !c.NeedsReview {
			continue
		}
		cp := *c
		records = append(records, &cp)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	if filters.Offset < len(records) {
		records = records[filters.Offset:]
	} else {
		records = nil
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *MockRepository) UpdateCandidateStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return fmt.Errorf("candidate %s not found", id)
	}
	c.Status = status
	return nil
}

func (m *MockRepository) Stats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &Stats{}
	for _, c := range m.candidates {
		stats.Total++
		switch c.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
		case StatusIgnored:
			stats.Ignored++
		case StatusReconciled:
			stats.Reconciled++
		}
	}
	return stats, nil
}

func (m *MockRepository) SaveLedgerExpense(e *transaction.LedgerExpense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.ledger[e.ID] = &cp
	return nil
}

func (m *MockRepository) MatchPool() ([]transaction.LedgerExpense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MatchPoolErr != nil {
		return nil, m.MatchPoolErr
	}
	var pool []transaction.LedgerExpense
	for _, e := range m.ledger {
		if e.RecurrenceLinked() && !e.Reconciled {
			pool = append(pool, *e)
		}
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool, nil
}

func (m *MockRepository) MarkReconciled(expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkReconciledCalled = true
	if m.MarkReconciledErr != nil {
		return m.MarkReconciledErr
	}
	e, ok := m.ledger[expenseID]
	if !ok {
		return fmt.Errorf("ledger expense %s not found", expenseID)
	}
	e.Reconciled = true
	m.LastReconciledID = expenseID
	return nil
}

func (m *MockRepository) StartIngestRun(source string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRunID++
	m.runs[m.nextRunID] = &IngestRun{
		ID:        m.nextRunID,
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	return m.nextRunID, nil
}

func (m *MockRepository) CompleteIngestRun(runID int64, counts RunCounts) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("ingest run %d not found", runID)
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Counts = counts
	return nil
}

func (m *MockRepository) ListIngestRuns(limit int) ([]IngestRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	var runs []IngestRun
	for _, r := range m.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
