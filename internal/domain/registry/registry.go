// Package registry holds the per-institution extraction rules.
//
// The registry is a declarative data table, not per-bank branching
// code: adding an institution is a data-only change, done either in
// the seed set or at runtime through Append.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Entry is one institution row: its display name, the identifier used
// to select it from a message's source id, the ledger account it maps
// to, and up to three kind-specific extraction patterns.
//
// Each pattern carries two capture groups: group 1 is the amount text,
// group 2 the counterparty/description (absent for income and some
// transfer variants). At least one pattern must be set.
type Entry struct {
	Name         string
	Identifier   string
	AccountLabel string
	Expense      *regexp.Regexp
	Income       *regexp.Regexp
	Transfer     *regexp.Regexp
}

// Rule pairs a transaction kind with its extraction pattern.
type Rule struct {
	Kind    transaction.Kind
	Pattern *regexp.Regexp
}

// Rules returns the entry's patterns in the fixed evaluation order
// expense, income, transfer. An entry whose text matches several kinds
// is not an error; this ordering resolves it.
func (e Entry) Rules() []Rule {
	rules := make([]Rule, 0, 3)
	if e.Expense != nil {
		rules = append(rules, Rule{transaction.KindExpense, e.Expense})
	}
	if e.Income != nil {
		rules = append(rules, Rule{transaction.KindIncome, e.Income})
	}
	if e.Transfer != nil {
		rules = append(rules, Rule{transaction.KindTransfer, e.Transfer})
	}
	return rules
}

// Validate checks the structural invariants of an entry.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("entry name is required")
	}
	if strings.TrimSpace(e.Identifier) == "" {
		return fmt.Errorf("entry %q: identifier is required", e.Name)
	}
	if e.Expense == nil && e.Income == nil && e.Transfer == nil {
		return fmt.Errorf("entry %q: at least one pattern is required", e.Name)
	}
	return nil
}

// Registry is an ordered, appendable table of entries. Resolution
// walks the table in declared order and the first structural match
// wins; entries need not be mutually exclusive.
//
// Reads take a shared lock and Append a write lock, so a registry may
// be shared across concurrent extractions while the user registers a
// custom institution.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// New builds a registry from the given seed entries, preserving order.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if err := r.Append(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Append registers a new institution at the end of the table.
func (r *Registry) Append(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// Resolve finds the entry for a source id. Notification sources match
// by case-insensitive equality against the identifier; SMS sender ids
// resolve via substring (viaSubstring), since senders like
// "INFO-REVOLUT" embed the institution token.
func (r *Registry) Resolve(sourceID string, viaSubstring bool) (Entry, bool) {
	source := strings.ToLower(strings.TrimSpace(sourceID))

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		ident := strings.ToLower(e.Identifier)
		if viaSubstring {
			if strings.Contains(source, ident) {
				return e, true
			}
		} else if source == ident {
			return e, true
		}
	}
	return Entry{}, false
}

// Names lists the registered institutions in declared order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
