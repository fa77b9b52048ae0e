// Package extractor converts raw bank text, delivered by SMS or by a
// system notification, into structured transaction candidates.
//
// Extraction is pure and never fails loudly: a message that resolves no
// institution, or matches none of its patterns, is simply not a
// financial movement and yields no candidate.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/spendwise/banktext-backend/internal/domain/normalize"
	"github.com/spendwise/banktext-backend/internal/domain/registry"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// Default descriptions when a pattern has no counterparty group.
const (
	defaultExpenseDescription  = "Payment"
	defaultIncomeDescription   = "Credit"
	defaultTransferDescription = "Transfer"
)

// Message is the inbound tuple from the platform capture layer.
type Message struct {
	// SourceID is the notification app id or the SMS sender id.
	SourceID string
	// Title is the notification title; empty for SMS.
	Title string
	// Body is the notification text or the SMS body.
	Body string
	// TimestampMillis is the delivery time in Unix milliseconds.
	TimestampMillis int64
	// Source tells which channel delivered the message.
	Source transaction.Source
}

// Config holds extractor options.
type Config struct {
	// GenericFallback enables the keyword-based generic parser for SMS
	// senders that match no registry entry but look financial.
	GenericFallback bool
}

// Extractor resolves institution rules against incoming messages.
type Extractor struct {
	registry *registry.Registry
	config   Config
	logger   *slog.Logger
}

// New creates an extractor over the given registry.
func New(reg *registry.Registry, cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{registry: reg, config: cfg, logger: logger}
}

// Extract turns a message into at most one candidate. The second
// return value is false when no institution resolves or no pattern
// matches; both are expected, silent outcomes.
//
// An unparseable amount degrades to a zero-amount candidate rather
// than aborting; callers must discard zero-amount candidates before
// persistence.
func (x *Extractor) Extract(msg Message) (*transaction.Candidate, bool) {
	viaSubstring := msg.Source == transaction.SourceSMS

	entry, ok := x.registry.Resolve(msg.SourceID, viaSubstring)
	if !ok && x.config.GenericFallback && msg.Source == transaction.SourceSMS {
		entry, ok = genericEntry(msg.SourceID, msg.Body)
		if ok {
			x.logger.Debug("generic fallback engaged", "sender", msg.SourceID)
		}
	}
	if !ok {
		return nil, false
	}

	searchText := msg.Body
	if msg.Source == transaction.SourceNotification {
		searchText = strings.TrimSpace(msg.Title + " " + msg.Body)
	}

	for _, rule := range entry.Rules() {
		groups := rule.Pattern.FindStringSubmatch(searchText)
		if groups == nil {
			continue
		}
		return x.buildCandidate(entry, rule, groups, searchText, msg), true
	}

	return nil, false
}

func (x *Extractor) buildCandidate(
	entry registry.Entry,
	rule registry.Rule,
	groups []string,
	searchText string,
	msg Message,
) *transaction.Candidate {
	amountText := groups[1]
	counterparty := ""
	if len(groups) > 2 {
		counterparty = strings.TrimSpace(groups[2])
	}

	amount, parsed := normalize.ParseAmount(amountText)
	if !parsed {
		x.logger.Debug("unparseable amount",
			"institution", entry.Name,
			"amount_text", amountText,
		)
	}

	cand := &transaction.Candidate{
		Kind:         rule.Kind,
		Amount:       amount,
		Date:         normalize.DateFromMillis(msg.TimestampMillis),
		Source:       msg.Source,
		SourceLabel:  strings.ToLower(entry.Name),
		AccountLabel: entry.AccountLabel,
		RawText:      searchText,
	}

	switch rule.Kind {
	case transaction.KindExpense:
		merchant := counterparty
		if msg.Source == transaction.SourceNotification {
			merchant = cleanMerchant(merchant)
		}
		if merchant == "" {
			merchant = defaultExpenseDescription
		}
		cand.Description = merchant
		cand.NeedsReview = mentionsOwnAccount(merchant)
	case transaction.KindIncome:
		if counterparty == "" {
			counterparty = defaultIncomeDescription
		}
		cand.Description = counterparty
	case transaction.KindTransfer:
		cand.Description = defaultTransferDescription
		cand.CounterpartyAccount = counterparty
	}

	return cand
}
