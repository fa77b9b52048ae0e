package extractor

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/banktext-backend/internal/domain/registry"
	"github.com/spendwise/banktext-backend/internal/domain/transaction"
)

// 2024-03-05 08:00:00 UTC
const testTimestamp = int64(1709625600000)

func newTestExtractor(t *testing.T, entries []registry.Entry, cfg Config) *Extractor {
	t.Helper()
	reg, err := registry.New(entries)
	require.NoError(t, err)
	return New(reg, cfg, nil)
}

func revolutEntry() registry.Entry {
	return registry.Entry{
		Name:         "Revolut",
		Identifier:   "revolut",
		AccountLabel: "Revolut",
		Expense:      regexp.MustCompile(`(?i)spent\s+([\d.,]+)\s*€?\s+at\s+(.+)`),
	}
}

func TestExtract_NotificationExpense(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "revolut",
		Title:           "",
		Body:            "You spent 12,50€ at Bar Roma",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	require.True(t, ok)
	assert.Equal(t, transaction.KindExpense, cand.Kind)
	assert.InDelta(t, 12.50, cand.Amount, 0.0001)
	assert.Equal(t, "Bar Roma", cand.Description)
	assert.Equal(t, "2024-03-05", cand.Date)
	assert.Equal(t, "revolut", cand.SourceLabel)
	assert.Equal(t, "Revolut", cand.AccountLabel)
	assert.Equal(t, transaction.SourceNotification, cand.Source)
	assert.Equal(t, "You spent 12,50€ at Bar Roma", cand.RawText)
	assert.False(t, cand.NeedsReview)
}

func TestExtract_UnknownSource(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "unknown_app",
		Body:            "You spent 12,50€ at Bar Roma",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	assert.False(t, ok)
	assert.Nil(t, cand)
}

func TestExtract_SMSSenderSubstring(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "INFO-REVOLUT",
		Body:            "spent 8.20 at Esselunga",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceSMS,
	})

	require.True(t, ok)
	assert.InDelta(t, 8.20, cand.Amount, 0.0001)
	assert.Equal(t, "Esselunga", cand.Description)
	assert.Equal(t, transaction.SourceSMS, cand.Source)
}

func TestExtract_TitleJoinedForNotifications(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})

	// "spent" sits in the title, the rest in the body.
	cand, ok := ext.Extract(Message{
		SourceID:        "revolut",
		Title:           "You spent",
		Body:            "12,50€ at Bar Roma",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	require.True(t, ok)
	assert.Equal(t, "You spent 12,50€ at Bar Roma", cand.RawText)
	assert.Equal(t, "Bar Roma", cand.Description)
}

func TestExtract_KindOrderExpenseFirst(t *testing.T) {
	// A message matching both rules resolves to expense by ordering.
	entry := registry.Entry{
		Name:       "Bank",
		Identifier: "bank",
		Expense:    regexp.MustCompile(`(?i)moved\s+([\d.,]+)\s+at\s+(.+)`),
		Income:     regexp.MustCompile(`(?i)moved\s+([\d.,]+)\s+at\s+(.+)`),
	}
	ext := newTestExtractor(t, []registry.Entry{entry}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "bank",
		Body:            "moved 5,00 at Shop",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	require.True(t, ok)
	assert.Equal(t, transaction.KindExpense, cand.Kind)
}

func TestExtract_IncomeDefaultDescription(t *testing.T) {
	entry := registry.Entry{
		Name:       "Postepay",
		Identifier: "postepay",
		Income:     regexp.MustCompile(`(?i)Accredito di ([\d.,]+)`),
	}
	ext := newTestExtractor(t, []registry.Entry{entry}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "postepay",
		Body:            "Accredito di 300,00 euro sul tuo conto",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	require.True(t, ok)
	assert.Equal(t, transaction.KindIncome, cand.Kind)
	assert.Equal(t, "Credit", cand.Description)
	assert.InDelta(t, 300.00, cand.Amount, 0.0001)
}

func TestExtract_TransferPopulatesCounterparty(t *testing.T) {
	entry := registry.Entry{
		Name:       "Bank",
		Identifier: "bank",
		Transfer:   regexp.MustCompile(`(?i)Bonifico di ([\d.,]+) euro verso (.+)`),
	}
	ext := newTestExtractor(t, []registry.Entry{entry}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "bank",
		Body:            "Bonifico di 150,00 euro verso Mario Rossi",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	require.True(t, ok)
	assert.Equal(t, transaction.KindTransfer, cand.Kind)
	assert.Equal(t, "Transfer", cand.Description)
	assert.Equal(t, "Mario Rossi", cand.CounterpartyAccount)
}

func TestExtract_NoPatternMatch(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})

	// Resolves the entry but describes no financial movement.
	cand, ok := ext.Extract(Message{
		SourceID:        "revolut",
		Body:            "Your statement is ready",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	assert.False(t, ok)
	assert.Nil(t, cand)
}

func TestExtract_UnparseableAmountDegradesToZero(t *testing.T) {
	entry := registry.Entry{
		Name:       "Bank",
		Identifier: "bank",
		Expense:    regexp.MustCompile(`(?i)spent\s+(\S+)\s+at\s+(.+)`),
	}
	ext := newTestExtractor(t, []registry.Entry{entry}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "bank",
		Body:            "spent some at Shop",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	// The candidate is still produced; dropping it is the caller's job.
	require.True(t, ok)
	assert.Zero(t, cand.Amount)
}

func TestExtract_MerchantCleanup(t *testing.T) {
	entry := registry.Entry{
		Name:       "UniCredit",
		Identifier: "unicredit",
		Expense:    regexp.MustCompile(`(?i)Pagamento di ([\d.,]+) EUR presso (.+)`),
	}
	ext := newTestExtractor(t, []registry.Entry{entry}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "unicredit",
		Body:            "Pagamento di 30,00 EUR presso ESSELUNGA 05/03/24 Per info chiama il numero verde",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	require.True(t, ok)
	assert.Equal(t, "ESSELUNGA", cand.Description)
}

func TestExtract_FlagsTransferLookingExpense(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})

	cand, ok := ext.Extract(Message{
		SourceID:        "revolut",
		Body:            "You spent 100,00€ at PayPal",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})

	require.True(t, ok)
	assert.True(t, cand.NeedsReview, "a counterparty naming another wallet needs review")
}

func TestExtract_GenericFallback(t *testing.T) {
	// No entry resolves NEXI, but the sender looks financial.
	msg := Message{
		SourceID:        "NEXI",
		Body:            "PAGATO 25,00 presso Bar Luca",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceSMS,
	}

	disabled := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})
	_, ok := disabled.Extract(msg)
	assert.False(t, ok, "fallback off: unknown senders are ignored")

	enabled := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{GenericFallback: true})
	cand, ok := enabled.Extract(msg)
	require.True(t, ok)
	assert.Equal(t, transaction.KindExpense, cand.Kind)
	assert.InDelta(t, 25.00, cand.Amount, 0.0001)
	assert.Equal(t, "Bar Luca", cand.Description)
	assert.Equal(t, "nexi", cand.SourceLabel)
}

func TestExtract_GenericFallbackOnlyForSMS(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{GenericFallback: true})

	// Notification app ids resolve by equality only; the fallback
	// never applies to them.
	_, ok := ext.Extract(Message{
		SourceID:        "NEXI",
		Body:            "PAGATO 25,00 presso Bar Luca",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	})
	assert.False(t, ok)
}

func TestExtract_Deterministic(t *testing.T) {
	ext := newTestExtractor(t, []registry.Entry{revolutEntry()}, Config{})
	msg := Message{
		SourceID:        "revolut",
		Body:            "You spent 12,50€ at Bar Roma",
		TimestampMillis: testTimestamp,
		Source:          transaction.SourceNotification,
	}

	first, ok1 := ext.Extract(msg)
	second, ok2 := ext.Extract(msg)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestSeedEntries_RealWorldMessages(t *testing.T) {
	ext := newTestExtractor(t, registry.Seed(), Config{})

	tests := []struct {
		name     string
		msg      Message
		wantKind transaction.Kind
		wantAmt  float64
	}{
		{
			name: "revolut notification expense",
			msg: Message{
				SourceID:        "revolut",
				Title:           "Revolut",
				Body:            "You spent €12.50 at Bar Roma",
				TimestampMillis: testTimestamp,
				Source:          transaction.SourceNotification,
			},
			wantKind: transaction.KindExpense,
			wantAmt:  12.50,
		},
		{
			name: "paypal italian payment",
			msg: Message{
				SourceID:        "paypal",
				Body:            "Hai inviato 45,00 EUR a Mario Rossi",
				TimestampMillis: testTimestamp,
				Source:          transaction.SourceNotification,
			},
			wantKind: transaction.KindExpense,
			wantAmt:  45.00,
		},
		{
			name: "postepay sms income",
			msg: Message{
				SourceID:        "POSTEPAY",
				Body:            "Ricarica di 50,00 euro eseguita correttamente",
				TimestampMillis: testTimestamp,
				Source:          transaction.SourceSMS,
			},
			wantKind: transaction.KindIncome,
			wantAmt:  50.00,
		},
		{
			name: "bbva spanish purchase",
			msg: Message{
				SourceID:        "bbva",
				Body:            "Compra de 18,90 EUR en Mercadona",
				TimestampMillis: testTimestamp,
				Source:          transaction.SourceNotification,
			},
			wantKind: transaction.KindExpense,
			wantAmt:  18.90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, ok := ext.Extract(tt.msg)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, cand.Kind)
			assert.InDelta(t, tt.wantAmt, cand.Amount, 0.0001)
		})
	}
}
