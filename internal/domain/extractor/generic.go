package extractor

import (
	"regexp"
	"strings"

	"github.com/spendwise/banktext-backend/internal/domain/registry"
)

// Sender tokens that mark an SMS sender as plausibly financial.
var financialSenderTokens = []string{
	"BANK", "BANCA", "PAY", "CARD", "CARTA", "CREDIT", "DEBIT", "ALERT",
	"INFO", "CONTO", "POSTE", "HYPE", "N26", "REVOLUT", "CURVE", "WISE",
	"SATISPAY", "AMEX", "VISA", "MASTERCARD", "ING", "BNL", "BPER",
	"FINECO", "WEBANK", "WIDIBA", "ILLIMITY", "NEXI", "FINDOMESTIC",
	"COMPASS", "SANTANDER", "UBI", "CREDEM", "MEDIOLANUM",
}

// Body tokens that signal money movement.
var moneySignalTokens = []string{
	"€", "EUR", "SPESO", "PAGATO", "ADDEBITO", "ACCREDITO", "BONIFICO",
	"AUTHORIZED", "SPENT", "PURCHASE", "TRANSAZIONE", "TRANSACTION",
	"PAGAMENTO",
}

// Ultra-generic patterns used when no institution entry resolves but
// the message still looks financial.
var (
	genericExpenseRe  = regexp.MustCompile(`(?i)(?:speso|pagato|addebito|autorizzata|transazione|purchase|sent|spent|payment).*?([\d.,]+)\s*€?.*?(?:presso|at|c/o|to|a)\s+(.+)`)
	genericIncomeRe   = regexp.MustCompile(`(?i)(?:ricevuto|accredito|ricarica|received|credit).*?([\d.,]+)\s*€?.*?(?:da|from)\s*(.*)`)
	genericTransferRe = regexp.MustCompile(`(?i)(?:bonifico|transfer).*?([\d.,]+)\s*€?`)
)

// genericEntry builds a synthetic registry entry for an unknown but
// financial-looking SMS sender. The sender name doubles as the
// institution name so the candidate stays traceable.
func genericEntry(sender, body string) (registry.Entry, bool) {
	if !containsAnyFold(sender, financialSenderTokens) &&
		!containsAnyFold(body, moneySignalTokens) {
		return registry.Entry{}, false
	}

	return registry.Entry{
		Name:         sender,
		Identifier:   "generic",
		AccountLabel: "Account " + sender,
		Expense:      genericExpenseRe,
		Income:       genericIncomeRe,
		Transfer:     genericTransferRe,
	}, true
}

func containsAnyFold(s string, tokens []string) bool {
	upper := strings.ToUpper(s)
	for _, tok := range tokens {
		if strings.Contains(upper, tok) {
			return true
		}
	}
	return false
}
