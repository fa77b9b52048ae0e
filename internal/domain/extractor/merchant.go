package extractor

import (
	"regexp"
	"strings"
)

// Trailing junk banks tack onto merchant names in notifications:
// dates, times, "Per info o blocco carta..." boilerplate, starred card
// numbers.
var merchantTrailers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+\d{2}/\d{2}/\d{2,4}.*$`),
	regexp.MustCompile(`(?i)\s+\d{2}:\d{2}.*$`),
	regexp.MustCompile(`(?i)Per info.*$`),
	regexp.MustCompile(`\*+\d+\*+`),
}

// Accounts and wallets the user plausibly owns. An expense whose
// merchant mentions one of these is more likely a transfer between own
// accounts than a purchase, so it gets flagged for review instead of
// being auto-accepted.
var ownAccountKeywords = []string{
	"revolut", "paypal", "postepay", "bbva", "unicredit", "intesa", "bnl",
	"poste", "banco", "banca", "conto", "carta", "prepagata",
	"coinbase", "binance", "crypto", "kraken", "nexo", "n26", "wise",
	"transferwise", "hype", "satispay", "tinaba", "yap", "buddybank",
	"credit agricole", "ing", "webank", "fineco", "widiba", "chebanca",
	"mediolanum", "monte paschi", "mps", "ubi", "bper", "carige",
}

// cleanMerchant strips trailing reference noise from a captured
// merchant name. Falls back to the original text if cleaning would
// leave nothing.
func cleanMerchant(merchant string) string {
	cleaned := merchant
	for _, re := range merchantTrailers {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return strings.TrimSpace(merchant)
	}
	return cleaned
}

// mentionsOwnAccount reports whether a merchant name contains a known
// bank or wallet keyword.
func mentionsOwnAccount(merchant string) bool {
	lower := strings.ToLower(merchant)
	for _, kw := range ownAccountKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
