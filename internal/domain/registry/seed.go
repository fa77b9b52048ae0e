package registry

import "regexp"

// Seed returns the built-in institution table. Order matters: entries
// are tried first to last, and within an entry the kinds are tried
// expense, income, transfer.
//
// The patterns cover the Italian/Spanish/English phrasings these
// institutions use across SMS and push notifications. Group 1 is the
// amount, group 2 (where present) the counterparty.
func Seed() []Entry {
	return []Entry{
		{
			Name:         "Revolut",
			Identifier:   "revolut",
			AccountLabel: "Revolut",
			Expense:      regexp.MustCompile(`(?i)(?:You\s+spent|Hai\s+speso|Payment|Pagamento).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:at|presso|in|to|a|di)\s+(.+)`),
			Income:       regexp.MustCompile(`(?i)(?:You\s+received|Hai\s+ricevuto|Received|Accredito).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:from|da)\s+(.+)`),
			Transfer:     regexp.MustCompile(`(?i)(?:Transfer|Trasferimento|Bonifico).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:to|a)\s+(.+)`),
		},
		{
			Name:         "PayPal",
			Identifier:   "paypal",
			AccountLabel: "PayPal",
			Expense:      regexp.MustCompile(`(?i)(?:You\s+sent|Hai\s+inviato|Pagamento).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:to|a)\s+(.+)`),
			Income:       regexp.MustCompile(`(?i)(?:You\s+received|Hai\s+ricevuto).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:from|da)\s+(.+)`),
		},
		{
			Name:         "Postepay",
			Identifier:   "postepay",
			AccountLabel: "Postepay",
			Expense:      regexp.MustCompile(`(?i)(?:Pagamento|Addebito|Autorizzazione).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:presso|at|c/o)\s+(.+)`),
			Income:       regexp.MustCompile(`(?i)(?:Accredito|Ricarica).*?€?\s*([\d.,]+)\s*(?:EUR)?`),
			Transfer:     regexp.MustCompile(`(?i)Bonifico.*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:a|verso)\s+(.+)`),
		},
		{
			Name:         "BBVA",
			Identifier:   "bbva",
			AccountLabel: "BBVA",
			Expense:      regexp.MustCompile(`(?i)(?:Compra|Pago|Cargo|Acquisto).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:en|c/o)\s+(.+)`),
			Income:       regexp.MustCompile(`(?i)(?:Ingreso|Abono|Entrata).*?€?\s*([\d.,]+)\s*(?:EUR)?`),
			Transfer:     regexp.MustCompile(`(?i)Transferencia.*?€?\s*([\d.,]+)\s*(?:EUR)?.*?a\s+(.+)`),
		},
		{
			Name:         "Intesa Sanpaolo",
			Identifier:   "intesa",
			AccountLabel: "Intesa Sanpaolo",
			Expense:      regexp.MustCompile(`(?i)(?:Addebito|Pagamento|Pos).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:presso|c/o)\s+(.+)`),
			Income:       regexp.MustCompile(`(?i)Accredito.*?€?\s*([\d.,]+)\s*(?:EUR)?`),
			Transfer:     regexp.MustCompile(`(?i)Bonifico.*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:a|favore)\s+(.+)`),
		},
		{
			Name:         "BNL",
			Identifier:   "bnl",
			AccountLabel: "BNL",
			Expense:      regexp.MustCompile(`(?i)(?:Pagamento|Prelievo|Addebito).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:presso|c/o)\s+(.+)`),
			Income:       regexp.MustCompile(`(?i)Accredito.*?€?\s*([\d.,]+)\s*(?:EUR)?`),
		},
		{
			Name:         "UniCredit",
			Identifier:   "unicredit",
			AccountLabel: "UniCredit",
			// Amount comes before "carta"/"c/o" in UniCredit texts, e.g.
			// "autorizzata op.Internet 60,40 EUR carta *1210 c/o PAYPAL *SHOP", so
			// the amount is captured right after the keyword and the merchant is
			// cut before trailing reference numbers or dates.
			Expense:  regexp.MustCompile(`(?i)(?:autorizzata|Addebito|Pagamento|Transazione)\s+(?:op\.?\w*\s+)?(\d+[.,]\d{2})\s*(?:EUR|€).*?(?:c/o|presso|at)\s+(.+?)(?:\s+\d{6,}|\s+\d{2}/\d{2}/\d{2}|Per info|$)`),
			Income:   regexp.MustCompile(`(?i)(?:Accredito|bonifico).*?€?\s*(\d+[.,]\d{2})\s*(?:EUR)?`),
			Transfer: regexp.MustCompile(`(?i)Bonifico.*?€?\s*(\d+[.,]\d{2})\s*(?:EUR)?.*?(?:verso|a)\s+(.+)`),
		},
		{
			Name:         "Mastercard",
			Identifier:   "mastercard",
			AccountLabel: "Carta Mastercard",
			Expense:      regexp.MustCompile(`(?i)(?:Autorizzazione|Spesa|Pagamento).*?€?\s*([\d.,]+)\s*(?:EUR)?.*?(?:presso|at)\s+(.+)`),
		},
	}
}
