package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/topuphub/storefront/internal/domain/currency"
)

// Amount is a currency-tagged monetary value. Order totals have accumulated
// three historical shapes in storage (a bare number, a numeric string, and a
// currency-tagged string like "NPR 800"), so every read goes through
// ParseAmount, which resolves them all into this one variant.
type Amount struct {
	Value    decimal.Decimal
	Currency currency.Code
}

// ParseAmount normalizes a raw stored total. The fallback chain:
//
//  1. a recognized currency token (USD, NPR, INR) inside the string wins,
//     overriding the order's currency field;
//  2. otherwise the fallback currency (the order's currency field) is used;
//  3. an invalid fallback defaults to NPR, the legacy currency.
//
// All characters except digits and dots are stripped before parsing the
// value. Unparseable input degrades to a zero amount; malformed legacy data
// must never abort a dashboard aggregation.
func ParseAmount(raw string, fallback currency.Code) Amount {
	code := fallback
	if !code.Valid() {
		code = currency.NPR
	}
	for _, token := range []currency.Code{currency.USD, currency.NPR, currency.INR} {
		if strings.Contains(raw, string(token)) {
			code = token
			break
		}
	}

	cleaned := stripNonNumeric(raw)
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		value = decimal.Zero
	}

	return Amount{Value: value, Currency: code}
}

// stripNonNumeric drops every character except ASCII digits and dots.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// USD converts the amount to USD at the fixed rates.
func (a Amount) USD() decimal.Decimal {
	return currency.ToUSD(a.Value, a.Currency)
}

// String renders the current storage shape, "<CUR> <amount>". USD amounts
// keep two decimal places; NPR and INR print as stored. ParseAmount(String)
// round-trips.
func (a Amount) String() string {
	if a.Currency == currency.USD {
		return string(a.Currency) + " " + a.Value.StringFixed(2)
	}
	return string(a.Currency) + " " + a.Value.String()
}
