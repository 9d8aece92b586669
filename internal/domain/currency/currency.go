// Package currency holds the storefront's currency codes and fixed exchange
// rates. Rates are pinned constants, not market data: 1 USD = 145 NPR = 91 INR.
package currency

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrUnknownCode is returned for currency codes outside the supported set.
var ErrUnknownCode = errors.New("unknown currency code")

// Code is an ISO 4217 currency code supported by the storefront.
type Code string

const (
	USD Code = "USD"
	NPR Code = "NPR"
	INR Code = "INR"
)

// perUSD is how much of each currency one US dollar buys.
var perUSD = map[Code]decimal.Decimal{
	USD: decimal.NewFromInt(1),
	NPR: decimal.NewFromInt(145),
	INR: decimal.NewFromInt(91),
}

// ParseCode converts a string into a supported Code, ignoring case.
func ParseCode(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !code.Valid() {
		return "", errors.Wrapf(ErrUnknownCode, "%q", s)
	}
	return code, nil
}

// Valid reports whether c is a supported currency code.
func (c Code) Valid() bool {
	_, ok := perUSD[c]
	return ok
}

// ToUSD converts value from the given currency into US dollars without
// rounding. An unknown source currency is treated as NPR, the legacy default.
func ToUSD(value decimal.Decimal, from Code) decimal.Decimal {
	return value.Div(rate(from))
}

// Convert moves value between display currencies. Converting a currency to
// itself is the identity. Dollar targets keep two decimals with plain
// rounding; NPR and INR are displayed in whole units and round up, so a
// conversion never undercharges.
func Convert(value decimal.Decimal, from, to Code) decimal.Decimal {
	if from == to {
		return value
	}
	usd := ToUSD(value, from)
	if to == USD {
		return usd.Round(2)
	}
	return usd.Mul(rate(to)).Ceil()
}

// Round applies the currency's display precision with half-away-from-zero
// rounding: two decimals for USD, whole units for NPR and INR. Discount
// amounts use this, never the ceiling applied on conversion.
func Round(value decimal.Decimal, code Code) decimal.Decimal {
	if code == USD {
		return value.Round(2)
	}
	return value.Round(0)
}

func rate(c Code) decimal.Decimal {
	if r, ok := perUSD[c]; ok {
		return r
	}
	return perUSD[NPR]
}
