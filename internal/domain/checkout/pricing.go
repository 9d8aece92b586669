package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/topuphub/storefront/internal/domain/coupon"
	"github.com/topuphub/storefront/internal/domain/currency"
)

var hundred = decimal.NewFromInt(100)

// Quote is the priced breakdown of a selection, with every amount expressed
// in Currency.
type Quote struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	Currency       currency.Code
}

// Price computes the checkout totals in the display currency.
//
// The subtotal is the base price converted to the display currency (USD
// targets keep two decimals, NPR/INR targets are whole units, rounded up on
// conversion). A resolved coupon takes a percentage off the subtotal; the
// discount amount uses plain rounding for the display currency, never
// ceiling. Callers must re-invoke Price after any currency or coupon change
// rather than adjusting a previous quote.
func Price(basePrice decimal.Decimal, baseCurrency, displayCurrency currency.Code, c *coupon.Resolved) Quote {
	subtotal := currency.Convert(basePrice, baseCurrency, displayCurrency)

	discount := decimal.Zero
	if c != nil && c.Discount > 0 {
		pct := decimal.NewFromInt(int64(c.Discount)).Div(hundred)
		discount = currency.Round(subtotal.Mul(pct), displayCurrency)
	}

	return Quote{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
		Currency:       displayCurrency,
	}
}
