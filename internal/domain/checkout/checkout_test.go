package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topuphub/storefront/internal/domain/coupon"
	"github.com/topuphub/storefront/internal/domain/currency"
)

func nprSelection(price int64) Selection {
	return Selection{
		ProductID:    "pubg",
		ProductName:  "PUBG Mobile UC",
		PackageLabel: "60 UC",
		BasePrice:    decimal.NewFromInt(price),
		BaseCurrency: currency.NPR,
		Requirements: "UID, IGN",
	}
}

func TestPrice_NoCoupon(t *testing.T) {
	q := Price(decimal.NewFromInt(1000), currency.NPR, currency.NPR, nil)

	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, q.DiscountAmount.IsZero())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, currency.NPR, q.Currency)
}

func TestPrice_PercentageCoupon(t *testing.T) {
	q := Price(decimal.NewFromInt(1000), currency.NPR, currency.NPR, &coupon.Resolved{Code: "SAVE20", Discount: 20})

	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal %s", q.Subtotal)
	assert.True(t, q.DiscountAmount.Equal(decimal.NewFromInt(200)), "discount %s", q.DiscountAmount)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(800)), "total %s", q.Total)
}

func TestPrice_DiscountRoundsPlainNotCeiling(t *testing.T) {
	// Discounts round half away from zero, never up:
	// 10% of 344 = 34.4 -> 34, while 10% of 345 = 34.5 -> 35.
	q := Price(decimal.NewFromInt(344), currency.NPR, currency.NPR, &coupon.Resolved{Code: "X", Discount: 10})
	assert.True(t, q.DiscountAmount.Equal(decimal.NewFromInt(34)), "discount %s", q.DiscountAmount)

	q = Price(decimal.NewFromInt(345), currency.NPR, currency.NPR, &coupon.Resolved{Code: "X", Discount: 10})
	assert.True(t, q.DiscountAmount.Equal(decimal.NewFromInt(35)), "discount %s", q.DiscountAmount)
}

func TestPrice_USDKeepsTwoDecimals(t *testing.T) {
	q := Price(decimal.NewFromInt(180), currency.NPR, currency.USD, &coupon.Resolved{Code: "SAVE10", Discount: 10})

	// 180 NPR = 1.24 USD, 10% = 0.12, total 1.12.
	assert.Equal(t, "1.24", q.Subtotal.String())
	assert.Equal(t, "0.12", q.DiscountAmount.String())
	assert.Equal(t, "1.12", q.Total.String())
}

func TestPrice_InactiveCouponNeverApplied(t *testing.T) {
	// The resolver rejects inactive coupons before they reach pricing; a nil
	// coupon must leave total == subtotal.
	q := Price(decimal.NewFromInt(520), currency.NPR, currency.NPR, nil)
	assert.True(t, q.Total.Equal(q.Subtotal))
}

func TestSession_CountryChangeReprices(t *testing.T) {
	s := NewSession(nprSelection(1450))
	s = s.ApplyCoupon(coupon.Resolved{Code: "SAVE10", Discount: 10})

	npr := s.Quote()
	assert.True(t, npr.Total.Equal(decimal.NewFromInt(1305)), "total %s", npr.Total)

	// Switching country must yield a quote computed entirely in the new
	// currency, with nothing carried over from the NPR quote.
	s = s.ApplyCountry(UnitedStates)
	usd := s.Quote()

	assert.Equal(t, currency.USD, usd.Currency)
	assert.Equal(t, "10", usd.Subtotal.String()) // 1450/145
	assert.Equal(t, "1", usd.DiscountAmount.String())
	assert.Equal(t, "9", usd.Total.String())
}

func TestSession_ApplyCountryFixesPaymentMethod(t *testing.T) {
	s := NewSession(nprSelection(180))
	require.Equal(t, MethodEsewa, s.Payment)

	s = s.ApplyCountry(India)
	assert.Equal(t, MethodBank, s.Payment, "esewa is Nepal-only")
	assert.Equal(t, currency.INR, s.Currency())
}

func TestSession_SelectPayment(t *testing.T) {
	s := NewSession(nprSelection(180))

	s, err := s.SelectPayment(MethodBank)
	require.NoError(t, err)
	assert.Equal(t, MethodBank, s.Payment)

	s = s.ApplyCountry(India)
	_, err = s.SelectPayment(MethodEsewa)
	require.ErrorIs(t, err, ErrPaymentMethodNotAllowed)
}

func TestSession_Immutable(t *testing.T) {
	base := NewSession(nprSelection(180))
	withCoupon := base.ApplyCoupon(coupon.Resolved{Code: "SAVE10", Discount: 10})

	assert.Nil(t, base.Coupon, "ApplyCoupon must not mutate the receiver")
	assert.NotNil(t, withCoupon.Coupon)

	cleared := withCoupon.ClearCoupon()
	assert.Nil(t, cleared.Coupon)
	assert.NotNil(t, withCoupon.Coupon)
}

func TestParseCountry(t *testing.T) {
	c, err := ParseCountry("India")
	require.NoError(t, err)
	assert.Equal(t, India, c)

	_, err = ParseCountry("Atlantis")
	require.ErrorIs(t, err, ErrUnknownCountry)
}
