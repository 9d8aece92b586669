// Package checkout models the direct-buy checkout session and its pricing.
//
// A Session is an immutable value: country, coupon, and payment selections
// produce new Sessions instead of mutating shared state, and a price Quote
// is always recomputed from scratch. A stale quote in a previously selected
// currency can therefore never be displayed or persisted.
package checkout

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/topuphub/storefront/internal/domain/coupon"
	"github.com/topuphub/storefront/internal/domain/currency"
)

// Country is a checkout country selection. It determines the display
// currency and the accepted payment methods.
type Country string

const (
	Nepal        Country = "Nepal"
	India        Country = "India"
	UnitedStates Country = "United States"
)

// PaymentMethod is an out-of-band payment channel.
type PaymentMethod string

const (
	MethodEsewa PaymentMethod = "esewa"
	MethodBank  PaymentMethod = "bank"
)

var (
	ErrUnknownCountry          = errors.New("unknown country")
	ErrPaymentMethodNotAllowed = errors.New("payment method not available for country")
)

// ParseCountry converts a string into a Country.
func ParseCountry(s string) (Country, error) {
	switch Country(s) {
	case Nepal, India, UnitedStates:
		return Country(s), nil
	default:
		return "", errors.Wrapf(ErrUnknownCountry, "%q", s)
	}
}

// Currency returns the display currency for the country.
func (c Country) Currency() currency.Code {
	switch c {
	case India:
		return currency.INR
	case UnitedStates:
		return currency.USD
	default:
		return currency.NPR
	}
}

// PaymentMethods returns the payment methods accepted for the country.
// eSewa is Nepal-only; bank transfer works everywhere.
func (c Country) PaymentMethods() []PaymentMethod {
	if c == Nepal {
		return []PaymentMethod{MethodEsewa, MethodBank}
	}
	return []PaymentMethod{MethodBank}
}

// Allows reports whether m is accepted for the country.
func (c Country) Allows(m PaymentMethod) bool {
	for _, allowed := range c.PaymentMethods() {
		if allowed == m {
			return true
		}
	}
	return false
}

// Selection is the snapshot of the single chosen product package (direct buy
// has no cart).
type Selection struct {
	ProductID    string
	ProductName  string
	PackageLabel string
	BasePrice    decimal.Decimal
	BaseCurrency currency.Code
	Requirements string
	Image        string
}

// Session is the immutable checkout state for one direct-buy flow.
type Session struct {
	Item    Selection
	Country Country
	Coupon  *coupon.Resolved
	Payment PaymentMethod
}

// NewSession starts a checkout for the given selection with the defaults the
// storefront presents: Nepal with eSewa preselected.
func NewSession(item Selection) Session {
	return Session{
		Item:    item,
		Country: Nepal,
		Payment: MethodEsewa,
	}
}

// Currency returns the session's display currency.
func (s Session) Currency() currency.Code {
	return s.Country.Currency()
}

// ApplyCountry returns a session with the new country selected. If the
// previously chosen payment method is not available there, the selection
// falls back to the country's first accepted method.
func (s Session) ApplyCountry(c Country) Session {
	s.Country = c
	if s.Payment != "" && !c.Allows(s.Payment) {
		s.Payment = c.PaymentMethods()[0]
	}
	return s
}

// ApplyCoupon returns a session with the resolved coupon attached.
func (s Session) ApplyCoupon(r coupon.Resolved) Session {
	s.Coupon = &r
	return s
}

// ClearCoupon returns a session with no coupon attached.
func (s Session) ClearCoupon() Session {
	s.Coupon = nil
	return s
}

// SelectPayment returns a session with the payment method selected, or an
// error when the method is not accepted for the session's country.
func (s Session) SelectPayment(m PaymentMethod) (Session, error) {
	if !s.Country.Allows(m) {
		return s, errors.Wrapf(ErrPaymentMethodNotAllowed, "%s in %s", m, s.Country)
	}
	s.Payment = m
	return s, nil
}

// Quote prices the session in its current display currency and coupon state.
func (s Session) Quote() Quote {
	return Price(s.Item.BasePrice, s.Item.BaseCurrency, s.Currency(), s.Coupon)
}
