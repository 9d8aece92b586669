package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/topuphub/storefront/internal/domain/currency"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback currency.Code
		want     string
		wantCur  currency.Code
	}{
		{"bare number", "500", currency.NPR, "500", currency.NPR},
		{"tagged string", "NPR 800", currency.USD, "800", currency.NPR},
		{"tag overrides fallback", "USD 3.45", currency.NPR, "3.45", currency.USD},
		{"symbol only falls back to order currency", "$3.45", currency.USD, "3.45", currency.USD},
		{"thousands separators stripped", "NPR 1,200", currency.NPR, "1200", currency.NPR},
		{"garbage degrades to zero", "abc", currency.NPR, "0", currency.NPR},
		{"empty degrades to zero", "", currency.NPR, "0", currency.NPR},
		{"invalid fallback defaults to NPR", "800", currency.Code("XXX"), "800", currency.NPR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.raw, tt.fallback)
			assert.Equal(t, tt.want, got.Value.String())
			assert.Equal(t, tt.wantCur, got.Currency)
		})
	}
}

func TestParseAmount_RoundTrip(t *testing.T) {
	// Normalization is idempotent: format then reparse yields the same amount.
	for _, raw := range []string{"NPR 800", "USD 3.45", "INR 912"} {
		a := ParseAmount(raw, currency.NPR)
		again := ParseAmount(a.String(), currency.NPR)
		assert.True(t, a.Value.Equal(again.Value), "value drifted for %q", raw)
		assert.Equal(t, a.Currency, again.Currency)
	}
}

func TestAmount_String(t *testing.T) {
	a := ParseAmount("800", currency.NPR)
	assert.Equal(t, "NPR 800", a.String())

	a = ParseAmount("3.5", currency.USD)
	assert.Equal(t, "USD 3.50", a.String())
}

func TestAmount_USD(t *testing.T) {
	assert.Equal(t, "3.45", ParseAmount("NPR 500", currency.NPR).USD().Round(2).String())
	assert.Equal(t, "1", ParseAmount("INR 91", currency.NPR).USD().String())
	assert.Equal(t, "3.45", ParseAmount("$3.45", currency.USD).USD().String())
}
