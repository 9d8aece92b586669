// Package product defines the digital-goods catalog model.
package product

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/topuphub/storefront/internal/domain/currency"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Package is a purchasable denomination of a product (e.g. "60 UC").
// Its price is expressed in the parent product's base currency.
type Package struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// Product is a catalog item: a game top-up, gift card, or subscription.
// Requirements is the comma-separated list of fields the buyer must fill in
// at checkout (e.g. "UID, IGN"). Currency is the base currency the catalog
// admin entered prices in; legacy entries without one default to NPR.
type Product struct {
	ID           string
	Name         string
	Category     string
	Image        string
	Description  string
	Requirements string
	Currency     currency.Code
	Packages     []Package
}

// BaseCurrency returns the product's price currency, defaulting to the
// legacy currency when the catalog entry predates multi-currency support.
func (p Product) BaseCurrency() currency.Code {
	if p.Currency.Valid() {
		return p.Currency
	}
	return currency.NPR
}

// FindPackage returns the package with the given label.
func (p Product) FindPackage(label string) (Package, bool) {
	for _, pkg := range p.Packages {
		if pkg.Label == label {
			return pkg, true
		}
	}
	return Package{}, false
}

// RequirementLabels splits the comma-separated requirements string into
// trimmed labels, dropping empties and duplicates.
func (p Product) RequirementLabels() []string {
	if p.Requirements == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var labels []string
	for _, raw := range strings.Split(p.Requirements, ",") {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// FieldKey derives the stored requirement key from a human-readable label:
// lowercased with runs of whitespace collapsed to underscores
// ("Microsoft ID" -> "microsoft_id").
func FieldKey(label string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
}

// Repository defines read and seed operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Upsert(ctx context.Context, p Product) error
}
