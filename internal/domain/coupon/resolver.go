package coupon

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// Resolver validates coupon codes against the repository. Resolution is a
// pure read: it never mutates the coupon.
type Resolver struct {
	repo Repository
}

// NewResolver creates a Resolver backed by the given Repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up a coupon code case-insensitively and returns its discount.
// The code is uppercased before the exact-match query. Zero matches yields
// ErrNotFound; when several coupons share a code, the first match is
// canonical and its active flag decides between success and ErrInactive.
func (r *Resolver) Resolve(ctx context.Context, code string) (*Resolved, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrNotFound
	}

	matches, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "lookup coupon")
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	first := matches[0]
	if !first.Active {
		return nil, ErrInactive
	}

	return &Resolved{Code: first.Code, Discount: first.Discount}, nil
}
