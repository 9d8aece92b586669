// Package coupon holds the coupon model and the code resolver used at
// checkout.
package coupon

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when no coupon exists for a code.
	ErrNotFound = errors.New("coupon not found")
	// ErrInactive is returned when the coupon exists but has been disabled.
	ErrInactive = errors.New("coupon inactive")
)

// Coupon is a percentage discount code. Codes are stored uppercase; an admin
// update is a full overwrite and deletion is permanent. Multiple documents
// sharing a code is a data-integrity hazard the system tolerates by taking
// the first match on lookup.
type Coupon struct {
	ID       string
	Code     string
	Discount int // whole percent, 0..100
	Active   bool
}

// Resolved is the outcome of a successful coupon resolution.
type Resolved struct {
	Code     string
	Discount int
}

// Repository provides coupon lookup and admin mutation.
type Repository interface {
	// FindByCode returns all coupons with exactly the given (uppercase) code,
	// in storage order. Zero results is not an error.
	FindByCode(ctx context.Context, code string) ([]Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Create(ctx context.Context, c Coupon) error
	Delete(ctx context.Context, id string) error
}
