package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/topuphub/storefront/internal/domain/auth"
	"github.com/topuphub/storefront/internal/domain/checkout"
	"github.com/topuphub/storefront/internal/domain/product"
)

// Precondition errors for placing an order.
var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrNoPaymentMethod  = errors.New("payment method required")
)

// MissingRequirementError indicates a required checkout field was left empty.
type MissingRequirementError struct {
	Label string
}

func (e *MissingRequirementError) Error() string {
	return fmt.Sprintf("requirement %q must be filled in", e.Label)
}

// PlaceRequest carries everything needed to build and persist an order.
type PlaceRequest struct {
	Identity     auth.Identity
	Session      checkout.Session
	Requirements map[string]string
	Proof        PaymentProof
}

// Service builds and persists order records.
type Service struct {
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders, now: time.Now}
}

// Place validates the checkout preconditions, prices the session, builds the
// order record, and persists it atomically. Status and CreatedAt are fixed
// at build time, never earlier. Failures surface to the caller; there is no
// automatic retry.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if req.Identity.UID == "" {
		return nil, ErrNotAuthenticated
	}
	if !req.Identity.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	sess := req.Session
	if sess.Payment == "" {
		return nil, ErrNoPaymentMethod
	}
	if !sess.Country.Allows(sess.Payment) {
		return nil, errors.Wrap(checkout.ErrPaymentMethodNotAllowed, "place order")
	}

	if err := req.Proof.Validate(); err != nil {
		return nil, err
	}

	// Every requirement field derived from the product must be filled.
	fields := make(map[string]string, len(req.Requirements))
	for k, v := range req.Requirements {
		fields[k] = v
	}
	for _, label := range (product.Product{Requirements: sess.Item.Requirements}).RequirementLabels() {
		if fields[product.FieldKey(label)] == "" {
			return nil, &MissingRequirementError{Label: label}
		}
	}

	// Price from scratch: the quote depends on the session's current country
	// and coupon, never on anything cached.
	quote := sess.Quote()

	couponCode := ""
	discountPercent := 0
	if sess.Coupon != nil {
		couponCode = sess.Coupon.Code
		discountPercent = sess.Coupon.Discount
	}

	o := &Order{
		ID:        uuid.New().String(),
		UserID:    req.Identity.UID,
		UserEmail: req.Identity.Email,
		Items: []Item{{
			ProductID:    sess.Item.ProductID,
			ProductName:  sess.Item.ProductName,
			PackageLabel: sess.Item.PackageLabel,
			Price:        sess.Item.BasePrice,
			Requirements: sess.Item.Requirements,
			Image:        sess.Item.Image,
		}},
		Requirements:    StructuredRequirements(fields),
		PaymentMethod:   sess.Payment,
		Country:         sess.Country,
		Currency:        quote.Currency,
		PaymentProof:    req.Proof,
		Subtotal:        quote.Subtotal,
		CouponCode:      couponCode,
		DiscountPercent: discountPercent,
		Total:           Amount{Value: quote.Total, Currency: quote.Currency},
		Status:          StatusPending,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}
