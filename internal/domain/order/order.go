// Package order implements the transactional order record: building it at
// checkout, persisting it, and aggregating it for the admin dashboard.
package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/topuphub/storefront/internal/domain/checkout"
	"github.com/topuphub/storefront/internal/domain/currency"
)

// Status is the admin-managed order lifecycle state. Orders are created
// pending; completed and cancelled are semantically terminal but further
// transitions are not enforced.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ErrUnknownStatus is returned for status values outside the enumeration.
var ErrUnknownStatus = errors.New("unknown order status")

// ErrOrderNotFound is returned when a status update targets a missing order.
var ErrOrderNotFound = errors.New("order not found")

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
}

// Item is a single order line. The direct-buy flow always produces exactly
// one, but the stored shape is an ordered sequence.
type Item struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	PackageLabel string          `json:"package"`
	Price        decimal.Decimal `json:"price"`
	Requirements string          `json:"requirements,omitempty"`
	Image        string          `json:"image,omitempty"`
}

// MaxProofSize is the largest accepted proof image, before compression.
const MaxProofSize = 1 << 20

// Proof validation errors.
var (
	ErrProofMissing  = errors.New("payment proof required")
	ErrProofNotImage = errors.New("payment proof must be an image")
	ErrProofTooLarge = errors.New("payment proof exceeds 1 MiB")
)

// PaymentProof is the buyer's evidence of an out-of-band payment. Legacy
// orders reference a remote image link; current orders embed the compressed
// image itself.
type PaymentProof struct {
	ImageLink     string `json:"imgbbLink,omitempty"`
	ImageData     []byte `json:"imageData,omitempty"`
	ContentType   string `json:"contentType,omitempty"`
	AccountNumber string `json:"accountNumber"`
	TransactionID string `json:"transactionId"`
}

// Validate checks the proof before an order may be built. A legacy remote
// link is accepted as-is; an embedded image must declare an image content
// type and fit within MaxProofSize.
func (p PaymentProof) Validate() error {
	if p.ImageLink != "" {
		return nil
	}
	if len(p.ImageData) == 0 {
		return ErrProofMissing
	}
	if !strings.HasPrefix(p.ContentType, "image/") {
		return ErrProofNotImage
	}
	if len(p.ImageData) > MaxProofSize {
		return ErrProofTooLarge
	}
	return nil
}

// Order is the persisted transactional record for one direct-buy purchase.
type Order struct {
	ID              string
	UserID          string
	UserEmail       string
	Items           []Item
	Requirements    Requirements
	PaymentMethod   checkout.PaymentMethod
	Country         checkout.Country
	Currency        currency.Code
	PaymentProof    PaymentProof
	Subtotal        decimal.Decimal
	CouponCode      string
	DiscountPercent int
	Total           Amount
	Status          Status
	CreatedAt       time.Time
}

// Repository defines persistence operations for orders. Create is a single
// atomic document insert: either the whole order is visible or none of it.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
