package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/topuphub/storefront/internal/domain/checkout"
	"github.com/topuphub/storefront/internal/domain/order"
)

// placeOrderRequest is the order placement body: a selection plus the payment
// method, requirement answers, and proof of payment. ImageData arrives
// base64-encoded.
type placeOrderRequest struct {
	selectionRequest
	PaymentMethod string            `json:"paymentMethod"`
	Requirements  map[string]string `json:"requirements"`
	Payment       struct {
		ImageLink     string `json:"imgbbLink,omitempty"`
		ImageData     []byte `json:"imageData,omitempty"`
		ContentType   string `json:"contentType,omitempty"`
		AccountNumber string `json:"accountNumber"`
		TransactionID string `json:"transactionId"`
	} `json:"payment"`
}

// PlaceOrder builds a checkout session from the request, delegates to the
// order service, and returns the created order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req placeOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, ok := h.buildSession(w, r, req.selectionRequest)
	if !ok {
		return
	}
	if req.PaymentMethod != "" {
		var err error
		sess, err = sess.SelectPayment(checkout.PaymentMethod(req.PaymentMethod))
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "payment method not available for country")
			return
		}
	}

	o, err := h.orderService.Place(r.Context(), order.PlaceRequest{
		Identity:     identity,
		Session:      sess,
		Requirements: req.Requirements,
		Proof: order.PaymentProof{
			ImageLink:     req.Payment.ImageLink,
			ImageData:     req.Payment.ImageData,
			ContentType:   req.Payment.ContentType,
			AccountNumber: req.Payment.AccountNumber,
			TransactionID: req.Payment.TransactionID,
		},
	})
	if err != nil {
		h.writePlaceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}

// writePlaceError maps order placement errors to the error envelope.
func (h *Handler) writePlaceError(w http.ResponseWriter, r *http.Request, err error) {
	var mrErr *order.MissingRequirementError
	switch {
	case errors.Is(err, order.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, order.ErrEmailNotVerified):
		writeError(w, http.StatusForbidden, "verify your email before ordering")
	case errors.Is(err, order.ErrNoPaymentMethod),
		errors.Is(err, checkout.ErrPaymentMethodNotAllowed):
		writeError(w, http.StatusUnprocessableEntity, "payment method not available for country")
	case errors.Is(err, order.ErrProofMissing),
		errors.Is(err, order.ErrProofNotImage),
		errors.Is(err, order.ErrProofTooLarge):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &mrErr):
		writeError(w, http.StatusUnprocessableEntity, mrErr.Error())
	default:
		writeInternalError(w, r, err)
	}
}

// encodeOrder renders an order for API responses. The payment proof image is
// never echoed back, only its presence.
func encodeOrder(e *jx.Encoder, o order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("userId", func(e *jx.Encoder) { e.Str(o.UserID) })
		e.Field("userEmail", func(e *jx.Encoder) { e.Str(o.UserEmail) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range o.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("productId", func(e *jx.Encoder) { e.Str(item.ProductID) })
						e.Field("productName", func(e *jx.Encoder) { e.Str(item.ProductName) })
						e.Field("package", func(e *jx.Encoder) { e.Str(item.PackageLabel) })
						e.Field("price", func(e *jx.Encoder) { e.Str(item.Price.String()) })
					})
				}
			})
		})
		e.Field("country", func(e *jx.Encoder) { e.Str(string(o.Country)) })
		e.Field("currency", func(e *jx.Encoder) { e.Str(string(o.Currency)) })
		e.Field("paymentMethod", func(e *jx.Encoder) { e.Str(string(o.PaymentMethod)) })
		e.Field("subtotal", func(e *jx.Encoder) { e.Str(o.Subtotal.String()) })
		if o.CouponCode != "" {
			e.Field("couponCode", func(e *jx.Encoder) { e.Str(o.CouponCode) })
			e.Field("discountPercent", func(e *jx.Encoder) { e.Int(o.DiscountPercent) })
		}
		e.Field("total", func(e *jx.Encoder) { e.Str(o.Total.String()) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339)) })
		e.Field("hasProof", func(e *jx.Encoder) {
			e.Bool(o.PaymentProof.ImageLink != "" || len(o.PaymentProof.ImageData) > 0)
		})
	})
}
