package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/topuphub/storefront/internal/domain/checkout"
	"github.com/topuphub/storefront/internal/domain/coupon"
	"github.com/topuphub/storefront/internal/domain/product"
)

// selectionRequest names the product package being bought plus the optional
// country and coupon selections. Shared by the quote and order endpoints.
type selectionRequest struct {
	ProductID  string `json:"productId"`
	Package    string `json:"package"`
	Country    string `json:"country,omitempty"`
	CouponCode string `json:"couponCode,omitempty"`
}

// buildSession resolves a selection request into a checkout session. On
// failure it writes the error response and returns ok=false.
func (h *Handler) buildSession(w http.ResponseWriter, r *http.Request, req selectionRequest) (checkout.Session, bool) {
	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "product not found")
		} else {
			writeInternalError(w, r, err)
		}
		return checkout.Session{}, false
	}

	pkg, ok := p.FindPackage(req.Package)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown package for product")
		return checkout.Session{}, false
	}

	sess := checkout.NewSession(checkout.Selection{
		ProductID:    p.ID,
		ProductName:  p.Name,
		PackageLabel: pkg.Label,
		BasePrice:    pkg.Price,
		BaseCurrency: p.BaseCurrency(),
		Requirements: p.Requirements,
		Image:        p.Image,
	})

	if req.Country != "" {
		country, err := checkout.ParseCountry(req.Country)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown country")
			return checkout.Session{}, false
		}
		sess = sess.ApplyCountry(country)
	}

	if req.CouponCode != "" {
		resolved, err := h.coupons.Resolve(r.Context(), req.CouponCode)
		switch {
		case errors.Is(err, coupon.ErrNotFound):
			writeError(w, http.StatusUnprocessableEntity, "invalid coupon code")
			return checkout.Session{}, false
		case errors.Is(err, coupon.ErrInactive):
			writeError(w, http.StatusUnprocessableEntity, "coupon is no longer active")
			return checkout.Session{}, false
		case err != nil:
			writeInternalError(w, r, err)
			return checkout.Session{}, false
		}
		sess = sess.ApplyCoupon(*resolved)
	}

	return sess, true
}

// QuoteCheckout prices a selection in the chosen country's currency.
func (h *Handler) QuoteCheckout(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, ok := h.buildSession(w, r, req)
	if !ok {
		return
	}
	quote := sess.Quote()

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("subtotal", func(e *jx.Encoder) { e.Str(quote.Subtotal.String()) })
			e.Field("discount", func(e *jx.Encoder) { e.Str(quote.DiscountAmount.String()) })
			e.Field("total", func(e *jx.Encoder) { e.Str(quote.Total.String()) })
			e.Field("currency", func(e *jx.Encoder) { e.Str(string(quote.Currency)) })
			e.Field("country", func(e *jx.Encoder) { e.Str(string(sess.Country)) })
			e.Field("paymentMethods", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, m := range sess.Country.PaymentMethods() {
						e.Str(string(m))
					}
				})
			})
		})
	})
}
