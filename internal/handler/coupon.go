package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/topuphub/storefront/internal/domain/coupon"
)

// ResolveCoupon validates a coupon code and returns its discount.
func (h *Handler) ResolveCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	resolved, err := h.coupons.Resolve(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, coupon.ErrNotFound):
			writeError(w, http.StatusUnprocessableEntity, "invalid coupon code")
		case errors.Is(err, coupon.ErrInactive):
			writeError(w, http.StatusUnprocessableEntity, "coupon is no longer active")
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Str(resolved.Code) })
			e.Field("discount", func(e *jx.Encoder) { e.Int(resolved.Discount) })
		})
	})
}

// ListCoupons returns all coupons for the admin panel.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponAdmin.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, c := range coupons {
				encodeCoupon(e, c)
			}
		})
	})
}

// CreateCoupon stores a new coupon. The code is normalized to uppercase; a
// duplicate code shadows older entries rather than replacing them.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		Discount int    `json:"discount"`
		Active   *bool  `json:"active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		writeError(w, http.StatusBadRequest, "coupon code is required")
		return
	}
	if req.Discount < 0 || req.Discount > 100 {
		writeError(w, http.StatusBadRequest, "discount must be between 0 and 100")
		return
	}

	c := coupon.Coupon{
		ID:       uuid.New().String(),
		Code:     code,
		Discount: req.Discount,
		Active:   req.Active == nil || *req.Active,
	}
	if err := h.couponAdmin.Create(r.Context(), c); err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeCoupon(e, c)
	})
}

// DeleteCoupon removes a coupon permanently.
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.couponAdmin.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeInternalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func encodeCoupon(e *jx.Encoder, c coupon.Coupon) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
		e.Field("code", func(e *jx.Encoder) { e.Str(c.Code) })
		e.Field("discount", func(e *jx.Encoder) { e.Int(c.Discount) })
		e.Field("active", func(e *jx.Encoder) { e.Bool(c.Active) })
	})
}
