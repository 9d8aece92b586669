package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/topuphub/storefront/internal/domain/order"
)

// ListOrders returns all orders, newest first, for the admin panel.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderAdmin.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, o := range orders {
				encodeOrder(e, o)
			}
		})
	})
}

// UpdateOrderStatus moves an order to a new lifecycle state.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	id := r.PathValue("id")
	if err := h.orderAdmin.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("id", func(e *jx.Encoder) { e.Str(id) })
			e.Field("status", func(e *jx.Encoder) { e.Str(string(status)) })
		})
	})
}

// Stats returns the admin dashboard aggregates: order counts and completed
// revenue normalized to USD.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderAdmin.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	stats := order.Aggregate(orders)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("totalOrders", func(e *jx.Encoder) { e.Int(stats.TotalOrders) })
			e.Field("pendingOrders", func(e *jx.Encoder) { e.Int(stats.PendingOrders) })
			e.Field("totalRevenueUSD", func(e *jx.Encoder) { e.Str(stats.TotalRevenueUSD.StringFixed(2)) })
		})
	})
}
