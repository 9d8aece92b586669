// Package handler exposes the storefront API over HTTP: catalog reads,
// coupon resolution, checkout quoting, order placement, and admin operations.
package handler

import (
	"net/http"

	"github.com/topuphub/storefront/internal/domain/coupon"
	"github.com/topuphub/storefront/internal/domain/order"
	"github.com/topuphub/storefront/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler wires HTTP routes to the domain layer.
type Handler struct {
	products     product.Repository
	coupons      *coupon.Resolver
	couponAdmin  coupon.Repository
	orderService *order.Service
	orderAdmin   order.Repository
	security     *Security
	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	products product.Repository,
	coupons *coupon.Resolver,
	couponAdmin coupon.Repository,
	orderService *order.Service,
	orderAdmin order.Repository,
	security *Security,
) *Handler {
	return &Handler{
		products:     products,
		coupons:      coupons,
		couponAdmin:  couponAdmin,
		orderService: orderService,
		orderAdmin:   orderAdmin,
		security:     security,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Register attaches all API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	mux.HandleFunc("POST /api/coupons/resolve", h.ResolveCoupon)
	mux.HandleFunc("GET /api/coupons", h.security.requireAdmin(h.ListCoupons))
	mux.HandleFunc("POST /api/coupons", h.security.requireAdmin(h.CreateCoupon))
	mux.HandleFunc("DELETE /api/coupons/{id}", h.security.requireAdmin(h.DeleteCoupon))

	mux.HandleFunc("POST /api/checkout/quote", h.QuoteCheckout)

	mux.HandleFunc("POST /api/orders", h.security.requireUser(h.PlaceOrder))
	mux.HandleFunc("GET /api/orders", h.security.requireAdmin(h.ListOrders))
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.security.requireAdmin(h.UpdateOrderStatus))

	mux.HandleFunc("GET /api/admin/stats", h.security.requireAdmin(h.Stats))
}
