package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topuphub/storefront/internal/domain/auth"
	"github.com/topuphub/storefront/internal/domain/coupon"
	"github.com/topuphub/storefront/internal/domain/currency"
	"github.com/topuphub/storefront/internal/domain/order"
	"github.com/topuphub/storefront/internal/domain/product"
)

type stubProducts struct {
	items []product.Product
}

func (s *stubProducts) List(context.Context) ([]product.Product, error) { return s.items, nil }

func (s *stubProducts) ListByCategory(_ context.Context, category string) ([]product.Product, error) {
	var out []product.Product
	for _, p := range s.items {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	for _, p := range s.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (s *stubProducts) Upsert(context.Context, product.Product) error { return nil }

type stubCoupons struct {
	items []coupon.Coupon
}

func (s *stubCoupons) FindByCode(_ context.Context, code string) ([]coupon.Coupon, error) {
	var out []coupon.Coupon
	for _, c := range s.items {
		if c.Code == code {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCoupons) List(context.Context) ([]coupon.Coupon, error) { return s.items, nil }

func (s *stubCoupons) Create(context.Context, coupon.Coupon) error { return nil }

func (s *stubCoupons) Delete(context.Context, string) error { return nil }

type stubOrders struct {
	orders  []order.Order
	created *order.Order
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.created = o
	return nil
}

func (s *stubOrders) List(context.Context) ([]order.Order, error) { return s.orders, nil }

func (s *stubOrders) UpdateStatus(_ context.Context, id string, _ order.Status) error {
	for _, o := range s.orders {
		if o.ID == id {
			return nil
		}
	}
	return order.ErrOrderNotFound
}

type stubTokens struct {
	tokens map[string]*auth.Token
}

func (s *stubTokens) FindByHash(_ context.Context, hash string) (*auth.Token, error) {
	if t, ok := s.tokens[hash]; ok {
		return t, nil
	}
	return nil, auth.ErrTokenNotFound
}

const testPepper = "test-pepper"

func newTestMux(t *testing.T, products *stubProducts, coupons *stubCoupons, orders *stubOrders, tokens *stubTokens) *http.ServeMux {
	t.Helper()
	if tokens == nil {
		tokens = &stubTokens{}
	}

	h := New(
		Config{},
		products,
		coupon.NewResolver(coupons),
		coupons,
		order.NewService(orders),
		orders,
		NewSecurity(tokens, []byte(testPepper)),
	)
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func catalogFixture() *stubProducts {
	return &stubProducts{items: []product.Product{{
		ID:           "pubg",
		Name:         "PUBG Mobile UC",
		Category:     "games",
		Requirements: "UID, IGN",
		Packages: []product.Package{
			{Label: "60 UC", Price: decimal.NewFromInt(180)},
			{Label: "325 UC", Price: decimal.NewFromInt(850)},
		},
	}}}
}

func issueToken(tokens *stubTokens, raw string, id auth.Identity) {
	hash := HashToken([]byte(testPepper), raw)
	if tokens.tokens == nil {
		tokens.tokens = make(map[string]*auth.Token)
	}
	tokens.tokens[hash] = &auth.Token{ID: "t-" + raw, TokenHash: hash, Identity: id}
}

func TestListProducts(t *testing.T) {
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, &stubOrders{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"id":"pubg"`)
	assert.Contains(t, rec.Body.String(), `"currency":"NPR"`)
}

func TestGetProduct_NotFound(t *testing.T) {
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, &stubOrders{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"product not found"`)
}

func TestResolveCoupon(t *testing.T) {
	coupons := &stubCoupons{items: []coupon.Coupon{
		{ID: "c1", Code: "SAVE10", Discount: 10, Active: true},
	}}
	mux := newTestMux(t, catalogFixture(), coupons, &stubOrders{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/coupons/resolve",
		strings.NewReader(`{"code":"save10"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"SAVE10"`)
	assert.Contains(t, rec.Body.String(), `"discount":10`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/coupons/resolve",
		strings.NewReader(`{"code":"NOPE"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteCheckout_CountryAndCoupon(t *testing.T) {
	coupons := &stubCoupons{items: []coupon.Coupon{
		{ID: "c1", Code: "SAVE10", Discount: 10, Active: true},
	}}
	mux := newTestMux(t, catalogFixture(), coupons, &stubOrders{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout/quote",
		strings.NewReader(`{"productId":"pubg","package":"60 UC","country":"United States","couponCode":"SAVE10"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	// 180 NPR -> 1.24 USD, 10% discount rounds to 0.12.
	assert.Contains(t, rec.Body.String(), `"subtotal":"1.24"`)
	assert.Contains(t, rec.Body.String(), `"discount":"0.12"`)
	assert.Contains(t, rec.Body.String(), `"total":"1.12"`)
	assert.Contains(t, rec.Body.String(), `"currency":"USD"`)
	assert.Contains(t, rec.Body.String(), `"paymentMethods":["bank"]`)
}

func TestQuoteCheckout_UnknownPackage(t *testing.T) {
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, &stubOrders{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout/quote",
		strings.NewReader(`{"productId":"pubg","package":"9000 UC"}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlaceOrder_RequiresAuth(t *testing.T) {
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, &stubOrders{}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceOrder_Success(t *testing.T) {
	tokens := &stubTokens{}
	issueToken(tokens, "buyer-token", auth.Identity{
		UID: "u1", Email: "buyer@example.com", EmailVerified: true,
	})
	orders := &stubOrders{}
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, orders, tokens)

	body := `{
		"productId": "pubg",
		"package": "60 UC",
		"paymentMethod": "esewa",
		"requirements": {"uid": "512345678", "ign": "Player1"},
		"payment": {
			"imageData": "aW1hZ2UtYnl0ZXM=",
			"contentType": "image/png",
			"accountNumber": "9800000000",
			"transactionId": "TXN-1"
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer buyer-token")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, orders.created)
	assert.Equal(t, "u1", orders.created.UserID)
	assert.Equal(t, "NPR 180", orders.created.Total.String())
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	assert.NotContains(t, rec.Body.String(), "aW1hZ2UtYnl0ZXM=", "proof image must not be echoed")
}

func TestPlaceOrder_UnverifiedEmail(t *testing.T) {
	tokens := &stubTokens{}
	issueToken(tokens, "unverified", auth.Identity{UID: "u2", Email: "new@example.com"})
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, &stubOrders{}, tokens)

	body := `{
		"productId": "pubg", "package": "60 UC", "paymentMethod": "esewa",
		"requirements": {"uid": "1", "ign": "x"},
		"payment": {"imageData": "aQ==", "contentType": "image/png", "accountNumber": "98", "transactionId": "T"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer unverified")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutes_RejectNonAdmin(t *testing.T) {
	tokens := &stubTokens{}
	issueToken(tokens, "buyer-token", auth.Identity{UID: "u1", EmailVerified: true})
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, &stubOrders{}, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer buyer-token")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	tokens := &stubTokens{}
	issueToken(tokens, "admin-token", auth.Identity{UID: "a1", EmailVerified: true, Admin: true})
	orders := &stubOrders{orders: []order.Order{{ID: "o1", Status: order.StatusPending}}}
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, orders, tokens)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/o1/status",
		strings.NewReader(`{"status":"completed"}`))
	req.Header.Set("Authorization", "Bearer admin-token")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)

	// Unknown status is rejected before touching the store.
	req = httptest.NewRequest(http.MethodPatch, "/api/orders/o1/status",
		strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	tokens := &stubTokens{}
	issueToken(tokens, "admin-token", auth.Identity{UID: "a1", EmailVerified: true, Admin: true})
	orders := &stubOrders{orders: []order.Order{
		{ID: "o1", Status: order.StatusPending, Total: order.ParseAmount("NPR 145", currency.NPR)},
		{ID: "o2", Status: order.StatusCompleted, Total: order.ParseAmount("NPR 145", currency.NPR)},
	}}
	mux := newTestMux(t, catalogFixture(), &stubCoupons{}, orders, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer admin-token")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalOrders":2`)
	assert.Contains(t, rec.Body.String(), `"pendingOrders":1`)
	assert.Contains(t, rec.Body.String(), `"totalRevenueUSD":"1.00"`)
}
