package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/topuphub/storefront/internal/domain/checkout"
	"github.com/topuphub/storefront/internal/domain/currency"
	"github.com/topuphub/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (
			id, user_id, user_email, items, requirements, payment_method,
			country, currency, payment_proof, subtotal, coupon_code,
			discount_percent, total, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	// Legacy imports keep the original ID and raw total text. Re-running an
	// import over already-loaded files must not duplicate rows.
	importOrderSQL = createOrderSQL + ` ON CONFLICT (id) DO NOTHING`

	listOrdersSQL = `SELECT id, user_id, user_email, items, requirements, payment_method,
			country, currency, payment_proof, subtotal, coupon_code,
			discount_percent, total, status, created_at
		FROM orders ORDER BY created_at DESC, id`

	orderExistsSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	listOrderIDsSQL = `SELECT id FROM orders`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Items,
// requirements, and payment proof are stored as JSONB documents; the total is
// stored as raw text and normalized through order.ParseAmount on read.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a freshly built order as a single row insert.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	args, err := orderInsertArgs(o, o.Total.String())
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, createOrderSQL, args...); err != nil {
		return fmt.Errorf("inserting order %q: %w", o.ID, err)
	}
	return nil
}

// Import inserts a legacy order, preserving its original raw total text.
// Returns false when a row with the same ID already exists.
func (r *OrderRepository) Import(ctx context.Context, o *order.Order, rawTotal string) (bool, error) {
	args, err := orderInsertArgs(o, rawTotal)
	if err != nil {
		return false, err
	}
	tag, err := r.pool.Exec(ctx, importOrderSQL, args...)
	if err != nil {
		return false, fmt.Errorf("importing order %q: %w", o.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether an order with the given ID is already stored.
func (r *OrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, orderExistsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking order %q: %w", id, err)
	}
	return exists, nil
}

// ListIDs returns the IDs of every stored order.
func (r *OrderRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listOrderIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing order ids: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus moves an order to a new lifecycle state.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func orderInsertArgs(o *order.Order, rawTotal string) ([]any, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshaling items of order %q: %w", o.ID, err)
	}
	reqJSON, err := json.Marshal(o.Requirements)
	if err != nil {
		return nil, fmt.Errorf("marshaling requirements of order %q: %w", o.ID, err)
	}
	proofJSON, err := json.Marshal(o.PaymentProof)
	if err != nil {
		return nil, fmt.Errorf("marshaling payment proof of order %q: %w", o.ID, err)
	}

	return []any{
		o.ID, o.UserID, o.UserEmail, itemsJSON, reqJSON, string(o.PaymentMethod),
		string(o.Country), string(o.Currency), proofJSON, o.Subtotal, o.CouponCode,
		o.DiscountPercent, rawTotal, string(o.Status), o.CreatedAt,
	}, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		reqJSON   []byte
		proofJSON []byte
		method    string
		country   string
		cur       string
		rawTotal  string
		status    string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.UserEmail, &itemsJSON, &reqJSON, &method,
		&country, &cur, &proofJSON, &o.Subtotal, &o.CouponCode,
		&o.DiscountPercent, &rawTotal, &status, &o.CreatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling items of order %q: %w", o.ID, err)
	}
	if err := json.Unmarshal(reqJSON, &o.Requirements); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling requirements of order %q: %w", o.ID, err)
	}
	if err := json.Unmarshal(proofJSON, &o.PaymentProof); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling payment proof of order %q: %w", o.ID, err)
	}

	o.PaymentMethod = checkout.PaymentMethod(method)
	o.Country = checkout.Country(country)
	o.Currency = currency.Code(cur)
	o.Status = order.Status(status)
	o.Total = order.ParseAmount(rawTotal, o.Currency)
	return o, nil
}
