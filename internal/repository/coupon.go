package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/topuphub/storefront/internal/domain/coupon"
)

const (
	findCouponsByCodeSQL = `SELECT id, code, discount, active
		FROM coupons WHERE code = $1 ORDER BY created_at, id`

	listCouponsSQL = `SELECT id, code, discount, active
		FROM coupons ORDER BY created_at, id`

	createCouponSQL = `INSERT INTO coupons (id, code, discount, active)
		VALUES ($1, $2, $3, $4)`

	deleteCouponSQL = `DELETE FROM coupons WHERE id = $1`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode returns all coupons sharing the given uppercase code, oldest
// first. Duplicate codes are tolerated; the resolver takes the first match.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) ([]coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, findCouponsByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupons for code %q: %w", code, err)
	}
	return pgx.CollectRows(rows, scanCoupon)
}

// List returns all coupons, oldest first.
func (r *CouponRepository) List(ctx context.Context) ([]coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCoupon)
}

// Create inserts a new coupon.
func (r *CouponRepository) Create(ctx context.Context, c coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, createCouponSQL, c.ID, c.Code, c.Discount, c.Active)
	if err != nil {
		return fmt.Errorf("creating coupon %q: %w", c.Code, err)
	}
	return nil
}

// Delete removes a coupon permanently.
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, deleteCouponSQL, id)
	if err != nil {
		return fmt.Errorf("deleting coupon %q: %w", id, err)
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Discount, &c.Active)
	return c, err
}
