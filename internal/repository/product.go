package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/topuphub/storefront/internal/domain/currency"
	"github.com/topuphub/storefront/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, category, image, description, requirements, currency, packages
		FROM products ORDER BY id`

	listProductsByCategorySQL = `SELECT id, name, category, image, description, requirements, currency, packages
		FROM products WHERE category = $1 ORDER BY id`

	getProductByIDSQL = `SELECT id, name, category, image, description, requirements, currency, packages
		FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (id, name, category, image, description, requirements, currency, packages)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category, image = EXCLUDED.image,
			description = EXCLUDED.description, requirements = EXCLUDED.requirements,
			currency = EXCLUDED.currency, packages = EXCLUDED.packages`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
// Packages are stored as a JSONB array on the product row.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns the full catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListByCategory returns all products in the given category.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsByCategorySQL, category)
	if err != nil {
		return nil, fmt.Errorf("listing products in category %q: %w", category, err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Upsert inserts or fully overwrites a catalog entry.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	packagesJSON, err := json.Marshal(p.Packages)
	if err != nil {
		return fmt.Errorf("marshaling packages for product %q: %w", p.ID, err)
	}

	_, err = r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Category, p.Image, p.Description, p.Requirements,
		string(p.BaseCurrency()), packagesJSON,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p            product.Product
		cur          string
		packagesJSON []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Image, &p.Description,
		&p.Requirements, &cur, &packagesJSON,
	)
	if err != nil {
		return product.Product{}, err
	}
	p.Currency = currency.Code(cur)
	if err := json.Unmarshal(packagesJSON, &p.Packages); err != nil {
		return product.Product{}, fmt.Errorf("unmarshaling packages for product %q: %w", p.ID, err)
	}
	return p, nil
}
