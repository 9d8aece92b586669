package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/topuphub/storefront/internal/domain/auth"
)

const (
	findTokenByHashSQL = `SELECT id, token_hash, user_id, email, email_verified, is_admin
		FROM api_tokens WHERE token_hash = $1 AND active`

	insertTokenSQL = `INSERT INTO api_tokens (id, token_hash, user_id, email, email_verified, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token_hash) DO NOTHING`
)

var _ auth.TokenRepository = (*TokenRepository)(nil)

// TokenRepository implements auth.TokenRepository backed by PostgreSQL.
// Only active tokens resolve; revocation is flipping the active flag.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a TokenRepository that uses the given pool.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// FindByHash resolves an active token by its HMAC hash.
func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*auth.Token, error) {
	rows, err := r.pool.Query(ctx, findTokenByHashSQL, hash)
	if err != nil {
		return nil, fmt.Errorf("finding token: %w", err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, fmt.Errorf("finding token: %w", err)
	}
	return &t, nil
}

// Insert stores a token hash with its identity. Existing hashes are left
// untouched so seeding is idempotent.
func (r *TokenRepository) Insert(ctx context.Context, t auth.Token) error {
	_, err := r.pool.Exec(ctx, insertTokenSQL,
		t.ID, t.TokenHash, t.Identity.UID, t.Identity.Email,
		t.Identity.EmailVerified, t.Identity.Admin,
	)
	if err != nil {
		return fmt.Errorf("inserting token %q: %w", t.ID, err)
	}
	return nil
}

func scanToken(row pgx.CollectableRow) (auth.Token, error) {
	var t auth.Token
	err := row.Scan(&t.ID, &t.TokenHash, &t.Identity.UID, &t.Identity.Email,
		&t.Identity.EmailVerified, &t.Identity.Admin)
	return t, err
}
