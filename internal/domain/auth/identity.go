// Package auth defines the authenticated identity attached to API requests.
package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrTokenNotFound is returned when no active token matches a hash.
var ErrTokenNotFound = errors.New("token not found")

// Identity is the authenticated principal for a request. Placing an order
// additionally requires EmailVerified; admin operations require Admin.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Admin         bool
}

// Token is a stored API session token. The raw token is never persisted,
// only its HMAC-SHA256 hash.
type Token struct {
	ID        string
	TokenHash string
	Identity  Identity
}

// TokenRepository provides token lookup by hash.
type TokenRepository interface {
	FindByHash(ctx context.Context, hash string) (*Token, error)
}
