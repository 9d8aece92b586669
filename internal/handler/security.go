package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/topuphub/storefront/internal/domain/auth"
)

type identityKey struct{}

// identityFrom returns the authenticated identity attached by requireUser.
func identityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}

// Security authenticates bearer tokens. Tokens are stored HMAC-SHA256
// hashed with a server-side pepper; the raw token never touches storage.
type Security struct {
	tokens auth.TokenRepository
	pepper []byte
}

// NewSecurity creates a Security with the given token repository and pepper.
func NewSecurity(tokens auth.TokenRepository, pepper []byte) *Security {
	return &Security{tokens: tokens, pepper: pepper}
}

// authenticate resolves the Authorization bearer token into an identity.
func (s *Security) authenticate(r *http.Request) (auth.Identity, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return auth.Identity{}, false
	}

	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(token))
	hash := mac.Sum(nil)

	info, err := s.tokens.FindByHash(r.Context(), hex.EncodeToString(hash))
	if err != nil {
		return auth.Identity{}, false
	}

	// Constant-time comparison guards against a stale or wrong row from the
	// lookup producing a timing side-channel.
	stored, err := hex.DecodeString(info.TokenHash)
	if err != nil {
		return auth.Identity{}, false
	}
	if subtle.ConstantTimeCompare(hash, stored) != 1 {
		return auth.Identity{}, false
	}

	return info.Identity, true
}

// requireUser rejects unauthenticated requests and attaches the identity to
// the request context.
func (s *Security) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	}
}

// requireAdmin rejects requests whose identity lacks the admin flag.
func (s *Security) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request) {
		id, _ := identityFrom(r.Context())
		if !id.Admin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

// HashToken computes the stored hash for a raw token. Shared with the seeder
// so issued tokens and stored hashes always agree.
func HashToken(pepper []byte, token string) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
