package coupon

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCouponRepo struct {
	byCode   map[string][]Coupon
	err      error
	lastCode string
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) ([]Coupon, error) {
	m.lastCode = code
	if m.err != nil {
		return nil, m.err
	}
	return m.byCode[code], nil
}

func (m *mockCouponRepo) List(_ context.Context) ([]Coupon, error)  { return nil, nil }
func (m *mockCouponRepo) Create(_ context.Context, _ Coupon) error  { return nil }
func (m *mockCouponRepo) Delete(_ context.Context, _ string) error  { return nil }

func TestResolve_CaseInsensitive(t *testing.T) {
	repo := &mockCouponRepo{byCode: map[string][]Coupon{
		"SAVE10": {{ID: "c1", Code: "SAVE10", Discount: 10, Active: true}},
	}}
	resolver := NewResolver(repo)

	lower, err := resolver.Resolve(context.Background(), "save10")
	require.NoError(t, err)

	upper, err := resolver.Resolve(context.Background(), "SAVE10")
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
	assert.Equal(t, "SAVE10", repo.lastCode, "query must use the uppercased code")
	assert.Equal(t, 10, lower.Discount)
}

func TestResolve_NotFound(t *testing.T) {
	resolver := NewResolver(&mockCouponRepo{byCode: map[string][]Coupon{}})

	_, err := resolver.Resolve(context.Background(), "BOGUS")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_EmptyCode(t *testing.T) {
	resolver := NewResolver(&mockCouponRepo{})

	_, err := resolver.Resolve(context.Background(), "   ")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_Inactive(t *testing.T) {
	resolver := NewResolver(&mockCouponRepo{byCode: map[string][]Coupon{
		"EXPIRED": {{ID: "c2", Code: "EXPIRED", Discount: 25, Active: false}},
	}})

	_, err := resolver.Resolve(context.Background(), "expired")
	require.ErrorIs(t, err, ErrInactive)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	// Duplicate codes are a data hazard; the first document is canonical.
	resolver := NewResolver(&mockCouponRepo{byCode: map[string][]Coupon{
		"DUP": {
			{ID: "c1", Code: "DUP", Discount: 10, Active: true},
			{ID: "c2", Code: "DUP", Discount: 50, Active: true},
		},
	}})

	got, err := resolver.Resolve(context.Background(), "DUP")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Discount)
}

func TestResolve_RepoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	resolver := NewResolver(&mockCouponRepo{err: repoErr})

	_, err := resolver.Resolve(context.Background(), "SAVE10")
	require.ErrorIs(t, err, repoErr)
}
