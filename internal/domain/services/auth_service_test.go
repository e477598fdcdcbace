package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
	"contentscale/internal/infrastructure/memory"
)

func newTestAuth(t *testing.T) (AuthService, LedgerService, *memory.Store) {
	t.Helper()

	store := memory.New()
	ledger := NewLedgerService(store, store, nil, testLogger())
	jwtService := NewJWTService("test-secret", time.Hour)
	return NewAuthService(store, ledger, jwtService, testLogger()), ledger, store
}

func TestRegister_GrantsFreeCredit(t *testing.T) {
	auth, ledger, _ := newTestAuth(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterRequest{
		Username: "writer",
		Email:    "writer@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, models.FreeTierCredits, user.Credits)
	assert.Empty(t, user.Password)

	// the free credit is a ledger transaction, not a raw balance write
	txs, err := ledger.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionPurchase, txs[0].Type)
	assert.Equal(t, models.FreeTierCredits, txs[0].Amount)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterRequest{Username: "writer", Email: "writer@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, &RegisterRequest{Username: "other", Email: "writer@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	_, err = auth.Register(ctx, &RegisterRequest{Username: "writer", Email: "other@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterRequest{Username: "writer", Email: "writer@example.com", Password: "hunter22"})
	require.NoError(t, err)

	resp, err := auth.Login(ctx, &LoginRequest{Email: "writer@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.Password)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "writer@example.com", claims.Email)
}

func TestLogin_BadCredentials(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterRequest{Username: "writer", Email: "writer@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginRequest{Email: "writer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(42, "writer@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.GenerateToken(42, "writer@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
