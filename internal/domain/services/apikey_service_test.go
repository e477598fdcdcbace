package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
	"contentscale/internal/infrastructure/memory"
)

func newTestKeys(t *testing.T) (APIKeyService, LedgerService, *models.User) {
	t.Helper()

	store := memory.New()
	ledger := NewLedgerService(store, store, nil, testLogger())
	svc := NewAPIKeyService(store, ledger, testLogger())

	user := &models.User{Username: "writer", Email: "writer@example.com", Password: "hashed"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return svc, ledger, user
}

func TestAddKey_LinksProvider(t *testing.T) {
	svc, ledger, user := newTestKeys(t)
	ctx := context.Background()

	key, err := svc.AddKey(ctx, user.ID, "openai", "sk-test-1234")
	require.NoError(t, err)
	assert.NotEmpty(t, key.KeyHash)
	assert.NotEqual(t, "sk-test-1234", key.KeyHash, "raw key must never be stored")
	assert.True(t, key.IsActive)

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, ent.HasAPIKey)
	require.NotNil(t, ent.APIProvider)
	assert.Equal(t, "openai", *ent.APIProvider)
	assert.Equal(t, models.CostWithOwnKey, ledger.CostPerArticle(ent))
}

func TestAddKey_RejectsUnknownProvider(t *testing.T) {
	svc, _, user := newTestKeys(t)

	_, err := svc.AddKey(context.Background(), user.ID, "anthropic", "sk-test")
	assert.Error(t, err)

	_, err = svc.AddKey(context.Background(), user.ID, "openai", "   ")
	assert.Error(t, err)
}

func TestDeleteKey_LastKeyUnlinks(t *testing.T) {
	svc, ledger, user := newTestKeys(t)
	ctx := context.Background()

	key, err := svc.AddKey(ctx, user.ID, "openai", "sk-test-1234")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteKey(ctx, user.ID, key.ID))

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, ent.HasAPIKey)
	assert.Equal(t, models.CostPlatformKey, ledger.CostPerArticle(ent))
}

func TestDeleteKey_KeepsRemainingProvider(t *testing.T) {
	svc, ledger, user := newTestKeys(t)
	ctx := context.Background()

	openaiKey, err := svc.AddKey(ctx, user.ID, "openai", "sk-openai")
	require.NoError(t, err)
	_, err = svc.AddKey(ctx, user.ID, "perplexity", "pplx-key")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteKey(ctx, user.ID, openaiKey.ID))

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, ent.HasAPIKey)
	require.NotNil(t, ent.APIProvider)
	assert.Equal(t, "perplexity", *ent.APIProvider)
}

func TestDeleteKey_UnknownID(t *testing.T) {
	svc, _, user := newTestKeys(t)

	err := svc.DeleteKey(context.Background(), user.ID, 999)
	assert.ErrorIs(t, err, models.ErrAPIKeyNotFound)
}
