package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
)

func TestUserUniqueness(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &models.User{Username: "writer", Email: "a@example.com"}))

	err := store.CreateUser(ctx, &models.User{Username: "writer", Email: "b@example.com"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	err = store.CreateUser(ctx, &models.User{Username: "other", Email: "a@example.com"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestStoreReturnsCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	user := &models.User{Username: "writer", Email: "a@example.com", Credits: 5}
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)

	// mutating the returned value must not leak into the store
	got.Credits = 999

	again, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.Credits)
}

func TestTransactionsAppendOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, amount := range []int64{1, 25, -2, 2} {
		require.NoError(t, store.CreateTransaction(ctx, &models.CreditTransaction{
			UserID: 1,
			Amount: amount,
			Type:   models.TransactionPurchase,
		}))
	}

	txs, err := store.GetTransactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 4)

	amounts := make([]int64, 0, len(txs))
	for _, tx := range txs {
		amounts = append(amounts, tx.Amount)
	}
	assert.Equal(t, []int64{1, 25, -2, 2}, amounts)
}

func TestDeleteContentItems_PerIDResult(t *testing.T) {
	store := New()
	ctx := context.Background()

	a := &models.ContentItem{UserID: 1, Title: "a", ContentType: "blog", AIProvider: "openai", Status: models.ContentStatusDraft}
	b := &models.ContentItem{UserID: 1, Title: "b", ContentType: "blog", AIProvider: "openai", Status: models.ContentStatusDraft}
	require.NoError(t, store.CreateContentItem(ctx, a))
	require.NoError(t, store.CreateContentItem(ctx, b))

	result, err := store.DeleteContentItems(ctx, []int64{a.ID, 999, b.ID})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{a.ID, b.ID}, result.Deleted)
	assert.Equal(t, []int64{999}, result.Missing)

	items, err := store.GetContentItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestContentItemsSortedByID(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, store.CreateContentItem(ctx, &models.ContentItem{
			UserID: 1, Title: title, ContentType: "blog", AIProvider: "openai", Status: models.ContentStatusDraft,
		}))
	}

	items, err := store.GetContentItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i].ID, items[i-1].ID)
	}
}
