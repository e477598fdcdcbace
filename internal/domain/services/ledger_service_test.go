package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
	"contentscale/internal/infrastructure/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) (LedgerService, *memory.Store, *models.User) {
	t.Helper()

	store := memory.New()
	ledger := NewLedgerService(store, store, nil, testLogger())

	user := &models.User{
		Username: "writer",
		Email:    "writer@example.com",
		Password: "hashed",
		Credits:  0,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return ledger, store, user
}

func TestCostPerArticle(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	withKey := &models.Entitlement{HasAPIKey: true}
	withoutKey := &models.Entitlement{HasAPIKey: false}

	assert.Equal(t, int64(1), ledger.CostPerArticle(withKey))
	assert.Equal(t, int64(2), ledger.CostPerArticle(withoutKey))

	// pricing depends only on key state, not balance
	withKey.Balance = 0
	withoutKey.Balance = 1000
	assert.Equal(t, int64(1), ledger.CostPerArticle(withKey))
	assert.Equal(t, int64(2), ledger.CostPerArticle(withoutKey))
}

func TestCanAuthorize(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	assert.True(t, ledger.CanAuthorize(&models.Entitlement{Balance: 1}))
	assert.True(t, ledger.CanAuthorize(&models.Entitlement{Balance: 0, HasAPIKey: true}))
	assert.False(t, ledger.CanAuthorize(&models.Entitlement{Balance: 0}))
}

func TestAuthorizeAndDebit_InsufficientCredits(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	// one free credit, platform pricing costs two
	require.NoError(t, ledger.GrantSignupCredits(ctx, user.ID))

	_, err := ledger.AuthorizeAndDebit(ctx, user.ID, models.CostPlatformKey)
	assert.ErrorIs(t, err, models.ErrInsufficientCredits)

	// the denied attempt must not touch the balance or the log
	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ent.Balance)

	txs, err := ledger.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestAuthorizeAndDebit_Success(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.RecordPurchase(ctx, user.ID, 50, 25, "Purchased 25 credits")
	require.NoError(t, err)

	result, err := ledger.AuthorizeAndDebit(ctx, user.ID, models.CostPlatformKey)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Debited)
	assert.Equal(t, int64(23), result.NewBalance)
}

func TestAuthorizeAndDebit_ByokFloorsAtZero(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.GrantSignupCredits(ctx, user.ID))
	require.NoError(t, ledger.LinkProvider(ctx, user.ID, string(models.AIProviderOpenAI)))

	// balance 1, unit cost 2: a linked key means the request is allowed
	// and the debit is capped at the remaining balance
	result, err := ledger.AuthorizeAndDebit(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Debited)
	assert.Equal(t, int64(0), result.NewBalance)

	// at zero the debit is zero but generation still goes through
	result, err = ledger.AuthorizeAndDebit(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Debited)
	assert.Equal(t, int64(0), result.NewBalance)

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ent.Balance)
}

func TestAuthorizeAndDebit_InvalidCost(t *testing.T) {
	ledger, _, user := newTestLedger(t)

	_, err := ledger.AuthorizeAndDebit(context.Background(), user.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = ledger.AuthorizeAndDebit(context.Background(), user.ID, -1)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestAuthorizeAndDebit_ConcurrentDoubleSpend(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	// exactly one credit available at unit cost one: out of N concurrent
	// attempts exactly one may succeed
	require.NoError(t, ledger.GrantSignupCredits(ctx, user.ID))

	const workers = 20
	var wg sync.WaitGroup
	successes := make(chan int64, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if result, err := ledger.AuthorizeAndDebit(ctx, user.ID, 1); err == nil {
				successes <- result.Debited
			}
		}()
	}
	wg.Wait()
	close(successes)

	total := int64(0)
	count := 0
	for debited := range successes {
		total += debited
		count++
	}
	assert.Equal(t, 1, count, "exactly one debit may win")
	assert.Equal(t, int64(1), total)

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ent.Balance)
}

func TestLedgerReconciliation(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.GrantSignupCredits(ctx, user.ID))
	_, err := ledger.RecordPurchase(ctx, user.ID, 50, 25, "Purchased 25 credits")
	require.NoError(t, err)
	_, err = ledger.AuthorizeAndDebit(ctx, user.ID, 2)
	require.NoError(t, err)
	_, err = ledger.RecordRefund(ctx, user.ID, 2, "Provider outage refund")
	require.NoError(t, err)
	_, err = ledger.AuthorizeAndDebit(ctx, user.ID, 2)
	require.NoError(t, err)

	txs, err := ledger.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 5)

	var sum int64
	for _, tx := range txs {
		sum += tx.Amount
	}

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sum, ent.Balance, "balance must equal the transaction sum")
	assert.Equal(t, int64(24), ent.Balance)

	// transactions come back in append order
	for i := 1; i < len(txs); i++ {
		assert.Greater(t, txs[i].ID, txs[i-1].ID)
	}
}

func TestRedeemCheckoutSession_ReplayRejected(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	tx, err := ledger.RedeemCheckoutSession(ctx, user.ID, "cs_test_abc", 50, 25, "Purchased 25 credits")
	require.NoError(t, err)
	require.NotNil(t, tx.StripeSessionID)
	assert.Equal(t, "cs_test_abc", *tx.StripeSessionID)

	// the same paid session must never mint credits twice
	_, err = ledger.RedeemCheckoutSession(ctx, user.ID, "cs_test_abc", 50, 25, "Purchased 25 credits")
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), ent.Balance)

	txs, err := ledger.ListTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestRedeemCheckoutSession_InvalidInput(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.RedeemCheckoutSession(ctx, user.ID, "", 50, 25, "")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = ledger.RedeemCheckoutSession(ctx, user.ID, "cs_test_abc", 0, 25, "")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestRecordPurchase_InvalidAmounts(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.RecordPurchase(ctx, user.ID, 0, 25, "")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = ledger.RecordPurchase(ctx, user.ID, 50, 0, "")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = ledger.RecordRefund(ctx, user.ID, -5, "")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestLinkUnlinkProvider(t *testing.T) {
	ledger, _, user := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.LinkProvider(ctx, user.ID, string(models.AIProviderPerplexity)))

	ent, err := ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, ent.HasAPIKey)
	require.NotNil(t, ent.APIProvider)
	assert.Equal(t, string(models.AIProviderPerplexity), *ent.APIProvider)

	require.NoError(t, ledger.UnlinkProvider(ctx, user.ID))

	ent, err = ledger.GetEntitlement(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, ent.HasAPIKey)
	assert.Nil(t, ent.APIProvider)
}

func TestLedgerUnknownUser(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.GetEntitlement(ctx, 999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = ledger.AuthorizeAndDebit(ctx, 999, 1)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = ledger.ListTransactions(ctx, 999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
