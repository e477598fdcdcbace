package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
	"contentscale/internal/infrastructure/memory"
	"contentscale/internal/providers"
)

type stubChatClient struct {
	name     string
	response string
	err      error
}

func (s *stubChatClient) Complete(_ context.Context, _ providers.ChatRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubChatClient) Name() string { return s.name }

type contentFixture struct {
	store   *memory.Store
	ledger  LedgerService
	service ContentService
	user    *models.User
}

func newContentFixture(t *testing.T, openai, perplexity providers.ChatClient) *contentFixture {
	t.Helper()

	store := memory.New()
	ledger := NewLedgerService(store, store, nil, testLogger())
	ai := providers.NewManager(openai, perplexity)
	service := NewContentService(store, ledger, ai, nil, testLogger())

	user := &models.User{Username: "writer", Email: "writer@example.com", Password: "hashed"}
	require.NoError(t, store.CreateUser(context.Background(), user))

	return &contentFixture{store: store, ledger: ledger, service: service, user: user}
}

func TestGenerateArticle_Success(t *testing.T) {
	openai := &stubChatClient{name: "openai", response: `{"keywords": ["golang", "testing"]}`}
	perplexity := &stubChatClient{name: "perplexity", response: "full article body"}
	fx := newContentFixture(t, openai, perplexity)
	ctx := context.Background()

	_, err := fx.ledger.RecordPurchase(ctx, fx.user.ID, 50, 25, "Purchased 25 credits")
	require.NoError(t, err)

	item, err := fx.service.GenerateArticle(ctx, fx.user.ID, &GenerateArticleRequest{
		Topic:       "go concurrency patterns",
		ContentType: "blog",
		Provider:    string(models.AIProviderPerplexity),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ContentStatusCompleted, item.Status)
	require.NotNil(t, item.Content)
	assert.Equal(t, "full article body", *item.Content)
	assert.Equal(t, int64(2), item.CreditsUsed)
	assert.Equal(t, []string{"golang", "testing"}, []string(item.Keywords))

	ent, err := fx.ledger.GetEntitlement(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(23), ent.Balance)
}

func TestGenerateArticle_ProviderFailureKeepsDebit(t *testing.T) {
	openai := &stubChatClient{name: "openai", err: errors.New("rate limited")}
	fx := newContentFixture(t, openai, &stubChatClient{name: "perplexity"})
	ctx := context.Background()

	_, err := fx.ledger.RecordPurchase(ctx, fx.user.ID, 50, 25, "Purchased 25 credits")
	require.NoError(t, err)

	item, err := fx.service.GenerateArticle(ctx, fx.user.ID, &GenerateArticleRequest{
		Topic:       "go concurrency patterns",
		ContentType: "blog",
		Provider:    string(models.AIProviderOpenAI),
	})
	assert.ErrorIs(t, err, models.ErrProviderFailure)
	require.NotNil(t, item)
	assert.Equal(t, models.ContentStatusFailed, item.Status)

	// the attempt was paid for; refunds are explicit
	ent, err := fx.ledger.GetEntitlement(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(23), ent.Balance)

	items, err := fx.service.GetContentItems(ctx, fx.user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ContentStatusFailed, items[0].Status)
}

func TestGenerateArticle_InsufficientCreditsLeavesNoDraft(t *testing.T) {
	fx := newContentFixture(t, &stubChatClient{name: "openai"}, &stubChatClient{name: "perplexity"})
	ctx := context.Background()

	// one free credit, platform pricing costs two
	require.NoError(t, fx.ledger.GrantSignupCredits(ctx, fx.user.ID))

	_, err := fx.service.GenerateArticle(ctx, fx.user.ID, &GenerateArticleRequest{
		Topic:       "go concurrency patterns",
		ContentType: "blog",
		Provider:    string(models.AIProviderOpenAI),
	})
	assert.ErrorIs(t, err, models.ErrInsufficientCredits)

	items, err := fx.service.GetContentItems(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	ent, err := fx.ledger.GetEntitlement(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ent.Balance)
}

type failingCreditRepo struct {
	*memory.Store
}

func (f *failingCreditRepo) CreateTransaction(context.Context, *models.CreditTransaction) error {
	return errors.New("connection reset")
}

func TestGenerateArticle_DebitFailureLeavesNoDraft(t *testing.T) {
	store := memory.New()
	ledger := NewLedgerService(store, &failingCreditRepo{store}, nil, testLogger())
	ai := providers.NewManager(&stubChatClient{name: "openai"}, &stubChatClient{name: "perplexity"})
	service := NewContentService(store, ledger, ai, nil, testLogger())
	ctx := context.Background()

	user := &models.User{Username: "writer", Email: "writer@example.com", Password: "hashed"}
	require.NoError(t, store.CreateUser(ctx, user))
	require.NoError(t, store.UpdateCredits(ctx, user.ID, 10))

	// the debit fails at the repository, not on balance; the draft must
	// still be cleaned up
	_, err := service.GenerateArticle(ctx, user.ID, &GenerateArticleRequest{
		Topic:       "go concurrency patterns",
		ContentType: "blog",
		Provider:    string(models.AIProviderOpenAI),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrInsufficientCredits)

	items, err := service.GetContentItems(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteContentItem_Ownership(t *testing.T) {
	fx := newContentFixture(t, &stubChatClient{name: "openai"}, &stubChatClient{name: "perplexity"})
	ctx := context.Background()

	other := &models.User{Username: "other", Email: "other@example.com", Password: "hashed"}
	require.NoError(t, fx.store.CreateUser(ctx, other))

	item := &models.ContentItem{UserID: other.ID, Title: "not yours", ContentType: "blog", AIProvider: "openai", Status: models.ContentStatusDraft}
	require.NoError(t, fx.store.CreateContentItem(ctx, item))

	err := fx.service.DeleteContentItem(ctx, fx.user.ID, item.ID)
	assert.ErrorIs(t, err, models.ErrContentNotFound)

	// still there for its owner
	got, err := fx.store.GetContentItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.UserID)
}

func TestDeleteContentItems_ReportsPerID(t *testing.T) {
	fx := newContentFixture(t, &stubChatClient{name: "openai"}, &stubChatClient{name: "perplexity"})
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"one", "two"} {
		item := &models.ContentItem{UserID: fx.user.ID, Title: title, ContentType: "blog", AIProvider: "openai", Status: models.ContentStatusDraft}
		require.NoError(t, fx.store.CreateContentItem(ctx, item))
		ids = append(ids, item.ID)
	}

	other := &models.User{Username: "other", Email: "other@example.com", Password: "hashed"}
	require.NoError(t, fx.store.CreateUser(ctx, other))
	foreign := &models.ContentItem{UserID: other.ID, Title: "theirs", ContentType: "blog", AIProvider: "openai", Status: models.ContentStatusDraft}
	require.NoError(t, fx.store.CreateContentItem(ctx, foreign))

	result, err := fx.service.DeleteContentItems(ctx, fx.user.ID, append(ids, foreign.ID, 999))
	require.NoError(t, err)

	assert.ElementsMatch(t, ids, result.Deleted)
	assert.ElementsMatch(t, []int64{foreign.ID, 999}, result.Missing)

	// foreign item survives
	_, err = fx.store.GetContentItem(ctx, foreign.ID)
	assert.NoError(t, err)
}
