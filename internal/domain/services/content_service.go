package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
	"contentscale/internal/providers"
)

type GenerateArticleRequest struct {
	Topic       string `json:"topic" binding:"required"`
	Title       string `json:"title"`
	ContentType string `json:"content_type" binding:"required"`
	Provider    string `json:"provider" binding:"required"`
}

type ContentService interface {
	GenerateArticle(ctx context.Context, userID int64, req *GenerateArticleRequest) (*models.ContentItem, error)
	GenerateKeywords(ctx context.Context, topic string) ([]string, error)
	GenerateTitles(ctx context.Context, topic string) ([]string, error)
	GenerateOutline(ctx context.Context, topic string) (string, error)
	GenerateNLPKeywords(ctx context.Context, content string) ([]string, error)

	GetContentItems(ctx context.Context, userID int64) ([]*models.ContentItem, error)
	DeleteContentItem(ctx context.Context, userID, id int64) error
	DeleteContentItems(ctx context.Context, userID int64, ids []int64) (*models.BulkDeleteResult, error)
}

// GenerationPublisher pushes progress events out to connected clients.
// A nil publisher disables streaming without affecting generation.
type GenerationPublisher interface {
	Publish(ctx context.Context, event *models.GenerationEvent) error
}

type contentService struct {
	contentRepo repositories.ContentRepository
	ledger      LedgerService
	ai          *providers.Manager
	prompts     *providers.PromptTemplates
	publisher   GenerationPublisher
	logger      *slog.Logger
}

func NewContentService(contentRepo repositories.ContentRepository, ledger LedgerService, ai *providers.Manager, publisher GenerationPublisher, logger *slog.Logger) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		ledger:      ledger,
		ai:          ai,
		prompts:     providers.NewPromptTemplates(),
		publisher:   publisher,
		logger:      logger,
	}
}

// GenerateArticle runs the full paid workflow: price the action, create the
// draft, debit the user, call the provider, attach the result. The debit
// pays for the attempt: a provider failure marks the item failed but the
// usage transaction stands. Refunds are an explicit, separate operation.
func (s *contentService) GenerateArticle(ctx context.Context, userID int64, req *GenerateArticleRequest) (*models.ContentItem, error) {
	ent, err := s.ledger.GetEntitlement(ctx, userID)
	if err != nil {
		return nil, err
	}
	cost := s.ledger.CostPerArticle(ent)

	title := req.Title
	if title == "" {
		title = req.Topic
	}

	item := &models.ContentItem{
		UserID:      userID,
		Title:       title,
		ContentType: req.ContentType,
		AIProvider:  req.Provider,
		Status:      models.ContentStatusDraft,
		Keywords:    []string{},
		NLPKeywords: []string{},
	}
	if err := s.contentRepo.CreateContentItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create content item: %w", err)
	}

	debit, err := s.ledger.AuthorizeAndDebit(ctx, userID, cost)
	if err != nil {
		// the draft was never paid for; any failed debit leaves no
		// artifact behind, not just an insufficient balance
		if delErr := s.contentRepo.DeleteContentItem(ctx, item.ID); delErr != nil {
			s.logger.Warn("failed to remove unpaid draft", "error", delErr, "content_id", item.ID)
		}
		return nil, err
	}
	item.CreditsUsed = debit.Debited

	s.publish(ctx, item, models.EventGenerationStarted, "")

	body, genErr := s.generate(ctx, req)
	if genErr != nil {
		item.Status = models.ContentStatusFailed
		if err := s.contentRepo.UpdateContentItem(ctx, item); err != nil {
			s.logger.Error("failed to mark content item failed", "error", err, "content_id", item.ID)
		}
		s.publish(ctx, item, models.EventGenerationFailed, genErr.Error())
		return item, fmt.Errorf("%w: %s", models.ErrProviderFailure, genErr.Error())
	}

	item.Content = &body
	item.Status = models.ContentStatusCompleted

	if keywords, err := s.GenerateKeywords(ctx, req.Topic); err == nil {
		item.Keywords = keywords
	} else {
		s.logger.Warn("keyword generation failed", "error", err, "content_id", item.ID)
	}
	if nlp, err := s.GenerateNLPKeywords(ctx, body); err == nil {
		item.NLPKeywords = nlp
	} else {
		s.logger.Warn("nlp keyword generation failed", "error", err, "content_id", item.ID)
	}

	if err := s.contentRepo.UpdateContentItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to store generated content: %w", err)
	}

	s.publish(ctx, item, models.EventGenerationCompleted, "")

	s.logger.Info("article generated",
		"content_id", item.ID,
		"user_id", userID,
		"provider", req.Provider,
		"credits_used", item.CreditsUsed,
	)
	return item, nil
}

func (s *contentService) generate(ctx context.Context, req *GenerateArticleRequest) (string, error) {
	if models.AIProvider(req.Provider) == models.AIProviderPerplexity {
		return s.ai.Complete(ctx, req.Provider, providers.ChatRequest{
			System:      "You are an expert content writer with access to real-time web data. Create comprehensive, well-researched content that incorporates the latest information and trends.",
			Prompt:      s.prompts.BuildWebContentPrompt(req.Topic, req.ContentType),
			Temperature: 0.7,
			MaxTokens:   3000,
		})
	}
	return s.ai.Complete(ctx, req.Provider, providers.ChatRequest{
		Prompt:      s.prompts.BuildContentPrompt(req.Topic, req.ContentType),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
}

func (s *contentService) GenerateKeywords(ctx context.Context, topic string) ([]string, error) {
	var result struct {
		Keywords []string `json:"keywords"`
	}
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are an SEO expert. Respond with JSON format only.",
		Prompt: s.prompts.BuildKeywordsPrompt(topic),
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Keywords, nil
}

func (s *contentService) GenerateTitles(ctx context.Context, topic string) ([]string, error) {
	var result struct {
		Titles []string `json:"titles"`
	}
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are an SEO expert. Respond with JSON format only.",
		Prompt: s.prompts.BuildTitlesPrompt(topic),
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Titles, nil
}

func (s *contentService) GenerateOutline(ctx context.Context, topic string) (string, error) {
	return s.ai.Complete(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		Prompt:      s.prompts.BuildOutlinePrompt(topic),
		Temperature: 0.7,
		MaxTokens:   1500,
	})
}

func (s *contentService) GenerateNLPKeywords(ctx context.Context, content string) ([]string, error) {
	var result struct {
		Keywords []string `json:"keywords"`
	}
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are an SEO expert. Respond with JSON format only.",
		Prompt: s.prompts.BuildNLPKeywordsPrompt(content),
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Keywords, nil
}

func (s *contentService) GetContentItems(ctx context.Context, userID int64) ([]*models.ContentItem, error) {
	return s.contentRepo.GetContentItems(ctx, userID)
}

func (s *contentService) DeleteContentItem(ctx context.Context, userID, id int64) error {
	item, err := s.contentRepo.GetContentItem(ctx, id)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return models.ErrContentNotFound
	}
	return s.contentRepo.DeleteContentItem(ctx, id)
}

// DeleteContentItems deletes what it can and reports the rest; ids owned by
// another user count as missing.
func (s *contentService) DeleteContentItems(ctx context.Context, userID int64, ids []int64) (*models.BulkDeleteResult, error) {
	owned := make([]int64, 0, len(ids))
	missing := make([]int64, 0)
	for _, id := range ids {
		item, err := s.contentRepo.GetContentItem(ctx, id)
		if err != nil || item.UserID != userID {
			missing = append(missing, id)
			continue
		}
		owned = append(owned, id)
	}

	result, err := s.contentRepo.DeleteContentItems(ctx, owned)
	if err != nil {
		return nil, err
	}
	result.Missing = append(result.Missing, missing...)
	return result, nil
}

func (s *contentService) publish(ctx context.Context, item *models.ContentItem, eventType models.GenerationEventType, errMsg string) {
	if s.publisher == nil {
		return
	}
	event := &models.GenerationEvent{
		ID:          uuid.New().String(),
		ContentID:   item.ID,
		UserID:      item.UserID,
		EventType:   eventType,
		Provider:    item.AIProvider,
		CreditsUsed: item.CreditsUsed,
		Error:       errMsg,
		Timestamp:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish generation event", "error", err, "content_id", item.ID)
	}
}
