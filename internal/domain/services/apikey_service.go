package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
)

// APIKeyService stores user-provided provider keys. Keys are hashed before
// storage; linking and unlinking flow through the ledger so entitlement
// pricing follows key state.
type APIKeyService interface {
	AddKey(ctx context.Context, userID int64, provider, rawKey string) (*models.APIKey, error)
	ListKeys(ctx context.Context, userID int64) ([]*models.APIKey, error)
	DeleteKey(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	keyRepo repositories.APIKeyRepository
	ledger  LedgerService
	logger  *slog.Logger
}

func NewAPIKeyService(keyRepo repositories.APIKeyRepository, ledger LedgerService, logger *slog.Logger) APIKeyService {
	return &apiKeyService{
		keyRepo: keyRepo,
		ledger:  ledger,
		logger:  logger,
	}
}

func hashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func validProvider(provider string) bool {
	switch models.AIProvider(provider) {
	case models.AIProviderOpenAI, models.AIProviderPerplexity:
		return true
	}
	return false
}

func (s *apiKeyService) AddKey(ctx context.Context, userID int64, provider, rawKey string) (*models.APIKey, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !validProvider(provider) {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if strings.TrimSpace(rawKey) == "" {
		return nil, fmt.Errorf("api key must not be empty")
	}

	key := &models.APIKey{
		UserID:   userID,
		Provider: provider,
		KeyHash:  hashKey(rawKey),
		IsActive: true,
	}
	if err := s.keyRepo.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}

	if err := s.ledger.LinkProvider(ctx, userID, provider); err != nil {
		return nil, err
	}

	s.logger.Info("api key linked", "user_id", userID, "provider", provider)
	return key, nil
}

func (s *apiKeyService) ListKeys(ctx context.Context, userID int64) ([]*models.APIKey, error) {
	return s.keyRepo.GetAPIKeys(ctx, userID)
}

// DeleteKey removes the key and, when no active keys remain, unlinks the
// provider so the user goes back to platform pricing.
func (s *apiKeyService) DeleteKey(ctx context.Context, userID, keyID int64) error {
	keys, err := s.keyRepo.GetAPIKeys(ctx, userID)
	if err != nil {
		return err
	}

	var target *models.APIKey
	for _, k := range keys {
		if k.ID == keyID {
			target = k
			break
		}
	}
	if target == nil {
		return models.ErrAPIKeyNotFound
	}

	if err := s.keyRepo.DeleteAPIKey(ctx, keyID); err != nil {
		return err
	}

	remaining := 0
	var lastProvider string
	for _, k := range keys {
		if k.ID != keyID && k.IsActive {
			remaining++
			lastProvider = k.Provider
		}
	}
	if remaining == 0 {
		if err := s.ledger.UnlinkProvider(ctx, userID); err != nil {
			return err
		}
	} else {
		// keep the entitlement pointed at a provider the user still has
		if err := s.ledger.LinkProvider(ctx, userID, lastProvider); err != nil {
			return err
		}
	}

	s.logger.Info("api key removed", "user_id", userID, "key_id", keyID)
	return nil
}
