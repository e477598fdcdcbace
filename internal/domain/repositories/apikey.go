package repositories

import (
	"context"

	"contentscale/internal/domain/models"
)

type APIKeyRepository interface {
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	GetAPIKeys(ctx context.Context, userID int64) ([]*models.APIKey, error)
	DeleteAPIKey(ctx context.Context, id int64) error
}
