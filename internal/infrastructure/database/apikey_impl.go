package database

import (
	"context"
	"fmt"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
)

type apiKeyRepository struct {
	db *PostgresDB
}

func NewAPIKeyRepository(db *PostgresDB) repositories.APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	query := `INSERT INTO api_keys (user_id, provider, key_hash, is_active)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx, query,
		key.UserID,
		key.Provider,
		key.KeyHash,
		key.IsActive,
	).Scan(&key.ID, &key.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

func (r *apiKeyRepository) GetAPIKeys(ctx context.Context, userID int64) ([]*models.APIKey, error) {
	keys := make([]*models.APIKey, 0)
	query := `SELECT id, user_id, provider, key_hash, is_active, created_at
              FROM api_keys WHERE user_id = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &keys, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

func (r *apiKeyRepository) DeleteAPIKey(ctx context.Context, id int64) error {
	query := `DELETE FROM api_keys WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrAPIKeyNotFound
	}
	return nil
}
