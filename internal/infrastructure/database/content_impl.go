package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
)

type contentRepository struct {
	db *PostgresDB
}

func NewContentRepository(db *PostgresDB) repositories.ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreateContentItem(ctx context.Context, item *models.ContentItem) error {
	query := `INSERT INTO content_items (user_id, title, content, keywords, nlp_keywords, outline, content_type, ai_provider, status, credits_used)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx, query,
		item.UserID,
		item.Title,
		item.Content,
		item.Keywords,
		item.NLPKeywords,
		item.Outline,
		item.ContentType,
		item.AIProvider,
		item.Status,
		item.CreditsUsed,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create content item: %w", err)
	}
	return nil
}

func (r *contentRepository) GetContentItem(ctx context.Context, id int64) (*models.ContentItem, error) {
	var item models.ContentItem
	query := `SELECT id, user_id, title, content, keywords, nlp_keywords, outline, content_type, ai_provider, status, credits_used, created_at
              FROM content_items WHERE id = $1`

	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content item: %w", err)
	}
	return &item, nil
}

func (r *contentRepository) GetContentItems(ctx context.Context, userID int64) ([]*models.ContentItem, error) {
	items := make([]*models.ContentItem, 0)
	query := `SELECT id, user_id, title, content, keywords, nlp_keywords, outline, content_type, ai_provider, status, credits_used, created_at
              FROM content_items WHERE user_id = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list content items: %w", err)
	}
	return items, nil
}

func (r *contentRepository) UpdateContentItem(ctx context.Context, item *models.ContentItem) error {
	query := `UPDATE content_items SET title = $2, content = $3, keywords = $4, nlp_keywords = $5,
              outline = $6, status = $7, credits_used = $8
              WHERE id = $1`

	result, err := r.db.ExecContext(
		ctx, query,
		item.ID,
		item.Title,
		item.Content,
		item.Keywords,
		item.NLPKeywords,
		item.Outline,
		item.Status,
		item.CreditsUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to update content item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrContentNotFound
	}
	return nil
}

func (r *contentRepository) DeleteContentItem(ctx context.Context, id int64) error {
	query := `DELETE FROM content_items WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete content item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrContentNotFound
	}
	return nil
}

// DeleteContentItems deletes every id it can find and reports the rest as
// missing. One unknown id does not fail the batch.
func (r *contentRepository) DeleteContentItems(ctx context.Context, ids []int64) (*models.BulkDeleteResult, error) {
	result := &models.BulkDeleteResult{
		Deleted: make([]int64, 0, len(ids)),
		Missing: make([]int64, 0),
	}
	if len(ids) == 0 {
		return result, nil
	}

	deleted := make([]int64, 0, len(ids))
	query := `DELETE FROM content_items WHERE id = ANY($1) RETURNING id`
	if err := r.db.SelectContext(ctx, &deleted, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to delete content items: %w", err)
	}

	found := make(map[int64]bool, len(deleted))
	for _, id := range deleted {
		found[id] = true
	}
	for _, id := range ids {
		if found[id] {
			result.Deleted = append(result.Deleted, id)
		} else {
			result.Missing = append(result.Missing, id)
		}
	}
	return result, nil
}
