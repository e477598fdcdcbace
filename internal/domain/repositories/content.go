package repositories

import (
	"context"

	"contentscale/internal/domain/models"
)

type ContentRepository interface {
	CreateContentItem(ctx context.Context, item *models.ContentItem) error

	GetContentItem(ctx context.Context, id int64) (*models.ContentItem, error)
	GetContentItems(ctx context.Context, userID int64) ([]*models.ContentItem, error)

	UpdateContentItem(ctx context.Context, item *models.ContentItem) error

	DeleteContentItem(ctx context.Context, id int64) error
	DeleteContentItems(ctx context.Context, ids []int64) (*models.BulkDeleteResult, error)
}
