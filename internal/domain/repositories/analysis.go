package repositories

import (
	"context"

	"contentscale/internal/domain/models"
)

type SeoAnalysisRepository interface {
	CreateSeoAnalysis(ctx context.Context, analysis *models.SeoAnalysis) error
	GetSeoAnalyses(ctx context.Context, userID int64) ([]*models.SeoAnalysis, error)
}

type AnalyticsRepository interface {
	CreateAnalyticsRecord(ctx context.Context, record *models.AnalyticsRecord) error
	GetAnalyticsRecords(ctx context.Context, userID int64) ([]*models.AnalyticsRecord, error)
}
