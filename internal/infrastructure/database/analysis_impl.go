package database

import (
	"context"
	"fmt"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
)

type seoAnalysisRepository struct {
	db *PostgresDB
}

func NewSeoAnalysisRepository(db *PostgresDB) repositories.SeoAnalysisRepository {
	return &seoAnalysisRepository{db: db}
}

func (r *seoAnalysisRepository) CreateSeoAnalysis(ctx context.Context, analysis *models.SeoAnalysis) error {
	query := `INSERT INTO seo_analyses (user_id, tool_type, input_data, results)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx, query,
		analysis.UserID,
		analysis.ToolType,
		analysis.InputData,
		analysis.Results,
	).Scan(&analysis.ID, &analysis.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create seo analysis: %w", err)
	}
	return nil
}

func (r *seoAnalysisRepository) GetSeoAnalyses(ctx context.Context, userID int64) ([]*models.SeoAnalysis, error) {
	analyses := make([]*models.SeoAnalysis, 0)
	query := `SELECT id, user_id, tool_type, input_data, results, created_at
              FROM seo_analyses WHERE user_id = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &analyses, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list seo analyses: %w", err)
	}
	return analyses, nil
}

type analyticsRepository struct {
	db *PostgresDB
}

func NewAnalyticsRepository(db *PostgresDB) repositories.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CreateAnalyticsRecord(ctx context.Context, record *models.AnalyticsRecord) error {
	query := `INSERT INTO analytics_data (user_id, tool_type, data, insights)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx, query,
		record.UserID,
		record.ToolType,
		record.Data,
		record.Insights,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create analytics record: %w", err)
	}
	return nil
}

func (r *analyticsRepository) GetAnalyticsRecords(ctx context.Context, userID int64) ([]*models.AnalyticsRecord, error) {
	records := make([]*models.AnalyticsRecord, 0)
	query := `SELECT id, user_id, tool_type, data, insights, created_at
              FROM analytics_data WHERE user_id = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list analytics records: %w", err)
	}
	return records, nil
}
