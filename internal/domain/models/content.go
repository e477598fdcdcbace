package models

import (
	"time"

	"github.com/lib/pq"
)

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusCompleted ContentStatus = "completed"
	ContentStatusFailed    ContentStatus = "failed"
)

type ContentItem struct {
	ID          int64          `json:"id" db:"id"`
	UserID      int64          `json:"user_id" db:"user_id"`
	Title       string         `json:"title" db:"title"`
	Content     *string        `json:"content" db:"content"`
	Keywords    pq.StringArray `json:"keywords" db:"keywords"`
	NLPKeywords pq.StringArray `json:"nlp_keywords" db:"nlp_keywords"`
	Outline     *string        `json:"outline" db:"outline"`
	ContentType string         `json:"content_type" db:"content_type"`
	AIProvider  string         `json:"ai_provider" db:"ai_provider"`
	Status      ContentStatus  `json:"status" db:"status"`
	CreditsUsed int64          `json:"credits_used" db:"credits_used"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// BulkDeleteResult reports the outcome per id. Partial success is reported
// rather than rolled back.
type BulkDeleteResult struct {
	Deleted []int64 `json:"deleted"`
	Missing []int64 `json:"missing"`
}
