package models

import "time"

type GenerationEventType string

const (
	EventGenerationStarted   GenerationEventType = "generation_started"
	EventGenerationCompleted GenerationEventType = "generation_completed"
	EventGenerationFailed    GenerationEventType = "generation_failed"
)

// GenerationEvent is published to Redis while an article is being generated
// and relayed to the owning user over WebSocket.
type GenerationEvent struct {
	ID          string              `json:"id"`
	ContentID   int64               `json:"content_id"`
	UserID      int64               `json:"user_id"`
	EventType   GenerationEventType `json:"event_type"`
	Provider    string              `json:"provider"`
	CreditsUsed int64               `json:"credits_used,omitempty"`
	Error       string              `json:"error,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
	Sequence    int64               `json:"sequence"`
}
