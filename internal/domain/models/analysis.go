package models

import (
	"encoding/json"
	"time"
)

// PayloadSchemaVersion tags every stored analysis blob so later readers can
// tell which shape they are looking at.
const PayloadSchemaVersion = 1

// Payload is an opaque, versioned JSON blob for tool inputs and results.
type Payload struct {
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

func NewPayload(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Payload{}, err
	}
	return Payload{SchemaVersion: PayloadSchemaVersion, Data: raw}, nil
}

type SeoToolType string

const (
	ToolIntentMapping     SeoToolType = "intent-mapping"
	ToolCompetitorDNA     SeoToolType = "competitor-dna"
	ToolVoiceSearch       SeoToolType = "voice-search"
	ToolSERPFeatures      SeoToolType = "serp-features"
	ToolSemanticWeb       SeoToolType = "semantic-web"
	ToolTrendingKeywords  SeoToolType = "trending-keywords"
	ToolCompetitorGaps    SeoToolType = "competitor-gaps"
	ToolSerpOpportunities SeoToolType = "serp-opportunities"
	ToolEATOptimization   SeoToolType = "eat-optimization"
	ToolCraftOptimization SeoToolType = "craft-optimization"
	ToolEATEnhancement    SeoToolType = "eat-enhancement"
	ToolAISEOAudit        SeoToolType = "ai-seo-audit"
)

// SeoAnalysis is a write-once record of one SEO tool run.
type SeoAnalysis struct {
	ID        int64       `json:"id" db:"id"`
	UserID    int64       `json:"user_id" db:"user_id"`
	ToolType  SeoToolType `json:"tool_type" db:"tool_type"`
	InputData []byte      `json:"input_data" db:"input_data"`
	Results   []byte      `json:"results" db:"results"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

type AnalyticsToolType string

const (
	ToolUserJourney        AnalyticsToolType = "user-journey"
	ToolContentPerformance AnalyticsToolType = "content-performance"
	ToolRevenueAttribution AnalyticsToolType = "revenue-attribution"
	ToolCompetitorTraffic  AnalyticsToolType = "competitor-traffic"
	ToolSocialSentiment    AnalyticsToolType = "social-sentiment"
	ToolTrendingTopics     AnalyticsToolType = "trending-topics"
)

// AnalyticsRecord is a write-once record of one analytics tool run.
type AnalyticsRecord struct {
	ID        int64             `json:"id" db:"id"`
	UserID    int64             `json:"user_id" db:"user_id"`
	ToolType  AnalyticsToolType `json:"tool_type" db:"tool_type"`
	Data      []byte            `json:"data" db:"data"`
	Insights  []byte            `json:"insights" db:"insights"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
