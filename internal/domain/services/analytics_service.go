package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
	"contentscale/internal/providers"
)

type UserJourneyResult struct {
	Stages []struct {
		Stage          string   `json:"stage"`
		TouchPoints    []string `json:"touchPoints"`
		ContentNeeds   []string `json:"contentNeeds"`
		ConversionRate float64  `json:"conversionRate"`
	} `json:"stages"`
	DropOffPoints   []string `json:"dropOffPoints"`
	Recommendations []string `json:"recommendations"`
}

type ContentPerformancePrediction struct {
	PredictedViews      int64    `json:"predictedViews"`
	PredictedEngagement float64  `json:"predictedEngagement"`
	PredictedShares     int64    `json:"predictedShares"`
	ConfidenceScore     float64  `json:"confidenceScore"`
	OptimizationTips    []string `json:"optimizationTips"`
}

type RevenueAttributionResult struct {
	ContentPieces []struct {
		Title             string  `json:"title"`
		AttributedRevenue float64 `json:"attributedRevenue"`
		ConversionRate    float64 `json:"conversionRate"`
		TouchPoints       int64   `json:"touchPoints"`
	} `json:"contentPieces"`
	TotalAttributed float64  `json:"totalAttributed"`
	TopPerformers   []string `json:"topPerformers"`
}

type CompetitorTrafficEstimate struct {
	Domain         string   `json:"domain"`
	EstimatedVisits int64   `json:"estimatedVisits"`
	TopPages       []string `json:"topPages"`
	TrafficSources []struct {
		Source     string  `json:"source"`
		Percentage float64 `json:"percentage"`
	} `json:"trafficSources"`
	GrowthTrend string `json:"growthTrend"`
}

type SocialSentimentCorrelation struct {
	OverallSentiment float64 `json:"overallSentiment"`
	Platforms        []struct {
		Platform   string  `json:"platform"`
		Sentiment  float64 `json:"sentiment"`
		Volume     int64   `json:"volume"`
		TrendShift string  `json:"trendShift"`
	} `json:"platforms"`
	SeoCorrelation float64  `json:"seoCorrelation"`
	ActionItems    []string `json:"actionItems"`
}

type TrendingTopicsResult struct {
	TrendingTopics []struct {
		Topic            string  `json:"topic"`
		Velocity         string  `json:"velocity"`
		AudienceInterest float64 `json:"audience_interest"`
		ContentAngle     string  `json:"content_angle"`
	} `json:"trending_topics"`
	EmergingKeywords     []string `json:"emerging_keywords"`
	ContentOpportunities []string `json:"content_opportunities"`
}

type AnalyticsService interface {
	AnalyzeUserJourney(ctx context.Context, userID int64, contentTopics []string) (*UserJourneyResult, error)
	PredictContentPerformance(ctx context.Context, userID int64, title, contentType string, keywords []string) (*ContentPerformancePrediction, error)
	AttributeRevenue(ctx context.Context, userID int64, contentTitles []string, totalRevenue float64) (*RevenueAttributionResult, error)
	EstimateCompetitorTraffic(ctx context.Context, userID int64, domain string) (*CompetitorTrafficEstimate, error)
	CorrelateSocialSentiment(ctx context.Context, userID int64, brand, topic string) (*SocialSentimentCorrelation, error)
	DiscoverTrendingTopics(ctx context.Context, userID int64, industry string) (*TrendingTopicsResult, error)

	GetAnalyticsRecords(ctx context.Context, userID int64) ([]*models.AnalyticsRecord, error)
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	ai            *providers.Manager
	logger        *slog.Logger
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository, ai *providers.Manager, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		ai:            ai,
		logger:        logger,
	}
}

func (s *analyticsService) AnalyzeUserJourney(ctx context.Context, userID int64, contentTopics []string) (*UserJourneyResult, error) {
	prompt := fmt.Sprintf(`Map the user journey for content covering these topics: %s.
Break it into stages (awareness, consideration, decision, retention) with touch points, content needs per stage, and estimated conversion rates. Identify drop-off points and give recommendations.
Return as JSON: {"stages": [{"stage": "string", "touchPoints": ["string"], "contentNeeds": ["string"], "conversionRate": number}], "dropOffPoints": ["string"], "recommendations": ["string"]}`, strings.Join(contentTopics, ", "))

	var out UserJourneyResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are a customer journey analytics expert.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze user journey: %w", err)
	}

	s.record(ctx, userID, models.ToolUserJourney, map[string]any{"contentTopics": contentTopics}, out)
	return &out, nil
}

func (s *analyticsService) PredictContentPerformance(ctx context.Context, userID int64, title, contentType string, keywords []string) (*ContentPerformancePrediction, error) {
	prompt := fmt.Sprintf(`Predict performance for a %s titled "%s" targeting keywords: %s.
Estimate views, engagement rate, shares, and a confidence score, plus optimization tips.
Return as JSON: {"predictedViews": number, "predictedEngagement": number, "predictedShares": number, "confidenceScore": number, "optimizationTips": ["string"]}`, contentType, title, strings.Join(keywords, ", "))

	var out ContentPerformancePrediction
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are a content performance analyst.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to predict content performance: %w", err)
	}

	s.record(ctx, userID, models.ToolContentPerformance, map[string]any{"title": title, "contentType": contentType, "keywords": keywords}, out)
	return &out, nil
}

func (s *analyticsService) AttributeRevenue(ctx context.Context, userID int64, contentTitles []string, totalRevenue float64) (*RevenueAttributionResult, error) {
	prompt := fmt.Sprintf(`Attribute $%.2f of revenue across these content pieces: %s.
Use a multi-touch attribution model: estimate each piece's attributed revenue, conversion rate, and touch points, and name the top performers.
Return as JSON: {"contentPieces": [{"title": "string", "attributedRevenue": number, "conversionRate": number, "touchPoints": number}], "totalAttributed": number, "topPerformers": ["string"]}`, totalRevenue, strings.Join(contentTitles, "; "))

	var out RevenueAttributionResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are a marketing attribution analyst.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to attribute revenue: %w", err)
	}

	s.record(ctx, userID, models.ToolRevenueAttribution, map[string]any{"contentTitles": contentTitles, "totalRevenue": totalRevenue}, out)
	return &out, nil
}

func (s *analyticsService) EstimateCompetitorTraffic(ctx context.Context, userID int64, domain string) (*CompetitorTrafficEstimate, error) {
	prompt := fmt.Sprintf(`Estimate traffic for the domain "%s" based on its current web presence. Include monthly visit estimate, top pages, traffic source breakdown, and growth trend.
Return as JSON: {"domain": "string", "estimatedVisits": number, "topPages": ["string"], "trafficSources": [{"source": "string", "percentage": number}], "growthTrend": "growing|stable|declining"}`, domain)

	var out CompetitorTrafficEstimate
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are a web traffic analyst with access to real-time web data.",
		Prompt:      prompt,
		Temperature: 0.3,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate competitor traffic: %w", err)
	}

	s.record(ctx, userID, models.ToolCompetitorTraffic, map[string]any{"domain": domain}, out)
	return &out, nil
}

func (s *analyticsService) CorrelateSocialSentiment(ctx context.Context, userID int64, brand, topic string) (*SocialSentimentCorrelation, error) {
	prompt := fmt.Sprintf(`Analyze current social media sentiment for brand "%s" around topic "%s". Score overall sentiment (-1 to 1), break down per platform with volume and trend shift, estimate correlation with SEO performance, and list action items.
Return as JSON: {"overallSentiment": number, "platforms": [{"platform": "string", "sentiment": number, "volume": number, "trendShift": "string"}], "seoCorrelation": number, "actionItems": ["string"]}`, brand, topic)

	var out SocialSentimentCorrelation
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are a social listening analyst with access to real-time social data.",
		Prompt:      prompt,
		Temperature: 0.4,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to correlate social sentiment: %w", err)
	}

	s.record(ctx, userID, models.ToolSocialSentiment, map[string]any{"brand": brand, "topic": topic}, out)
	return &out, nil
}

func (s *analyticsService) DiscoverTrendingTopics(ctx context.Context, userID int64, industry string) (*TrendingTopicsResult, error) {
	prompt := fmt.Sprintf(`Identify current trending topics and viral content opportunities in the "%s" industry. Include trend velocity, audience interest metrics, and content angle suggestions. Return as JSON with: {"trending_topics": [{"topic": "string", "velocity": "rising|peak|declining", "audience_interest": number, "content_angle": "string"}], "emerging_keywords": ["string"], "content_opportunities": ["string"]}`, industry)

	var out TrendingTopicsResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are a trend analyst with access to real-time social media and search data.",
		Prompt:      prompt,
		Temperature: 0.5,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to discover trending topics: %w", err)
	}

	s.record(ctx, userID, models.ToolTrendingTopics, map[string]any{"industry": industry}, out)
	return &out, nil
}

func (s *analyticsService) GetAnalyticsRecords(ctx context.Context, userID int64) ([]*models.AnalyticsRecord, error) {
	return s.analyticsRepo.GetAnalyticsRecords(ctx, userID)
}

func (s *analyticsService) record(ctx context.Context, userID int64, tool models.AnalyticsToolType, input, insights any) {
	dataPayload, err := models.NewPayload(input)
	if err != nil {
		s.logger.Error("failed to encode analytics input", "error", err, "tool", string(tool))
		return
	}
	insightsPayload, err := models.NewPayload(insights)
	if err != nil {
		s.logger.Error("failed to encode analytics insights", "error", err, "tool", string(tool))
		return
	}

	dataJSON, _ := json.Marshal(dataPayload)
	insightsJSON, _ := json.Marshal(insightsPayload)

	rec := &models.AnalyticsRecord{
		UserID:   userID,
		ToolType: tool,
		Data:     dataJSON,
		Insights: insightsJSON,
	}
	if err := s.analyticsRepo.CreateAnalyticsRecord(ctx, rec); err != nil {
		s.logger.Error("failed to store analytics record", "error", err, "tool", string(tool), "user_id", userID)
	}
}
