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

// Typed results per tool. The original stored these as untyped JSON; the
// schema is now explicit and versioned at the storage boundary.

type IntentMappingResult struct {
	Query       string   `json:"query"`
	Intent      string   `json:"intent"`
	Confidence  float64  `json:"confidence"`
	ContentGaps []string `json:"contentGaps"`
}

type CompetitorDNAResult struct {
	URL              string   `json:"url"`
	WordPatterns     []string `json:"wordPatterns"`
	SemanticClusters []string `json:"semanticClusters"`
	ContentDepth     float64  `json:"contentDepth"`
	Structure        []string `json:"structure"`
}

type VoiceSearchResult struct {
	OriginalKeyword          string   `json:"originalKeyword"`
	ConversationalVariants   []string `json:"conversationalVariants"`
	FeaturedSnippetPotential float64  `json:"featuredSnippetPotential"`
	VoiceOptimizedContent    string   `json:"voiceOptimizedContent"`
}

type SERPFeatureResult struct {
	Keyword         string   `json:"keyword"`
	FeaturedSnippet float64  `json:"featuredSnippet"`
	PeopleAlsoAsk   float64  `json:"peopleAlsoAsk"`
	ImageResults    float64  `json:"imageResults"`
	VideoResults    float64  `json:"videoResults"`
	LocalResults    float64  `json:"localResults"`
	Recommendations []string `json:"recommendations"`
}

type SemanticWebResult struct {
	PrimaryKeyword string `json:"primaryKeyword"`
	RelatedTerms   []struct {
		Term         string  `json:"term"`
		Relationship string  `json:"relationship"`
		Strength     float64 `json:"strength"`
	} `json:"relatedTerms"`
	TopicClusters []struct {
		Cluster   string   `json:"cluster"`
		Keywords  []string `json:"keywords"`
		Relevance float64  `json:"relevance"`
	} `json:"topicClusters"`
}

type CompetitorGapsResult struct {
	Gaps           []string `json:"gaps"`
	Opportunities  []string `json:"opportunities"`
	Strategies     []string `json:"strategies"`
	TrendingTopics []string `json:"trending_topics"`
}

type SerpOpportunitiesResult struct {
	Keywords []struct {
		Keyword                     string  `json:"keyword"`
		FeaturedSnippetOpportunity  float64 `json:"featured_snippet_opportunity"`
		ContentFormat               string  `json:"content_format"`
		UserIntent                  string  `json:"user_intent"`
		CompetitionLevel            string  `json:"competition_level"`
	} `json:"keywords"`
	PAAPatterns            []string `json:"paa_patterns"`
	ContentRecommendations []string `json:"content_recommendations"`
}

type EATOptimizationResult struct {
	ExpertiseScore        float64  `json:"expertise_score"`
	AuthorityScore        float64  `json:"authority_score"`
	TrustScore            float64  `json:"trust_score"`
	Recommendations       []string `json:"recommendations"`
	SourceSuggestions     []string `json:"source_suggestions"`
	StructureImprovements []string `json:"structure_improvements"`
}

type AISEOAuditResult struct {
	OverallScore        float64  `json:"overall_score"`
	AIReadinessScore    float64  `json:"ai_readiness_score"`
	Strengths           []string `json:"strengths"`
	Issues              []string `json:"issues"`
	PriorityFixes       []string `json:"priority_fixes"`
	SnippetOpportunity  float64  `json:"snippet_opportunity"`
}

type CRAFTOptimizationRequest struct {
	Content        string   `json:"content" binding:"required"`
	TargetKeywords []string `json:"target_keywords" binding:"required"`
	ContentType    string   `json:"content_type" binding:"required,oneof=blog landing product guide"`
	Audience       string   `json:"audience" binding:"required"`
}

type AIOptimizedContentRequest struct {
	Topic          string   `json:"topic" binding:"required"`
	TargetKeywords []string `json:"target_keywords" binding:"required"`
	ContentGoal    string   `json:"content_goal" binding:"required,oneof=rank_fast featured_snippet ai_overview voice_search"`
	WordCount      int      `json:"word_count" binding:"required"`
	Audience       string   `json:"audience" binding:"required"`
}

type SeoService interface {
	AnalyzeIntentMapping(ctx context.Context, userID int64, queries []string) ([]IntentMappingResult, error)
	AnalyzeCompetitorDNA(ctx context.Context, userID int64, url, content string) (*CompetitorDNAResult, error)
	OptimizeForVoiceSearch(ctx context.Context, userID int64, keywords []string) ([]VoiceSearchResult, error)
	PredictSERPFeatures(ctx context.Context, userID int64, keywords []string) ([]SERPFeatureResult, error)
	CreateSemanticKeywordWeb(ctx context.Context, userID int64, keyword string) (*SemanticWebResult, error)

	GenerateTrendingKeywords(ctx context.Context, userID int64, topic string) ([]string, error)
	AnalyzeCompetitorGaps(ctx context.Context, userID int64, domain, topic string) (*CompetitorGapsResult, error)
	FindSerpOpportunities(ctx context.Context, userID int64, keywords []string) (*SerpOpportunitiesResult, error)
	OptimizeForEAT(ctx context.Context, userID int64, content, topic string) (*EATOptimizationResult, error)

	ApplyCRAFTFramework(ctx context.Context, userID int64, req *CRAFTOptimizationRequest) (string, error)
	EnhanceEATForAI(ctx context.Context, userID int64, content, topic string) (*EATOptimizationResult, error)
	GenerateAIOptimizedContent(ctx context.Context, userID int64, req *AIOptimizedContentRequest) (string, error)
	PerformAISEOAudit(ctx context.Context, userID int64, url, content string) (*AISEOAuditResult, error)

	GetSeoAnalyses(ctx context.Context, userID int64) ([]*models.SeoAnalysis, error)
}

type seoService struct {
	seoRepo     repositories.SeoAnalysisRepository
	contentRepo repositories.ContentRepository
	ai          *providers.Manager
	logger      *slog.Logger
}

func NewSeoService(seoRepo repositories.SeoAnalysisRepository, contentRepo repositories.ContentRepository, ai *providers.Manager, logger *slog.Logger) SeoService {
	return &seoService{
		seoRepo:     seoRepo,
		contentRepo: contentRepo,
		ai:          ai,
		logger:      logger,
	}
}

func (s *seoService) AnalyzeIntentMapping(ctx context.Context, userID int64, queries []string) ([]IntentMappingResult, error) {
	prompt := fmt.Sprintf(`Analyze these search queries and determine user intent stages (awareness, consideration, decision).
For each query, provide intent classification, confidence score (0-1), and identify content gaps.
Queries: %s

Return as JSON: {"results": [{"query": "string", "intent": "awareness|consideration|decision", "confidence": number, "contentGaps": ["string"]}]}`, strings.Join(queries, ", "))

	var out struct {
		Results []IntentMappingResult `json:"results"`
	}
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are an expert SEO analyst specializing in search intent analysis.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze intent mapping: %w", err)
	}

	s.record(ctx, userID, models.ToolIntentMapping, map[string]any{"queries": queries}, out.Results)
	return out.Results, nil
}

func (s *seoService) AnalyzeCompetitorDNA(ctx context.Context, userID int64, url, content string) (*CompetitorDNAResult, error) {
	prompt := fmt.Sprintf(`Analyze this competitor content and reverse-engineer its structure:
URL: %s
Content snippet: %s

Extract word patterns, semantic clusters, content depth, and structural elements.
Return as JSON: {"url": "string", "wordPatterns": ["string"], "semanticClusters": ["string"], "contentDepth": number, "structure": ["string"]}`, url, snippet(content, 1000))

	var out CompetitorDNAResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are an expert content analyst specializing in competitive analysis.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze competitor DNA: %w", err)
	}

	s.record(ctx, userID, models.ToolCompetitorDNA, map[string]any{"url": url, "content": content}, out)
	return &out, nil
}

func (s *seoService) OptimizeForVoiceSearch(ctx context.Context, userID int64, keywords []string) ([]VoiceSearchResult, error) {
	prompt := fmt.Sprintf(`Optimize these keywords for voice search: %s
For each keyword provide conversational variants, featured snippet potential (0-1), and a voice-optimized content example.
Return as JSON: {"results": [{"originalKeyword": "string", "conversationalVariants": ["string"], "featuredSnippetPotential": number, "voiceOptimizedContent": "string"}]}`, strings.Join(keywords, ", "))

	var out struct {
		Results []VoiceSearchResult `json:"results"`
	}
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are a voice search optimization expert.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize for voice search: %w", err)
	}

	s.record(ctx, userID, models.ToolVoiceSearch, map[string]any{"keywords": keywords}, out.Results)
	return out.Results, nil
}

func (s *seoService) PredictSERPFeatures(ctx context.Context, userID int64, keywords []string) ([]SERPFeatureResult, error) {
	prompt := fmt.Sprintf(`Predict SERP feature likelihood for these keywords: %s
Score each feature 0-1 and include actionable recommendations.
Return as JSON: {"results": [{"keyword": "string", "featuredSnippet": number, "peopleAlsoAsk": number, "imageResults": number, "videoResults": number, "localResults": number, "recommendations": ["string"]}]}`, strings.Join(keywords, ", "))

	var out struct {
		Results []SERPFeatureResult `json:"results"`
	}
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are a SERP feature prediction expert.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to predict SERP features: %w", err)
	}

	s.record(ctx, userID, models.ToolSERPFeatures, map[string]any{"keywords": keywords}, out.Results)
	return out.Results, nil
}

func (s *seoService) CreateSemanticKeywordWeb(ctx context.Context, userID int64, keyword string) (*SemanticWebResult, error) {
	prompt := fmt.Sprintf(`Build a semantic keyword web for "%s". Map related terms with relationship types and strength scores, and group keywords into topic clusters with relevance scores.
Return as JSON: {"primaryKeyword": "string", "relatedTerms": [{"term": "string", "relationship": "string", "strength": number}], "topicClusters": [{"cluster": "string", "keywords": ["string"], "relevance": number}]}`, keyword)

	var out SemanticWebResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderOpenAI), providers.ChatRequest{
		System: "You are a semantic SEO expert.",
		Prompt: prompt,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to create semantic keyword web: %w", err)
	}

	s.record(ctx, userID, models.ToolSemanticWeb, map[string]any{"keyword": keyword}, out)
	return &out, nil
}

func (s *seoService) GenerateTrendingKeywords(ctx context.Context, userID int64, topic string) ([]string, error) {
	tmpl := providers.NewPromptTemplates()

	var out struct {
		Keywords []string `json:"keywords"`
	}
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are an SEO expert with access to real-time search data. Provide trending keywords based on current search patterns and user behavior.",
		Prompt:      tmpl.BuildTrendingKeywordsPrompt(topic),
		Temperature: 0.3,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to generate trending keywords: %w", err)
	}

	s.record(ctx, userID, models.ToolTrendingKeywords, map[string]any{"topic": topic}, map[string]any{"keywords": out.Keywords})
	return out.Keywords, nil
}

func (s *seoService) AnalyzeCompetitorGaps(ctx context.Context, userID int64, domain, topic string) (*CompetitorGapsResult, error) {
	prompt := fmt.Sprintf(`Analyze the content strategy for domain "%s" related to "%s". Identify content gaps, missed opportunities, and strategic recommendations. Return as JSON with: {"gaps": ["string"], "opportunities": ["string"], "strategies": ["string"], "trending_topics": ["string"]}`, domain, topic)

	var out CompetitorGapsResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are a competitive intelligence analyst with access to real-time web data. Analyze competitor content gaps and opportunities.",
		Prompt:      prompt,
		Temperature: 0.4,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze competitor gaps: %w", err)
	}

	s.record(ctx, userID, models.ToolCompetitorGaps, map[string]any{"domain": domain, "topic": topic}, out)
	return &out, nil
}

func (s *seoService) FindSerpOpportunities(ctx context.Context, userID int64, keywords []string) (*SerpOpportunitiesResult, error) {
	prompt := fmt.Sprintf(`Analyze current SERP features and opportunities for these keywords: %s. Identify featured snippet opportunities, People Also Ask patterns, and content format recommendations based on current search results. Return as JSON with: {"keywords": [{"keyword": "string", "featured_snippet_opportunity": number, "content_format": "string", "user_intent": "string", "competition_level": "low|medium|high"}], "paa_patterns": ["string"], "content_recommendations": ["string"]}`, strings.Join(keywords, ", "))

	var out SerpOpportunitiesResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are a SERP analysis expert with access to real-time search results data.",
		Prompt:      prompt,
		Temperature: 0.3,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to find SERP opportunities: %w", err)
	}

	s.record(ctx, userID, models.ToolSerpOpportunities, map[string]any{"keywords": keywords}, out)
	return &out, nil
}

func (s *seoService) OptimizeForEAT(ctx context.Context, userID int64, content, topic string) (*EATOptimizationResult, error) {
	prompt := fmt.Sprintf(`Analyze this content about "%s" for E-A-T optimization: "%s". Provide specific recommendations to improve expertise signals, authority indicators, and trust factors. Include source suggestions and content structure improvements. Return as JSON with: {"expertise_score": number, "authority_score": number, "trust_score": number, "recommendations": ["string"], "source_suggestions": ["string"], "structure_improvements": ["string"]}`, topic, snippet(content, 1000))

	var out EATOptimizationResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are an E-A-T optimization expert who helps improve content's Expertise, Authoritativeness, and Trustworthiness for better search rankings.",
		Prompt:      prompt,
		Temperature: 0.4,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize for E-A-T: %w", err)
	}

	s.record(ctx, userID, models.ToolEATOptimization, map[string]any{"content": content, "topic": topic}, out)
	return &out, nil
}

func (s *seoService) ApplyCRAFTFramework(ctx context.Context, userID int64, req *CRAFTOptimizationRequest) (string, error) {
	system := fmt.Sprintf(`You are a content optimization expert applying the CRAFT framework:
- Cut the fluff: remove filler words and redundancy
- Review and optimize: improve structure and flow
- Add visuals and media suggestions
- Fact-check: flag claims that need sources
- Trust-build: strengthen credibility signals

Content Type: %s
Target Keywords: %s
Audience: %s

Rewrite the content applying every CRAFT step. Return only the optimized content.`, req.ContentType, strings.Join(req.TargetKeywords, ", "), req.Audience)

	optimized, err := s.ai.Complete(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      system,
		Prompt:      req.Content,
		Temperature: 0.3,
		MaxTokens:   3000,
	})
	if err != nil {
		return "", fmt.Errorf("CRAFT optimization failed: %w", err)
	}

	s.record(ctx, userID, models.ToolCraftOptimization, req, map[string]any{"optimizedContent": optimized})
	return optimized, nil
}

func (s *seoService) EnhanceEATForAI(ctx context.Context, userID int64, content, topic string) (*EATOptimizationResult, error) {
	system := `You are an E-E-A-T specialist optimizing content for AI search engines and answer generators. Score the content and return JSON: {"expertise_score": number, "authority_score": number, "trust_score": number, "recommendations": ["string"], "source_suggestions": ["string"], "structure_improvements": ["string"]}`

	var out EATOptimizationResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      system,
		Prompt:      fmt.Sprintf(`Analyze this content about "%s": %s`, topic, snippet(content, 2000)),
		Temperature: 0.3,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("E-A-T analysis failed: %w", err)
	}

	s.record(ctx, userID, models.ToolEATEnhancement, map[string]any{"content": content, "topic": topic}, out)
	return &out, nil
}

// GenerateAIOptimizedContent produces a full article tuned for a specific
// ranking goal and files it as a draft content item, mirroring the
// content-writer-pro flow.
func (s *seoService) GenerateAIOptimizedContent(ctx context.Context, userID int64, req *AIOptimizedContentRequest) (string, error) {
	goalHint := map[string]string{
		"rank_fast":        "Structure for quick indexing: clear H2/H3 hierarchy, direct answers in the first paragraph.",
		"featured_snippet": "Lead with a 40-55 word definition paragraph that can be lifted as a featured snippet.",
		"ai_overview":      "Write declarative, citable statements that AI overview generators can quote directly.",
		"voice_search":     "Use conversational question-and-answer phrasing matching spoken queries.",
	}[req.ContentGoal]

	system := fmt.Sprintf(`You are an AI-first SEO content writer. %s

TARGET: %s
KEYWORDS: %s
AUDIENCE: %s
LENGTH: %d words

Write the complete article. Return only the content.`, goalHint, req.Topic, strings.Join(req.TargetKeywords, ", "), req.Audience, req.WordCount)

	content, err := s.ai.Complete(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      system,
		Prompt:      fmt.Sprintf("Write the article about %q now.", req.Topic),
		Temperature: 0.5,
		MaxTokens:   4000,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate optimized content: %w", err)
	}

	item := &models.ContentItem{
		UserID:      userID,
		Title:       "AI-Optimized: " + req.Topic,
		ContentType: req.ContentGoal,
		AIProvider:  string(models.AIProviderPerplexity),
		Status:      models.ContentStatusDraft,
		Keywords:    req.TargetKeywords,
		NLPKeywords: []string{},
	}
	if err := s.contentRepo.CreateContentItem(ctx, item); err != nil {
		s.logger.Error("failed to file optimized content item", "error", err, "user_id", userID)
	}

	return content, nil
}

func (s *seoService) PerformAISEOAudit(ctx context.Context, userID int64, url, content string) (*AISEOAuditResult, error) {
	prompt := fmt.Sprintf(`Audit this page for AI-first SEO readiness.
URL: %s
Content: %s

Score overall quality and AI readiness (0-100), list strengths, issues, priority fixes, and featured snippet opportunity (0-1).
Return as JSON: {"overall_score": number, "ai_readiness_score": number, "strengths": ["string"], "issues": ["string"], "priority_fixes": ["string"], "snippet_opportunity": number}`, url, snippet(content, 2000))

	var out AISEOAuditResult
	err := s.ai.CompleteJSON(ctx, string(models.AIProviderPerplexity), providers.ChatRequest{
		System:      "You are an AI SEO auditor analyzing content for modern search and answer engines.",
		Prompt:      prompt,
		Temperature: 0.3,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("AI SEO audit failed: %w", err)
	}

	s.record(ctx, userID, models.ToolAISEOAudit, map[string]any{"url": url, "content": content}, out)
	return &out, nil
}

func (s *seoService) GetSeoAnalyses(ctx context.Context, userID int64) ([]*models.SeoAnalysis, error) {
	return s.seoRepo.GetSeoAnalyses(ctx, userID)
}

// record persists the tool run. A storage failure is logged, not returned:
// the analysis already succeeded for the caller.
func (s *seoService) record(ctx context.Context, userID int64, tool models.SeoToolType, input, results any) {
	inputPayload, err := models.NewPayload(input)
	if err != nil {
		s.logger.Error("failed to encode analysis input", "error", err, "tool", string(tool))
		return
	}
	resultPayload, err := models.NewPayload(results)
	if err != nil {
		s.logger.Error("failed to encode analysis results", "error", err, "tool", string(tool))
		return
	}

	inputJSON, _ := json.Marshal(inputPayload)
	resultJSON, _ := json.Marshal(resultPayload)

	analysis := &models.SeoAnalysis{
		UserID:    userID,
		ToolType:  tool,
		InputData: inputJSON,
		Results:   resultJSON,
	}
	if err := s.seoRepo.CreateSeoAnalysis(ctx, analysis); err != nil {
		s.logger.Error("failed to store seo analysis", "error", err, "tool", string(tool), "user_id", userID)
	}
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
