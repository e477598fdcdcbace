package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contentscale/internal/domain/services"
	"contentscale/internal/interfaces/http/middleware"
)

type SeoHandler struct {
	seoService services.SeoService
}

func NewSeoHandler(seoService services.SeoService) *SeoHandler {
	return &SeoHandler{seoService: seoService}
}

type queriesRequest struct {
	Queries []string `json:"queries" binding:"required,min=1"`
}

type keywordsRequest struct {
	Keywords []string `json:"keywords" binding:"required,min=1"`
}

type keywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

type urlContentRequest struct {
	URL     string `json:"url" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type domainTopicRequest struct {
	Domain string `json:"domain" binding:"required"`
	Topic  string `json:"topic" binding:"required"`
}

type contentTopicRequest struct {
	Content string `json:"content" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
}

func (h *SeoHandler) IntentMapping(c *gin.Context) {
	var req queriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	results, err := h.seoService.AnalyzeIntentMapping(c.Request.Context(), middleware.UserID(c), req.Queries)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *SeoHandler) CompetitorDNA(c *gin.Context) {
	var req urlContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.seoService.AnalyzeCompetitorDNA(c.Request.Context(), middleware.UserID(c), req.URL, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SeoHandler) VoiceSearch(c *gin.Context) {
	var req keywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	results, err := h.seoService.OptimizeForVoiceSearch(c.Request.Context(), middleware.UserID(c), req.Keywords)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *SeoHandler) SERPFeatures(c *gin.Context) {
	var req keywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	results, err := h.seoService.PredictSERPFeatures(c.Request.Context(), middleware.UserID(c), req.Keywords)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *SeoHandler) SemanticWeb(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.seoService.CreateSemanticKeywordWeb(c.Request.Context(), middleware.UserID(c), req.Keyword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SeoHandler) TrendingKeywords(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	keywords, err := h.seoService.GenerateTrendingKeywords(c.Request.Context(), middleware.UserID(c), req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

func (h *SeoHandler) CompetitorGaps(c *gin.Context) {
	var req domainTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.seoService.AnalyzeCompetitorGaps(c.Request.Context(), middleware.UserID(c), req.Domain, req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SeoHandler) SerpOpportunities(c *gin.Context) {
	var req keywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.seoService.FindSerpOpportunities(c.Request.Context(), middleware.UserID(c), req.Keywords)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SeoHandler) EATOptimization(c *gin.Context) {
	var req contentTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.seoService.OptimizeForEAT(c.Request.Context(), middleware.UserID(c), req.Content, req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SeoHandler) CraftOptimize(c *gin.Context) {
	var req services.CRAFTOptimizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	optimized, err := h.seoService.ApplyCRAFTFramework(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"optimized_content": optimized})
}

func (h *SeoHandler) EATEnhance(c *gin.Context) {
	var req contentTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.seoService.EnhanceEATForAI(c.Request.Context(), middleware.UserID(c), req.Content, req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SeoHandler) GenerateOptimized(c *gin.Context) {
	var req services.AIOptimizedContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	content, err := h.seoService.GenerateAIOptimizedContent(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (h *SeoHandler) Audit(c *gin.Context) {
	var req urlContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.seoService.PerformAISEOAudit(c.Request.Context(), middleware.UserID(c), req.URL, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SeoHandler) ListAnalyses(c *gin.Context) {
	analyses, err := h.seoService.GetSeoAnalyses(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}
