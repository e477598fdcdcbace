package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contentscale/internal/domain/services"
	"contentscale/internal/interfaces/http/middleware"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

type userJourneyRequest struct {
	ContentTopics []string `json:"content_topics" binding:"required,min=1"`
}

func (h *AnalyticsHandler) UserJourney(c *gin.Context) {
	var req userJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.analyticsService.AnalyzeUserJourney(c.Request.Context(), middleware.UserID(c), req.ContentTopics)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type performanceRequest struct {
	Title       string   `json:"title" binding:"required"`
	ContentType string   `json:"content_type" binding:"required"`
	Keywords    []string `json:"keywords" binding:"required,min=1"`
}

func (h *AnalyticsHandler) ContentPerformance(c *gin.Context) {
	var req performanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.analyticsService.PredictContentPerformance(c.Request.Context(), middleware.UserID(c), req.Title, req.ContentType, req.Keywords)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type attributionRequest struct {
	ContentTitles []string `json:"content_titles" binding:"required,min=1"`
	TotalRevenue  float64  `json:"total_revenue" binding:"required"`
}

func (h *AnalyticsHandler) RevenueAttribution(c *gin.Context) {
	var req attributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.analyticsService.AttributeRevenue(c.Request.Context(), middleware.UserID(c), req.ContentTitles, req.TotalRevenue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type trafficRequest struct {
	Domain string `json:"domain" binding:"required"`
}

func (h *AnalyticsHandler) CompetitorTraffic(c *gin.Context) {
	var req trafficRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.analyticsService.EstimateCompetitorTraffic(c.Request.Context(), middleware.UserID(c), req.Domain)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type sentimentRequest struct {
	Brand string `json:"brand" binding:"required"`
	Topic string `json:"topic" binding:"required"`
}

func (h *AnalyticsHandler) SocialSentiment(c *gin.Context) {
	var req sentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.analyticsService.CorrelateSocialSentiment(c.Request.Context(), middleware.UserID(c), req.Brand, req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type industryRequest struct {
	Industry string `json:"industry" binding:"required"`
}

func (h *AnalyticsHandler) TrendingTopics(c *gin.Context) {
	var req industryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.analyticsService.DiscoverTrendingTopics(c.Request.Context(), middleware.UserID(c), req.Industry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) ListRecords(c *gin.Context) {
	records, err := h.analyticsService.GetAnalyticsRecords(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
