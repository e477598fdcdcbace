package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contentscale/internal/domain/services"
	"contentscale/internal/interfaces/http/middleware"
)

type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) Generate(c *gin.Context) {
	var req services.GenerateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.contentService.GenerateArticle(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"content": item})
}

func (h *ContentHandler) List(c *gin.Context) {
	items, err := h.contentService.GetContentItems(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": items})
}

func (h *ContentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return
	}

	if err := h.contentService.DeleteContentItem(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

func (h *ContentHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.contentService.DeleteContentItems(c.Request.Context(), middleware.UserID(c), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type topicRequest struct {
	Topic string `json:"topic" binding:"required"`
}

func (h *ContentHandler) Keywords(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	keywords, err := h.contentService.GenerateKeywords(c.Request.Context(), req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

func (h *ContentHandler) Titles(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	titles, err := h.contentService.GenerateTitles(c.Request.Context(), req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"titles": titles})
}

func (h *ContentHandler) Outline(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	outline, err := h.contentService.GenerateOutline(c.Request.Context(), req.Topic)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outline": outline})
}

type contentAnalysisRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *ContentHandler) NLPKeywords(c *gin.Context) {
	var req contentAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	keywords, err := h.contentService.GenerateNLPKeywords(c.Request.Context(), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}
