package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contentscale/internal/domain/services"
	"contentscale/internal/interfaces/http/middleware"
)

type APIKeyHandler struct {
	keyService services.APIKeyService
}

func NewAPIKeyHandler(keyService services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keyService: keyService}
}

type addKeyRequest struct {
	Provider string `json:"provider" binding:"required"`
	APIKey   string `json:"api_key" binding:"required"`
}

func (h *APIKeyHandler) Add(c *gin.Context) {
	var req addKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	key, err := h.keyService.AddKey(c.Request.Context(), middleware.UserID(c), req.Provider, req.APIKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *APIKeyHandler) List(c *gin.Context) {
	keys, err := h.keyService.ListKeys(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

func (h *APIKeyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key id"})
		return
	}

	if err := h.keyService.DeleteKey(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
