package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contentscale/internal/domain/services"
	"contentscale/internal/interfaces/http/middleware"
)

type AuthHandler struct {
	authService services.AuthService
	ledger      services.LedgerService
}

func NewAuthHandler(authService services.AuthService, ledger services.LedgerService) *AuthHandler {
	return &AuthHandler{authService: authService, ledger: ledger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	ent, err := h.ledger.GetEntitlement(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      ent.UserID,
		"credits":      ent.Balance,
		"has_api_key":  ent.HasAPIKey,
		"api_provider": ent.APIProvider,
	})
}
