package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"contentscale/internal/domain/services"
	"contentscale/internal/interfaces/http/middleware"
)

type CreditsHandler struct {
	ledger        services.LedgerService
	billing       services.BillingService
	successURL    string
	cancelURL     string
	operatorToken string
}

func NewCreditsHandler(ledger services.LedgerService, billing services.BillingService, successURL, cancelURL, operatorToken string) *CreditsHandler {
	return &CreditsHandler{
		ledger:        ledger,
		billing:       billing,
		successURL:    successURL,
		cancelURL:     cancelURL,
		operatorToken: operatorToken,
	}
}

func (h *CreditsHandler) GetEntitlement(c *gin.Context) {
	ent, err := h.ledger.GetEntitlement(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":          ent.Balance,
		"has_api_key":      ent.HasAPIKey,
		"api_provider":     ent.APIProvider,
		"cost_per_article": h.ledger.CostPerArticle(ent),
		"can_generate":     h.ledger.CanAuthorize(ent),
	})
}

func (h *CreditsHandler) ListTransactions(c *gin.Context) {
	txs, err := h.ledger.ListTransactions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *CreditsHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.billing.ListPackages()})
}

type checkoutRequest struct {
	Credits int64 `json:"credits" binding:"required"`
}

func (h *CreditsHandler) CreateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	url, sessionID, err := h.billing.CreateCheckoutSession(
		c.Request.Context(), middleware.UserID(c), req.Credits,
		h.successURL, h.cancelURL,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkout_url": url,
		"session_id":   sessionID,
	})
}

func (h *CreditsHandler) CompleteCheckout(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	tx, err := h.billing.CompleteCheckout(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"transaction": tx,
	})
}

type refundRequest struct {
	UserID      int64  `json:"user_id" binding:"required"`
	Credits     int64  `json:"credits" binding:"required"`
	Description string `json:"description"`
}

// Refund is an operator action; it credits any account through the ledger,
// so a regular session token is not enough. The caller must present the
// operator token, and the endpoint is disabled when none is configured.
func (h *CreditsHandler) Refund(c *gin.Context) {
	if h.operatorToken == "" ||
		subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Operator-Token")), []byte(h.operatorToken)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "operator token required"})
		return
	}

	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tx, err := h.ledger.RecordRefund(c.Request.Context(), req.UserID, req.Credits, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}
