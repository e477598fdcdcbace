package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/services"
	"contentscale/internal/infrastructure/memory"
)

func refundTestRouter(t *testing.T, operatorToken string) (*gin.Engine, services.LedgerService, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := services.NewLedgerService(store, store, nil, logger)

	user := &models.User{Username: "writer", Email: "writer@example.com", Password: "hashed"}
	require.NoError(t, store.CreateUser(context.Background(), user))

	h := NewCreditsHandler(ledger, nil, "", "", operatorToken)
	router := gin.New()
	router.POST("/api/credits/refund", func(c *gin.Context) {
		c.Set("user_id", user.ID)
		h.Refund(c)
	})
	return router, ledger, user
}

func postRefund(router *gin.Engine, userID int64, token string) *httptest.ResponseRecorder {
	body := fmt.Sprintf(`{"user_id": %d, "credits": 100}`, userID)
	req := httptest.NewRequest(http.MethodPost, "/api/credits/refund", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Operator-Token", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRefund_RejectsRegularUsers(t *testing.T) {
	router, ledger, user := refundTestRouter(t, "op-secret")

	// an authenticated session alone must not be able to mint credits
	w := postRefund(router, user.ID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postRefund(router, user.ID, "wrong-token")
	assert.Equal(t, http.StatusForbidden, w.Code)

	ent, err := ledger.GetEntitlement(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ent.Balance)
}

func TestRefund_AcceptsOperatorToken(t *testing.T) {
	router, ledger, user := refundTestRouter(t, "op-secret")

	w := postRefund(router, user.ID, "op-secret")
	assert.Equal(t, http.StatusOK, w.Code)

	ent, err := ledger.GetEntitlement(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ent.Balance)
}

func TestRefund_DisabledWithoutConfiguredToken(t *testing.T) {
	router, ledger, user := refundTestRouter(t, "")

	// no configured token means no header value can open the endpoint
	w := postRefund(router, user.ID, "anything")
	assert.Equal(t, http.StatusForbidden, w.Code)

	ent, err := ledger.GetEntitlement(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ent.Balance)
}
