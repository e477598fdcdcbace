package repositories

import (
	"context"

	"contentscale/internal/domain/models"
)

// CreditRepository is an append-only log. Transactions are never updated or
// deleted once written.
type CreditRepository interface {
	CreateTransaction(ctx context.Context, tx *models.CreditTransaction) error
	GetTransactions(ctx context.Context, userID int64) ([]*models.CreditTransaction, error)
	// GetTransactionBySessionID returns ErrTransactionNotFound when no
	// transaction carries the Stripe session id.
	GetTransactionBySessionID(ctx context.Context, sessionID string) (*models.CreditTransaction, error)
}
