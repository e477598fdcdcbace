package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
)

type creditRepository struct {
	db *PostgresDB
}

func NewCreditRepository(db *PostgresDB) repositories.CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) CreateTransaction(ctx context.Context, tx *models.CreditTransaction) error {
	query := `INSERT INTO credit_transactions (user_id, amount, type, description, stripe_session_id)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx, query,
		tx.UserID,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.StripeSessionID,
	).Scan(&tx.ID, &tx.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (r *creditRepository) GetTransactions(ctx context.Context, userID int64) ([]*models.CreditTransaction, error) {
	txs := make([]*models.CreditTransaction, 0)
	query := `SELECT id, user_id, amount, type, description, stripe_session_id, created_at
              FROM credit_transactions WHERE user_id = $1 ORDER BY id`

	if err := r.db.SelectContext(ctx, &txs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *creditRepository) GetTransactionBySessionID(ctx context.Context, sessionID string) (*models.CreditTransaction, error) {
	var tx models.CreditTransaction
	query := `SELECT id, user_id, amount, type, description, stripe_session_id, created_at
              FROM credit_transactions WHERE stripe_session_id = $1`

	if err := r.db.GetContext(ctx, &tx, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to look up transaction by session: %w", err)
	}
	return &tx, nil
}
