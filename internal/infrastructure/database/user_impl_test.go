package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
)

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &PostgresDB{sqlx.NewDb(mockDB, "sqlmock"), nil}, mock
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("writer", "writer@example.com", "hashed", int64(0), false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	user := &models.User{
		Username: "writer",
		Email:    "writer@example.com",
		Password: "hashed",
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCredits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET credits").
		WithArgs(int64(1), int64(23)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCredits(context.Background(), 1, 23))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCredits_UnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET credits").
		WithArgs(int64(99), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCredits(context.Background(), 99, 5)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCreditRepository(db)

	desc := "Article generation"
	mock.ExpectQuery("INSERT INTO credit_transactions").
		WithArgs(int64(1), int64(-2), models.TransactionUsage, &desc, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	tx := &models.CreditTransaction{
		UserID:      1,
		Amount:      -2,
		Type:        models.TransactionUsage,
		Description: &desc,
	}
	require.NoError(t, repo.CreateTransaction(context.Background(), tx))
	assert.Equal(t, int64(7), tx.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionBySessionID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCreditRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM credit_transactions WHERE stripe_session_id").
		WithArgs("cs_test_missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetTransactionBySessionID(context.Background(), "cs_test_missing")
	assert.ErrorIs(t, err, models.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
