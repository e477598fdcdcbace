package repositories

import (
	"context"

	"contentscale/internal/domain/models"
)

type UserRepository interface {
	//create
	CreateUser(ctx context.Context, user *models.User) error

	//get
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	//update
	UpdateCredits(ctx context.Context, userID int64, credits int64) error
	UpdateAPIKeyStatus(ctx context.Context, userID int64, hasAPIKey bool, provider *string) error

	//delete
	Delete(ctx context.Context, id int64) error
}
