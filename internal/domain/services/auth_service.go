package services

import (
	"context"
	"fmt"
	"log/slog"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*TokenClaims, error)
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type authService struct {
	userRepo   repositories.UserRepository
	ledger     LedgerService
	jwtService JWTService
	logger     *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, ledger LedgerService, jwtService JWTService, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		ledger:     ledger,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates the user with an empty balance, then grants the free
// tier credit through the ledger so the transaction log stays complete.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if extUser, err := s.userRepo.GetUserByEmail(ctx, req.Email); err == nil && extUser != nil {
		return nil, models.ErrAlreadyExists
	}
	if extUser, err := s.userRepo.GetUserByUsername(ctx, req.Username); err == nil && extUser != nil {
		return nil, models.ErrAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Credits:   0,
		HasAPIKey: false,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.ledger.GrantSignupCredits(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to grant signup credits: %w", err)
	}
	user.Credits = models.FreeTierCredits

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	user.Password = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""

	return &AuthResponse{
		User:  user,
		Token: token,
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenClaims, error) {
	return s.jwtService.ValidateToken(tokenString)
}
