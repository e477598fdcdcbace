package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
)

// LedgerService is the single source of truth for credit balances. Every
// balance change goes through it and leaves an immutable transaction behind.
type LedgerService interface {
	GetEntitlement(ctx context.Context, userID int64) (*models.Entitlement, error)
	CostPerArticle(ent *models.Entitlement) int64
	CanAuthorize(ent *models.Entitlement) bool
	AuthorizeAndDebit(ctx context.Context, userID int64, unitCost int64) (*DebitResult, error)
	GrantSignupCredits(ctx context.Context, userID int64) error
	RecordPurchase(ctx context.Context, userID int64, amountUSD float64, credits int64, description string) (*models.CreditTransaction, error)
	RedeemCheckoutSession(ctx context.Context, userID int64, sessionID string, amountUSD float64, credits int64, description string) (*models.CreditTransaction, error)
	RecordRefund(ctx context.Context, userID int64, credits int64, description string) (*models.CreditTransaction, error)
	LinkProvider(ctx context.Context, userID int64, provider string) error
	UnlinkProvider(ctx context.Context, userID int64) error
	ListTransactions(ctx context.Context, userID int64) ([]*models.CreditTransaction, error)
}

// EntitlementCache is an optional read-through cache for entitlement
// snapshots. Misses are not errors; mutations invalidate.
type EntitlementCache interface {
	Get(ctx context.Context, userID int64) (*models.Entitlement, bool)
	Set(ctx context.Context, ent *models.Entitlement)
	Invalidate(ctx context.Context, userID int64)
}

type ledgerService struct {
	userRepo   repositories.UserRepository
	creditRepo repositories.CreditRepository
	cache      EntitlementCache
	logger     *slog.Logger

	// one mutex per user serializes check-then-debit; without this two
	// concurrent requests could both observe a sufficient balance
	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewLedgerService(userRepo repositories.UserRepository, creditRepo repositories.CreditRepository, cache EntitlementCache, logger *slog.Logger) LedgerService {
	return &ledgerService{
		userRepo:   userRepo,
		creditRepo: creditRepo,
		cache:      cache,
		logger:     logger,
		locks:      make(map[int64]*sync.Mutex),
	}
}

func (s *ledgerService) userLock(userID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *ledgerService) GetEntitlement(ctx context.Context, userID int64) (*models.Entitlement, error) {
	if s.cache != nil {
		if ent, ok := s.cache.Get(ctx, userID); ok {
			return ent, nil
		}
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ent := &models.Entitlement{
		UserID:      user.ID,
		Balance:     user.Credits,
		HasAPIKey:   user.HasAPIKey,
		APIProvider: user.APIProvider,
	}

	if s.cache != nil {
		s.cache.Set(ctx, ent)
	}
	return ent, nil
}

// CostPerArticle is pure: the lower rate applies iff the user brings their
// own provider key.
func (s *ledgerService) CostPerArticle(ent *models.Entitlement) int64 {
	if ent.HasAPIKey {
		return models.CostWithOwnKey
	}
	return models.CostPlatformKey
}

// CanAuthorize permits generation when the user has any balance left or has
// linked their own provider key. BYOK users are never blocked on balance.
func (s *ledgerService) CanAuthorize(ent *models.Entitlement) bool {
	return ent.Balance > 0 || ent.HasAPIKey
}

// DebitResult reports what an authorized debit actually took.
type DebitResult struct {
	Debited    int64 `json:"debited"`
	NewBalance int64 `json:"new_balance"`
}

// AuthorizeAndDebit checks authorization and takes the debit as one atomic
// step per user. Without a linked key the full unit cost must be covered by
// the balance. With a linked key the debit is capped at the remaining
// balance so it never goes negative, but the request is still allowed.
func (s *ledgerService) AuthorizeAndDebit(ctx context.Context, userID int64, unitCost int64) (*DebitResult, error) {
	if unitCost <= 0 {
		return nil, models.ErrInvalidAmount
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.HasAPIKey && user.Credits < unitCost {
		return nil, models.ErrInsufficientCredits
	}

	debit := unitCost
	if user.HasAPIKey && user.Credits < unitCost {
		debit = user.Credits
	}

	newBalance := user.Credits - debit
	if debit > 0 {
		desc := "Article generation"
		tx := &models.CreditTransaction{
			UserID:      userID,
			Amount:      -debit,
			Type:        models.TransactionUsage,
			Description: &desc,
		}
		if err := s.creditRepo.CreateTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to record usage: %w", err)
		}
		if err := s.userRepo.UpdateCredits(ctx, userID, newBalance); err != nil {
			return nil, fmt.Errorf("failed to update balance: %w", err)
		}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}

	s.logger.Info("debited credits",
		"user_id", userID,
		"debit", debit,
		"balance", newBalance,
	)
	return &DebitResult{Debited: debit, NewBalance: newBalance}, nil
}

// GrantSignupCredits records the one-time free tier grant so the ledger
// still reconciles to the balance.
func (s *ledgerService) GrantSignupCredits(ctx context.Context, userID int64) error {
	_, err := s.credit(ctx, userID, models.FreeTierCredits, models.TransactionPurchase, "Free tier welcome credit")
	return err
}

func (s *ledgerService) RecordPurchase(ctx context.Context, userID int64, amountUSD float64, credits int64, description string) (*models.CreditTransaction, error) {
	if amountUSD <= 0 || credits <= 0 {
		return nil, models.ErrInvalidAmount
	}
	return s.credit(ctx, userID, credits, models.TransactionPurchase, description)
}

// RedeemCheckoutSession grants the credits a paid Stripe session bought.
// Each session mints credits exactly once: the transaction records the
// session id and a replay returns ErrAlreadyExists without touching the
// balance.
func (s *ledgerService) RedeemCheckoutSession(ctx context.Context, userID int64, sessionID string, amountUSD float64, credits int64, description string) (*models.CreditTransaction, error) {
	if amountUSD <= 0 || credits <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", models.ErrInvalidAmount)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.creditRepo.GetTransactionBySessionID(ctx, sessionID); err == nil {
		return nil, fmt.Errorf("%w: session %s already redeemed", models.ErrAlreadyExists, sessionID)
	} else if !errors.Is(err, models.ErrTransactionNotFound) {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &models.CreditTransaction{
		UserID:          userID,
		Amount:          credits,
		Type:            models.TransactionPurchase,
		StripeSessionID: &sessionID,
	}
	if description != "" {
		tx.Description = &description
	}

	if err := s.creditRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}
	if err := s.userRepo.UpdateCredits(ctx, userID, user.Credits+credits); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}

	s.logger.Info("checkout session redeemed",
		"user_id", userID,
		"credits", credits,
		"session_id", sessionID,
	)
	return tx, nil
}

func (s *ledgerService) RecordRefund(ctx context.Context, userID int64, credits int64, description string) (*models.CreditTransaction, error) {
	if credits <= 0 {
		return nil, models.ErrInvalidAmount
	}
	return s.credit(ctx, userID, credits, models.TransactionRefund, description)
}

func (s *ledgerService) credit(ctx context.Context, userID int64, credits int64, kind models.TransactionType, description string) (*models.CreditTransaction, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &models.CreditTransaction{
		UserID: userID,
		Amount: credits,
		Type:   kind,
	}
	if description != "" {
		tx.Description = &description
	}

	if err := s.creditRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", kind, err)
	}
	if err := s.userRepo.UpdateCredits(ctx, userID, user.Credits+credits); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}

	s.logger.Info("credited account",
		"user_id", userID,
		"type", string(kind),
		"credits", credits,
	)
	return tx, nil
}

func (s *ledgerService) LinkProvider(ctx context.Context, userID int64, provider string) error {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.UpdateAPIKeyStatus(ctx, userID, true, &provider); err != nil {
		return fmt.Errorf("failed to link provider: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return nil
}

func (s *ledgerService) UnlinkProvider(ctx context.Context, userID int64) error {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.UpdateAPIKeyStatus(ctx, userID, false, nil); err != nil {
		return fmt.Errorf("failed to unlink provider: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, userID int64) ([]*models.CreditTransaction, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.creditRepo.GetTransactions(ctx, userID)
}
