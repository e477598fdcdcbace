package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"contentscale/internal/domain/models"
	"contentscale/internal/domain/repositories"
)

// BillingService sells credit packages through Stripe Checkout. Credits are
// only granted when the completed session is confirmed, and the grant goes
// through the ledger so the balance stays reconcilable.
type BillingService interface {
	ListPackages() []models.CreditPackage
	CreateCheckoutSession(ctx context.Context, userID, credits int64, successURL, cancelURL string) (string, string, error)
	CompleteCheckout(ctx context.Context, sessionID string) (*models.CreditTransaction, error)
}

type StripeBillingService struct {
	userRepo repositories.UserRepository
	ledger   LedgerService
	logger   *slog.Logger
}

func NewStripeBillingService(userRepo repositories.UserRepository, ledger LedgerService, logger *slog.Logger) *StripeBillingService {
	return &StripeBillingService{
		userRepo: userRepo,
		ledger:   ledger,
		logger:   logger,
	}
}

func (s *StripeBillingService) ListPackages() []models.CreditPackage {
	return models.CreditPackages
}

func packageForCredits(credits int64) (models.CreditPackage, error) {
	for _, pkg := range models.CreditPackages {
		if pkg.Credits == credits {
			return pkg, nil
		}
	}
	return models.CreditPackage{}, fmt.Errorf("%w: no package with %d credits", models.ErrInvalidAmount, credits)
}

func (s *StripeBillingService) CreateCheckoutSession(ctx context.Context, userID, credits int64, successURL, cancelURL string) (string, string, error) {
	pkg, err := packageForCredits(credits)
	if err != nil {
		return "", "", err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(user.Email),
		SuccessURL:    stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%d Credits", pkg.Credits)),
					},
					UnitAmount: stripe.Int64(int64(pkg.PriceUSD * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"credits": strconv.FormatInt(pkg.Credits, 10),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger.Info("checkout session created",
		"user_id", userID,
		"credits", pkg.Credits,
		"session_id", sess.ID,
	)
	return sess.URL, sess.ID, nil
}

// CompleteCheckout confirms the session with Stripe and records the purchase.
// Only sessions Stripe reports as paid produce a credit grant, and each
// session grants at most once; a replayed session_id gets ErrAlreadyExists.
func (s *StripeBillingService) CompleteCheckout(ctx context.Context, sessionID string) (*models.CreditTransaction, error) {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, fmt.Errorf("checkout session %s not paid: %s", sessionID, sess.PaymentStatus)
	}

	userID, err := strconv.ParseInt(sess.Metadata["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id in session metadata: %w", err)
	}
	credits, err := strconv.ParseInt(sess.Metadata["credits"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid credits in session metadata: %w", err)
	}

	amountUSD := float64(sess.AmountTotal) / 100
	description := fmt.Sprintf("Purchased %d credits", credits)

	tx, err := s.ledger.RedeemCheckoutSession(ctx, userID, sessionID, amountUSD, credits, description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout completed",
		"user_id", userID,
		"credits", credits,
		"amount_usd", amountUSD,
	)
	return tx, nil
}
