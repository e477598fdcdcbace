package models

import (
	"time"
)

type TransactionType string

const (
	TransactionPurchase TransactionType = "purchase"
	TransactionUsage    TransactionType = "usage"
	TransactionRefund   TransactionType = "refund"
)

// CreditTransaction is one immutable entry in a user's credit ledger.
// Amount is signed: positive for purchase/refund, negative for usage.
// Rows are append-only; corrections are new transactions, never edits.
// StripeSessionID is set on purchase transactions minted from a Stripe
// Checkout session. It is unique across the ledger, which makes redeeming
// the same session twice impossible.
type CreditTransaction struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"user_id" db:"user_id"`
	Amount          int64           `json:"amount" db:"amount"`
	Type            TransactionType `json:"type" db:"type"`
	Description     *string         `json:"description" db:"description"`
	StripeSessionID *string         `json:"stripe_session_id,omitempty" db:"stripe_session_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Unit costs per generated article. Users who bring their own provider key
// pay the lower rate because inference runs on their credentials.
const (
	CostWithOwnKey  int64 = 1
	CostPlatformKey int64 = 2
)

// FreeTierCredits is granted once at signup.
const FreeTierCredits int64 = 1

type CreditPackage struct {
	Credits  int64   `json:"credits"`
	PriceUSD float64 `json:"price_usd"`
}

// Credit packages offered on the pricing page.
var CreditPackages = []CreditPackage{
	{Credits: 25, PriceUSD: 50},
	{Credits: 50, PriceUSD: 90},
	{Credits: 100, PriceUSD: 160},
}
