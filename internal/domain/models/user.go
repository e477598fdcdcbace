package models

import (
	"time"
)

type User struct {
	ID          int64     `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	Password    string    `json:"-" db:"password"`
	Credits     int64     `json:"credits" db:"credits"`
	HasAPIKey   bool      `json:"has_api_key" db:"has_api_key"`
	APIProvider *string   `json:"api_provider" db:"api_provider"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Entitlement is a read-only snapshot of the state that prices and
// authorizes a paid action for one user.
type Entitlement struct {
	UserID      int64   `json:"user_id"`
	Balance     int64   `json:"balance"`
	HasAPIKey   bool    `json:"has_api_key"`
	APIProvider *string `json:"api_provider"`
}

type AIProvider string

const (
	AIProviderOpenAI     AIProvider = "openai"
	AIProviderPerplexity AIProvider = "perplexity"
)
