package models

import (
	"time"
)

// APIKey stores a hash of a user-supplied provider credential. The raw key
// is never persisted.
type APIKey struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Provider  string    `json:"provider" db:"provider"`
	KeyHash   string    `json:"-" db:"key_hash"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
