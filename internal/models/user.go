package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID            uuid.UUID        `json:"id"`
	Email         string           `json:"email"`
	ProviderID    *string          `json:"provider_id,omitempty"`
	Name          *string          `json:"name,omitempty"`
	Tier          SubscriptionTier `json:"tier"`
	EmailVerified bool             `json:"email_verified"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
