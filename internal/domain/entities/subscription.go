package entities

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionTier string

const (
	SubscriptionTierFree     SubscriptionTier = "free"
	SubscriptionTierPlus     SubscriptionTier = "plus"
	SubscriptionTierFeatured SubscriptionTier = "featured"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription records a provider's plan. Billing mechanics live elsewhere;
// the core only reads tier and status to resolve ranking benefits.
type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Tier   SubscriptionTier   `gorm:"type:varchar(32);not null;default:'free'" json:"tier"`
	Status SubscriptionStatus `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`

	ExpiresAt *time.Time `gorm:"type:timestamp with time zone" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}
