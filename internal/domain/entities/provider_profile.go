package entities

import (
	"time"

	"github.com/google/uuid"
)

// ProviderProfile is the provider-facing profile attached to a user once the
// user owns at least one business that enters an assignment round.
//
// Domain notes:
//   - Provisioned lazily by the ranking engine (get-or-create per owner).
//   - RatingAverage/RatingCount are denormalized aggregates recomputed after
//     each review submission.
type ProviderProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	RatingAverage float64 `gorm:"not null;default:0" json:"rating_average"`
	RatingCount   int64   `gorm:"not null;default:0" json:"rating_count"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}
