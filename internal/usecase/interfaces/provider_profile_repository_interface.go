package interfaces

import (
	"context"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// IProviderProfileRepository abstracts persistence for ProviderProfile.
//
// GetOrCreateByUserID is idempotent: a lost creation race (unique index on
// user_id) is resolved by re-querying, never surfaced as an error.
type IProviderProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ProviderProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.ProviderProfile, error)
	GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*entities.ProviderProfile, error)
	UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int64) error
}
