package interfaces

import (
	"context"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// IReviewRepository abstracts persistence for Review.
//
// ExistsForRequest must consult both the direct service_request_id column and
// the legacy metadata linkage so the duplicate check survives the schema
// transition.
type IReviewRepository interface {
	Create(ctx context.Context, r *entities.Review) error
	ExistsForRequest(ctx context.Context, customerID, requestID uuid.UUID) (bool, error)
	// AggregateForProvider returns the provider's average rating and count.
	AggregateForProvider(ctx context.Context, providerUserID uuid.UUID) (float64, int64, error)
}
