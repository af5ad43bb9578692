package interfaces

import (
	"context"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// ILeadRepository abstracts persistence for Lead.
//
// Leads carry their request linkage inside the metadata JSON blob, so the
// by-request listing is a JSON-path query, not a foreign-key join.
type ILeadRepository interface {
	Create(ctx context.Context, l *entities.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Lead, error)
	Update(ctx context.Context, l *entities.Lead) error
	ListByServiceRequestID(ctx context.Context, requestID uuid.UUID) ([]entities.Lead, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*entities.Lead, error)
	FindByProviderAndRequest(ctx context.Context, providerUserID, requestID uuid.UUID) (*entities.Lead, error)
}
