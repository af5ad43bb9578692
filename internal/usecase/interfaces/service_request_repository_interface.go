package interfaces

import (
	"context"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// IServiceRequestRepository abstracts persistence for ServiceRequest.
//
// GetByIDForUpdate must take a row-level update lock when called inside a
// transaction; the request row is the primary mutex for all status-changing
// operations.
type IServiceRequestRepository interface {
	Create(ctx context.Context, r *entities.ServiceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error)
	Update(ctx context.Context, r *entities.ServiceRequest) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entities.ServiceRequest, error)
}
