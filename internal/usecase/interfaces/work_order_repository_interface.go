package interfaces

import (
	"context"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// IWorkOrderRepository abstracts persistence for WorkOrder.
type IWorkOrderRepository interface {
	Create(ctx context.Context, w *entities.WorkOrder) error
	GetByServiceRequestID(ctx context.Context, requestID uuid.UUID) (*entities.WorkOrder, error)
	Update(ctx context.Context, w *entities.WorkOrder) error
}
