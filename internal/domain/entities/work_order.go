package entities

import (
	"time"

	"github.com/google/uuid"
)

type WorkOrderStatus string

const (
	WorkOrderStatusInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusCompleted  WorkOrderStatus = "COMPLETED"
)

// WorkOrder is the execution record created exactly once, at acceptance time.
// Its status moves independently of the request, but the request cannot be
// approved until the work order reports COMPLETED.
type WorkOrder struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ServiceRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"service_request_id"`
	ProviderUserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_user_id"`

	Status      WorkOrderStatus `gorm:"type:varchar(16);not null;default:'IN_PROGRESS';index" json:"status"`
	CompletedAt *time.Time      `gorm:"type:timestamp with time zone" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}
