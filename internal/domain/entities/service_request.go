package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RequestStatus represents the lifecycle of a service request.
//
// Transitions:
//
//	REQUEST_CREATED -> LEAD_ASSIGNED            (ranking found candidates)
//	LEAD_ASSIGNED   -> IN_PROGRESS              (proposal accepted and paid)
//	IN_PROGRESS     -> APPROVED                 (customer approved completed work)
//	APPROVED        -> CLOSED                   (review submitted)
//	any non-closed  -> CLOSED                   (cancellation)
type RequestStatus string

const (
	RequestStatusCreated      RequestStatus = "REQUEST_CREATED"
	RequestStatusLeadAssigned RequestStatus = "LEAD_ASSIGNED"
	RequestStatusInProgress   RequestStatus = "IN_PROGRESS"
	RequestStatusApproved     RequestStatus = "APPROVED"
	RequestStatusClosed       RequestStatus = "CLOSED"
)

// ServiceRequest is the customer-owned aggregate root of the lifecycle.
//
// Domain notes:
//   - PrimaryProviderID points at a ProviderProfile; at most one non-terminal
//     primary assignment exists at a time.
//   - SelectedBusinessIDs is the customer-curated shortlist fed into ranking.
//   - Requests are never hard-deleted; cancellation closes them.
type ServiceRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`

	Category    string `gorm:"type:varchar(128);not null;index" json:"category"`
	Subcategory string `gorm:"type:varchar(128)" json:"subcategory"`
	ZipCode     string `gorm:"type:varchar(16);not null" json:"zip_code"`

	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Attachments         datatypes.JSON `gorm:"type:jsonb" json:"attachments,omitempty"`
	SelectedBusinessIDs datatypes.JSON `gorm:"type:jsonb" json:"selected_business_ids,omitempty"`

	PreferredSchedule *time.Time `gorm:"type:timestamp with time zone" json:"preferred_schedule,omitempty"`

	Status            RequestStatus `gorm:"type:varchar(32);not null;default:'REQUEST_CREATED';index" json:"status"`
	PrimaryProviderID *uuid.UUID    `gorm:"type:uuid;index" json:"primary_provider_id,omitempty"`
	CancelReason      string        `gorm:"type:text" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Customer        *User            `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	PrimaryProvider *ProviderProfile `gorm:"foreignKey:PrimaryProviderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"primary_provider,omitempty"`
}

// Shortlist decodes SelectedBusinessIDs; malformed content reads as empty.
func (r *ServiceRequest) Shortlist() []uuid.UUID {
	return decodeUUIDList(r.SelectedBusinessIDs)
}
