package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Review is a customer's rating of completed work, one per (customer, request).
//
// Domain notes:
//   - ServiceRequestID is nullable for schema-transition compatibility: rows
//     written before the column existed carry the request id inside Metadata
//     instead. Duplicate checks consult both.
//   - A review always attaches to some business via the attribution fallback
//     chain in the review flow.
type Review struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ServiceRequestID *uuid.UUID `gorm:"type:uuid;index" json:"service_request_id,omitempty"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProviderUserID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"provider_user_id"`
	BusinessID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"business_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Title   string `gorm:"type:varchar(255)" json:"title"`
	Comment string `gorm:"type:text" json:"comment"`

	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// ReviewMetadata is the legacy side-channel linking a review to its request
// before the direct column existed.
type ReviewMetadata struct {
	ServiceRequestID string `json:"serviceRequestId,omitempty"`
}

// RequestID resolves the review's request link from the direct column first,
// then from metadata.
func (r *Review) RequestID() (uuid.UUID, bool) {
	if r.ServiceRequestID != nil {
		return *r.ServiceRequestID, true
	}
	if len(r.Metadata) == 0 {
		return uuid.Nil, false
	}
	var m ReviewMetadata
	if err := json.Unmarshal(r.Metadata, &m); err != nil || m.ServiceRequestID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(m.ServiceRequestID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
