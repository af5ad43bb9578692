package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LeadStatus string

const (
	LeadStatusSubmitted LeadStatus = "submitted"
	LeadStatusRouted    LeadStatus = "routed"
	LeadStatusAccepted  LeadStatus = "accepted"
	LeadStatusRejected  LeadStatus = "rejected"
)

type LeadRole string

const (
	LeadRolePrimary   LeadRole = "primary"
	LeadRoleAlternate LeadRole = "alternate"
)

// Lead is one provider's candidacy for a request, produced by the ranking
// engine and mutated as the provider responds.
//
// Domain notes:
//   - There is no foreign key from Lead to ServiceRequest. The link lives in
//     Metadata.serviceRequestId and is authoritative but unguarded by a
//     database constraint — write paths must keep it consistent.
//   - Metadata also carries the pending proposal before a first-class
//     Proposal row exists.
type Lead struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	BusinessID     uuid.UUID `gorm:"type:uuid;not null;index" json:"business_id"`
	ProviderUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_user_id"`

	Category    string `gorm:"type:varchar(128);not null" json:"category"`
	ZipCode     string `gorm:"type:varchar(16)" json:"zip_code"`
	Description string `gorm:"type:text" json:"description"`

	Status   LeadStatus     `gorm:"type:varchar(32);not null;index" json:"status"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Business *Business `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"business,omitempty"`
	Provider *User     `gorm:"foreignKey:ProviderUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"provider,omitempty"`
}

const leadMetadataVersion = 1

// PendingProposal is a provider's priced offer carried inside Lead metadata
// before a first-class Proposal row exists.
type PendingProposal struct {
	Price       float64        `json:"price"`
	Details     string         `json:"details"`
	Status      ProposalStatus `json:"status"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// LeadMetadata is the versioned envelope stored in Lead.Metadata.
//
// The envelope is strict on shape but lenient on presence: any field may be
// absent, and a payload that fails to parse is treated as empty rather than
// as an error.
type LeadMetadata struct {
	Version          int              `json:"version,omitempty"`
	ServiceRequestID string           `json:"serviceRequestId,omitempty"`
	Role             LeadRole         `json:"role,omitempty"`
	Rank             int              `json:"rank,omitempty"`
	Score            float64          `json:"score,omitempty"`
	PaymentIntentID  string           `json:"paymentIntentId,omitempty"`
	PendingProposal  *PendingProposal `json:"pendingProposal,omitempty"`
}

// ParseLeadMetadata decodes a lead's metadata blob. Malformed or empty
// payloads decode to the zero envelope.
func ParseLeadMetadata(raw datatypes.JSON) LeadMetadata {
	var m LeadMetadata
	if len(raw) == 0 {
		return m
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return LeadMetadata{}
	}
	return m
}

// ToJSON encodes the envelope, stamping the current version.
func (m LeadMetadata) ToJSON() datatypes.JSON {
	m.Version = leadMetadataVersion
	b, err := json.Marshal(m)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}

// RequestID resolves the originating service request id, if any.
func (m LeadMetadata) RequestID() (uuid.UUID, bool) {
	if m.ServiceRequestID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(m.ServiceRequestID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Metadata returns the parsed envelope for this lead.
func (l *Lead) ParsedMetadata() LeadMetadata {
	return ParseLeadMetadata(l.Metadata)
}
