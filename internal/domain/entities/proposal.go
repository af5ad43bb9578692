package entities

import (
	"time"

	"github.com/google/uuid"
)

type ProposalStatus string

const (
	ProposalStatusSent     ProposalStatus = "SENT"
	ProposalStatusAccepted ProposalStatus = "ACCEPTED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type PayoutStatus string

const (
	PayoutStatusUnset      PayoutStatus = ""
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// RejectionReason enumerates customer-side rejection causes. ReasonOther
// requires free-text detail.
type RejectionReason string

const (
	RejectionReasonTooFar       RejectionReason = "TOO_FAR"
	RejectionReasonTooExpensive RejectionReason = "TOO_EXPENSIVE"
	RejectionReasonNotRelevant  RejectionReason = "NOT_RELEVANT"
	RejectionReasonOther        RejectionReason = "OTHER"
)

// ValidRejectionReason reports whether r is a known rejection reason.
func ValidRejectionReason(r RejectionReason) bool {
	switch r {
	case RejectionReasonTooFar, RejectionReasonTooExpensive, RejectionReasonNotRelevant, RejectionReasonOther:
		return true
	}
	return false
}

// Proposal is a provider's formal, priced offer for a service request.
//
// Domain notes:
//   - 1:1 with (ServiceRequest, provider) while non-terminal. A proposal may
//     be synthesized from a Lead's pending-proposal metadata; promotion keys
//     on payment intent id then on provider+request to avoid duplicates.
//   - Exactly one ACCEPTED proposal per request at steady state; accepting
//     one rejects all SENT siblings in the same transaction.
//   - Payout fields are written once; persisted amounts stay authoritative
//     even if the fee schedule later changes.
type Proposal struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ServiceRequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"service_request_id"`
	ProviderUserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_user_id"`

	Details string  `gorm:"type:text" json:"details"`
	Price   float64 `gorm:"not null" json:"price"`

	Status ProposalStatus `gorm:"type:varchar(16);not null;default:'SENT';index" json:"status"`

	PaymentIntentID string        `gorm:"type:varchar(128);index" json:"payment_intent_id,omitempty"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"payment_status"`
	PaidAt          *time.Time    `gorm:"type:timestamp with time zone" json:"paid_at,omitempty"`

	PayoutAmount      *float64     `gorm:"type:numeric" json:"payout_amount,omitempty"`
	PlatformFeeAmount *float64     `gorm:"type:numeric" json:"platform_fee_amount,omitempty"`
	PayoutStatus      PayoutStatus `gorm:"type:varchar(16);not null;default:''" json:"payout_status,omitempty"`
	PayoutProcessedAt *time.Time   `gorm:"type:timestamp with time zone" json:"payout_processed_at,omitempty"`

	RejectionReason *RejectionReason `gorm:"type:varchar(32)" json:"rejection_reason,omitempty"`
	RejectionNote   string           `gorm:"type:text" json:"rejection_note,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Provider *User `gorm:"foreignKey:ProviderUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"provider,omitempty"`
}
