package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateServiceRequest is the customer's request form.
type CreateServiceRequest struct {
	CustomerID        string     `json:"customer_id" binding:"required"`
	Category          string     `json:"category" binding:"required"`
	Subcategory       string     `json:"subcategory"`
	ZipCode           string     `json:"zip_code" binding:"required"`
	Title             string     `json:"title" binding:"required"`
	Description       string     `json:"description"`
	Attachments       []string   `json:"attachments"`
	PreferredSchedule *time.Time `json:"preferred_schedule"`
	ShortlistIDs      []string   `json:"shortlist_ids"`
}

func (r CreateServiceRequest) ResolveCustomerID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(r.CustomerID))
}

func (r CreateServiceRequest) ResolveShortlist() ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(r.ShortlistIDs))
	for _, raw := range r.ShortlistIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// CompleteWorkRequest identifies the provider reporting completion.
type CompleteWorkRequest struct {
	ProviderUserID string `json:"provider_user_id" binding:"required"`
}

func (r CompleteWorkRequest) ResolveProviderUserID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(r.ProviderUserID))
}

// SubmitProposalRequest is a provider's priced offer.
type SubmitProposalRequest struct {
	ProviderUserID string  `json:"provider_user_id" binding:"required"`
	Details        string  `json:"details"`
	Price          float64 `json:"price" binding:"required"`
}

func (r SubmitProposalRequest) ResolveProviderUserID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(r.ProviderUserID))
}

// RejectProposalRequest rejects a proposal by ref (row id or pending token).
type RejectProposalRequest struct {
	Ref    string `json:"ref" binding:"required"`
	Reason string `json:"reason" binding:"required"`
	Note   string `json:"note"`
}

// PaymentIntentRequest opens a payment intent for a proposal ref.
type PaymentIntentRequest struct {
	Ref string `json:"ref" binding:"required"`
}

// AcceptProposalRequest confirms payment and accepts a proposal.
type AcceptProposalRequest struct {
	Ref             string `json:"ref" binding:"required"`
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// SubmitReviewRequest rates the provider and closes the request.
type SubmitReviewRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Title      string `json:"title"`
	Comment    string `json:"comment"`
}

func (r SubmitReviewRequest) ResolveCustomerID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(r.CustomerID))
}
