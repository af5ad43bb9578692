package response

import (
	"time"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase"
)

type ServiceRequestResponse struct {
	ID                string     `json:"id"`
	CustomerID        string     `json:"customer_id"`
	Category          string     `json:"category"`
	Subcategory       string     `json:"subcategory,omitempty"`
	ZipCode           string     `json:"zip_code"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Status            string     `json:"status"`
	PrimaryProviderID string     `json:"primary_provider_id,omitempty"`
	PreferredSchedule *time.Time `json:"preferred_schedule,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromServiceRequest(r *entities.ServiceRequest) ServiceRequestResponse {
	resp := ServiceRequestResponse{
		ID:                r.ID.String(),
		CustomerID:        r.CustomerID.String(),
		Category:          r.Category,
		Subcategory:       r.Subcategory,
		ZipCode:           r.ZipCode,
		Title:             r.Title,
		Description:       r.Description,
		Status:            string(r.Status),
		PreferredSchedule: r.PreferredSchedule,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.PrimaryProviderID != nil {
		resp.PrimaryProviderID = r.PrimaryProviderID.String()
	}
	return resp
}

type SubmitProposalResponse struct {
	Ref     string `json:"ref"`
	Pending bool   `json:"pending"`
}

func FromSubmitResult(r *usecase.SubmitResult) SubmitProposalResponse {
	return SubmitProposalResponse{Ref: r.Ref, Pending: r.Pending}
}

type PaymentIntentResponse struct {
	ProposalID   string `json:"proposal_id"`
	IntentID     string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	AmountCents  int64  `json:"amount_cents"`
}

func FromIntentResult(r *usecase.IntentResult) PaymentIntentResponse {
	return PaymentIntentResponse{
		ProposalID:   r.ProposalID.String(),
		IntentID:     r.IntentID,
		ClientSecret: r.ClientSecret,
		AmountCents:  r.AmountCents,
	}
}

type AcceptProposalResponse struct {
	ProposalID  string `json:"proposal_id"`
	WorkOrderID string `json:"work_order_id"`
	Status      string `json:"status"`
}

func FromAcceptResult(r *usecase.AcceptResult) AcceptProposalResponse {
	return AcceptProposalResponse{
		ProposalID:  r.ProposalID.String(),
		WorkOrderID: r.WorkOrderID.String(),
		Status:      string(entities.RequestStatusInProgress),
	}
}

type SubmitReviewResponse struct {
	ReviewID string `json:"review_id"`
	Status   string `json:"status"`
}
