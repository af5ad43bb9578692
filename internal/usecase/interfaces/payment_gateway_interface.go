package interfaces

import (
	"context"
	"encoding/json"
	"time"
)

// IntentStatus is the gateway-neutral payment intent state.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusSucceeded IntentStatus = "succeeded"
	IntentStatusFailed    IntentStatus = "failed"
	IntentStatusCanceled  IntentStatus = "canceled"
)

// PaymentIntent is the gateway's view of one payment attempt. AmountCents is
// normalized at the adapter boundary so amount comparisons never touch
// provider-specific float representations.
type PaymentIntent struct {
	ID           string
	Status       IntentStatus
	AmountCents  int64
	ClientSecret string
	ApprovedAt   *time.Time

	// Raw keeps the original provider payload for traceability/audit.
	Raw json.RawMessage
}

// CreateIntentInput describes the payment to open at the provider.
type CreateIntentInput struct {
	AmountCents int64
	Description string
	// Reference reconciles provider events back to our proposal.
	Reference  string
	PayerEmail string
}

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
//
// The gateway is the source of truth for payment completion; the core never
// marks a payment succeeded without retrieving the intent first.
type IPaymentGateway interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (PaymentIntent, error)
	CancelIntent(ctx context.Context, id string) error
}
