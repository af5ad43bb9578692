package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// IProposalRepository abstracts persistence for Proposal.
//
// The payout methods exist so the payout processor can rely on conditional
// writes instead of advisory pre-marking:
//   - MarkPayoutCompleted performs one atomic UPDATE guarded by the current
//     payout status and reports whether it claimed the row.
//   - CompletePayoutRaw is the last-resort write that bypasses the ORM
//     update path (plain SQL) when the guarded update cannot be verified.
type IProposalRepository interface {
	Create(ctx context.Context, p *entities.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Proposal, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Proposal, error)
	Update(ctx context.Context, p *entities.Proposal) error
	GetByPaymentIntentID(ctx context.Context, intentID string) (*entities.Proposal, error)
	// GetActiveByProviderAndRequest returns the SENT or ACCEPTED proposal for
	// the pair, or nil when none exists.
	GetActiveByProviderAndRequest(ctx context.Context, providerUserID, requestID uuid.UUID) (*entities.Proposal, error)
	ListByServiceRequestID(ctx context.Context, requestID uuid.UUID) ([]entities.Proposal, error)
	// RejectOtherSent flips every SENT proposal of the request except winnerID
	// to REJECTED and returns the number of rows affected.
	RejectOtherSent(ctx context.Context, requestID, winnerID uuid.UUID) (int64, error)
	MarkPayoutProcessing(ctx context.Context, id uuid.UUID) error
	MarkPayoutCompleted(ctx context.Context, id uuid.UUID, amount, fee float64, processedAt time.Time) (bool, error)
	MarkPayoutFailed(ctx context.Context, id uuid.UUID) error
	CompletePayoutRaw(ctx context.Context, id uuid.UUID, amount, fee float64, processedAt time.Time) error
}
