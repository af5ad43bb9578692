package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// providerSharePercent is the provider's cut of the proposal price. The
// remainder is the platform fee.
const providerSharePercent = 0.90

// CalculatePayoutSplit computes the provider share and platform fee for a
// price. Pure; once amounts are persisted on a proposal they are
// authoritative and this function is never consulted again for that payout.
func CalculatePayoutSplit(price float64) (providerAmount, platformFee float64) {
	providerAmount = price * providerSharePercent
	platformFee = price - providerAmount
	return providerAmount, platformFee
}

// SchemaCapabilities is the startup-resolved view of optional columns. When
// payout columns are absent (unapplied migration) the processor degrades to a
// logged warning instead of failing requests.
type SchemaCapabilities struct {
	PayoutColumns bool
}

// IPayoutUseCase disburses the provider's share for an accepted, paid
// proposal. Safe to invoke any number of times, concurrently or sequentially;
// exactly one invocation performs the completed transition.
type IPayoutUseCase interface {
	Process(ctx context.Context, proposalID uuid.UUID) error
	// ProcessForRequest locates the request's accepted paid proposal and
	// processes its payout best-effort; it never reports failure.
	ProcessForRequest(ctx context.Context, requestID uuid.UUID)
}

type PayoutUseCase struct {
	proposals interfaces.IProposalRepository
	requests  interfaces.IServiceRequestRepository
	users     interfaces.IUserRepository
	mailer    interfaces.IMailer
	caps      SchemaCapabilities
}

var _ IPayoutUseCase = (*PayoutUseCase)(nil)

func NewPayoutUseCase(
	proposals interfaces.IProposalRepository,
	requests interfaces.IServiceRequestRepository,
	users interfaces.IUserRepository,
	mailer interfaces.IMailer,
	caps SchemaCapabilities,
) *PayoutUseCase {
	return &PayoutUseCase{
		proposals: proposals,
		requests:  requests,
		users:     users,
		mailer:    mailer,
		caps:      caps,
	}
}

// Process runs the payout state machine for one proposal.
//
// Preconditions are checked against freshly reloaded state, never a caller's
// in-memory copy. The claim itself is a single conditional update (completed
// WHERE payout_status still pending/processing); whichever invocation flips
// the row wins, every other one exits as a clean no-op.
func (u *PayoutUseCase) Process(ctx context.Context, proposalID uuid.UUID) error {
	if !u.caps.PayoutColumns {
		log.Warn().
			Str("proposal_id", proposalID.String()).
			Msg("payout: payout columns missing, migration not applied; skipping")
		return nil
	}

	p, err := u.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProposalNotFound
	}

	switch p.PayoutStatus {
	case entities.PayoutStatusUnset, entities.PayoutStatusPending:
	default:
		// processing/completed/failed: someone else owns or owned this payout.
		return nil
	}
	if p.PaymentStatus != entities.PaymentStatusSucceeded {
		// Payout never precedes payment; silent no-op.
		return nil
	}

	amount, fee := p.PayoutAmount, p.PlatformFeeAmount
	if amount == nil || fee == nil {
		a, f := CalculatePayoutSplit(p.Price)
		amount, fee = &a, &f
	}

	now := time.Now().UTC()
	claimed, err := u.proposals.MarkPayoutCompleted(ctx, p.ID, *amount, *fee, now)
	if err != nil {
		return u.handleCriticalFailure(ctx, p, err)
	}
	if !claimed {
		// Re-check: a concurrent invocation may have completed it between our
		// read and the conditional write. Either way there is nothing to do.
		fresh, rerr := u.proposals.GetByID(ctx, p.ID)
		if rerr == nil && fresh != nil && fresh.PayoutStatus == entities.PayoutStatusCompleted {
			return nil
		}
		// Guarded update affected no row and the payout is not completed:
		// last resort, write through the raw path.
		if rawErr := u.proposals.CompletePayoutRaw(ctx, p.ID, *amount, *fee, now); rawErr != nil {
			return u.handleCriticalFailure(ctx, p, rawErr)
		}
	}

	log.Info().
		Str("proposal_id", p.ID.String()).
		Float64("provider_amount", *amount).
		Float64("platform_fee", *fee).
		Msg("payout.completed")

	u.notifyProvider(ctx, p, *amount)
	return nil
}

// handleCriticalFailure marks the payout failed only while it is still
// claimable; a completed payout is never overwritten, and the failure itself
// is never surfaced past the caller's logs.
func (u *PayoutUseCase) handleCriticalFailure(ctx context.Context, p *entities.Proposal, cause error) error {
	fresh, err := u.proposals.GetByID(ctx, p.ID)
	if err == nil && fresh != nil && fresh.PayoutStatus == entities.PayoutStatusCompleted {
		log.Warn().Err(cause).
			Str("proposal_id", p.ID.String()).
			Msg("payout: write error after completion; leaving completed status untouched")
		return nil
	}

	if err := u.proposals.MarkPayoutFailed(ctx, p.ID); err != nil {
		log.Error().Err(err).
			Str("proposal_id", p.ID.String()).
			Msg("payout: could not mark failed")
	}
	log.Error().Err(cause).
		Str("proposal_id", p.ID.String()).
		Msg("payout.failed")
	return cause
}

// notifyProvider is strictly non-critical: email failure never affects the
// already-completed payout.
func (u *PayoutUseCase) notifyProvider(ctx context.Context, p *entities.Proposal, amount float64) {
	usr, err := u.users.GetByID(ctx, p.ProviderUserID)
	if err != nil || usr == nil || usr.Email == "" {
		return
	}
	subject := "Your payout has been processed"
	body := fmt.Sprintf("A payout of $%.2f for your accepted proposal has been disbursed.", amount)
	if err := u.mailer.Send(ctx, usr.Email, subject, body); err != nil {
		log.Warn().Err(err).
			Str("proposal_id", p.ID.String()).
			Msg("payout: notification email failed")
	}
}

// ProcessForRequest finds the request's accepted, paid proposal with a payout
// still pending and processes it. Used as the terminal side effect of the
// cancellation, approval and review flows; all failures are logged only.
func (u *PayoutUseCase) ProcessForRequest(ctx context.Context, requestID uuid.UUID) {
	proposals, err := u.proposals.ListByServiceRequestID(ctx, requestID)
	if err != nil {
		log.Warn().Err(err).Str("request_id", requestID.String()).Msg("payout: proposal listing failed")
		return
	}
	for i := range proposals {
		p := &proposals[i]
		if p.Status != entities.ProposalStatusAccepted || p.PaymentStatus != entities.PaymentStatusSucceeded {
			continue
		}
		if p.PayoutStatus != entities.PayoutStatusUnset && p.PayoutStatus != entities.PayoutStatusPending {
			continue
		}
		if err := u.Process(ctx, p.ID); err != nil {
			log.Warn().Err(err).Str("proposal_id", p.ID.String()).Msg("payout: deferred processing failed")
		}
	}
}
