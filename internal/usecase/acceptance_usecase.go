package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

var (
	ErrPaymentNotFound       = errors.New("payment intent not found")
	ErrPaymentIncomplete     = errors.New("payment not completed")
	ErrPaymentAmountMismatch = errors.New("payment amount does not match proposal price")
	ErrPaymentIntentMismatch = errors.New("payment intent does not belong to this proposal")
	ErrRequestInProgress     = errors.New("service request already in progress")
	ErrProposalAccepted      = errors.New("proposal already accepted")
	ErrLockConflict          = errors.New("concurrent update conflict, retry")
)

// AcceptResult identifies the records produced by a successful acceptance.
type AcceptResult struct {
	ProposalID  uuid.UUID
	WorkOrderID uuid.UUID
}

// IAcceptanceUseCase verifies payment completion and transitions a request to
// IN_PROGRESS around the winning proposal.
type IAcceptanceUseCase interface {
	AcceptProposal(ctx context.Context, requestID uuid.UUID, ref, paymentIntentID string) (*AcceptResult, error)
}

type AcceptanceUseCase struct {
	tx         interfaces.ITxManager
	requests   interfaces.IServiceRequestRepository
	proposals  interfaces.IProposalRepository
	leads      interfaces.ILeadRepository
	workOrders interfaces.IWorkOrderRepository
	profiles   interfaces.IProviderProfileRepository
	users      interfaces.IUserRepository
	gateway    interfaces.IPaymentGateway
	mailer     interfaces.IMailer
}

var _ IAcceptanceUseCase = (*AcceptanceUseCase)(nil)

func NewAcceptanceUseCase(
	tx interfaces.ITxManager,
	requests interfaces.IServiceRequestRepository,
	proposals interfaces.IProposalRepository,
	leads interfaces.ILeadRepository,
	workOrders interfaces.IWorkOrderRepository,
	profiles interfaces.IProviderProfileRepository,
	users interfaces.IUserRepository,
	gateway interfaces.IPaymentGateway,
	mailer interfaces.IMailer,
) *AcceptanceUseCase {
	return &AcceptanceUseCase{
		tx:         tx,
		requests:   requests,
		proposals:  proposals,
		leads:      leads,
		workOrders: workOrders,
		profiles:   profiles,
		users:      users,
		gateway:    gateway,
		mailer:     mailer,
	}
}

// AcceptProposal runs the payment confirmation and acceptance sequence.
//
// All external verification happens before any state mutation: the gateway
// intent must exist, report succeeded, and carry exactly round(price*100)
// cents. The transactional phase locks the request row first (the primary
// mutex for the lifecycle) and the proposal second, so competing accepts for
// the same request serialize and the loser hits the IN_PROGRESS guard.
func (a *AcceptanceUseCase) AcceptProposal(ctx context.Context, requestID uuid.UUID, ref, paymentIntentID string) (*AcceptResult, error) {
	if strings.TrimSpace(paymentIntentID) == "" {
		return nil, ErrPaymentNotFound
	}

	expectedPrice, err := a.resolveExpectedPrice(ctx, requestID, ref)
	if err != nil {
		return nil, err
	}

	intent, err := a.gateway.GetIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentNotFound, err)
	}
	if intent.Status != interfaces.IntentStatusSucceeded {
		// Carry the actual gateway status for client display.
		return nil, fmt.Errorf("%w: status=%s", ErrPaymentIncomplete, intent.Status)
	}
	if expectedPrice > 0 && intent.AmountCents != amountCents(expectedPrice) {
		// Guards against stale or cross-wired intents: a lead-fee intent must
		// never confirm a proposal, whatever its status says.
		return nil, fmt.Errorf("%w: intent=%d expected=%d", ErrPaymentAmountMismatch, intent.AmountCents, amountCents(expectedPrice))
	}

	var result AcceptResult
	err = a.tx.Do(ctx, func(ctx context.Context) error {
		return a.acceptInTx(ctx, requestID, ref, intent, &result)
	})
	if err != nil {
		if isLockConflict(err) {
			return nil, fmt.Errorf("%w: %v", ErrLockConflict, err)
		}
		return nil, err
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("proposal_id", result.ProposalID.String()).
		Str("intent_id", intent.ID).
		Msg("proposal.accepted")

	// Post-commit notifications are strictly non-blocking; a failure here is
	// never surfaced as an acceptance failure.
	go a.notifyParties(context.WithoutCancel(ctx), requestID, result.ProposalID)

	return &result, nil
}

func (a *AcceptanceUseCase) acceptInTx(ctx context.Context, requestID uuid.UUID, ref string, intent interfaces.PaymentIntent, out *AcceptResult) error {
	req, err := a.requests.GetByIDForUpdate(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.Status == entities.RequestStatusInProgress || req.Status == entities.RequestStatusApproved || req.Status == entities.RequestStatusClosed {
		return ErrRequestInProgress
	}

	proposal, lead, err := a.resolveProposal(ctx, requestID, ref, intent.ID)
	if err != nil {
		return err
	}
	if proposal.Status == entities.ProposalStatusAccepted {
		return ErrProposalAccepted
	}

	now := time.Now().UTC()
	paidAt := now
	if intent.ApprovedAt != nil {
		paidAt = intent.ApprovedAt.UTC()
	}
	proposal.Status = entities.ProposalStatusAccepted
	proposal.PaymentIntentID = intent.ID
	proposal.PaymentStatus = entities.PaymentStatusSucceeded
	proposal.PaidAt = &paidAt
	if proposal.PayoutStatus == entities.PayoutStatusUnset {
		proposal.PayoutStatus = entities.PayoutStatusPending
	}
	if err := a.proposals.Update(ctx, proposal); err != nil {
		return err
	}

	if lead != nil {
		meta := lead.ParsedMetadata()
		if meta.PendingProposal != nil {
			meta.PendingProposal.Status = entities.ProposalStatusAccepted
		}
		meta.PaymentIntentID = intent.ID
		lead.Metadata = meta.ToJSON()
		lead.Status = entities.LeadStatusAccepted
		if err := a.leads.Update(ctx, lead); err != nil {
			return err
		}
	}

	// Losing-bidder cleanup, scoped to this request.
	if _, err := a.proposals.RejectOtherSent(ctx, requestID, proposal.ID); err != nil {
		return err
	}

	profile, err := a.profiles.GetOrCreateByUserID(ctx, proposal.ProviderUserID)
	if err != nil {
		return err
	}

	req.Status = entities.RequestStatusInProgress
	req.PrimaryProviderID = &profile.ID
	if err := a.requests.Update(ctx, req); err != nil {
		return err
	}

	order := &entities.WorkOrder{
		ServiceRequestID: requestID,
		ProviderUserID:   proposal.ProviderUserID,
		Status:           entities.WorkOrderStatusInProgress,
	}
	if err := a.workOrders.Create(ctx, order); err != nil {
		return err
	}

	out.ProposalID = proposal.ID
	out.WorkOrderID = order.ID
	return nil
}

// resolveExpectedPrice reads the offer's price without mutating anything.
func (a *AcceptanceUseCase) resolveExpectedPrice(ctx context.Context, requestID uuid.UUID, ref string) (float64, error) {
	if leadID, ok := parsePendingToken(ref); ok {
		lead, err := a.leads.GetByID(ctx, leadID)
		if err != nil {
			return 0, err
		}
		if lead == nil {
			return 0, ErrProposalNotFound
		}
		meta := lead.ParsedMetadata()
		if id, ok := meta.RequestID(); !ok || id != requestID {
			return 0, ErrProposalNotFound
		}
		if meta.PendingProposal == nil {
			return 0, ErrProposalNotFound
		}
		return meta.PendingProposal.Price, nil
	}

	proposalID, err := uuid.Parse(ref)
	if err != nil {
		return 0, ErrProposalNotFound
	}
	p, err := a.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return 0, err
	}
	if p == nil || p.ServiceRequestID != requestID {
		return 0, ErrProposalNotFound
	}
	return p.Price, nil
}

// resolveProposal locks or creates the target proposal inside the
// transaction. Pending refs go through the idempotent promotion; real ids
// must already carry the supplied intent id (or none) so a foreign intent can
// never confirm an unrelated proposal.
func (a *AcceptanceUseCase) resolveProposal(ctx context.Context, requestID uuid.UUID, ref, intentID string) (*entities.Proposal, *entities.Lead, error) {
	if leadID, ok := parsePendingToken(ref); ok {
		lead, err := a.leads.GetByID(ctx, leadID)
		if err != nil {
			return nil, nil, err
		}
		if lead == nil {
			return nil, nil, ErrProposalNotFound
		}
		p, err := promotePendingProposal(ctx, a.proposals, lead, requestID, intentID)
		if err != nil {
			return nil, nil, err
		}
		return p, lead, nil
	}

	proposalID, err := uuid.Parse(ref)
	if err != nil {
		return nil, nil, ErrProposalNotFound
	}
	p, err := a.proposals.GetByIDForUpdate(ctx, proposalID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil || p.ServiceRequestID != requestID {
		return nil, nil, ErrProposalNotFound
	}
	if p.PaymentIntentID != "" && p.PaymentIntentID != intentID {
		return nil, nil, ErrPaymentIntentMismatch
	}

	lead, err := a.leads.FindByProviderAndRequest(ctx, p.ProviderUserID, requestID)
	if err != nil {
		// The lead is a courtesy update here; its absence is not a failure.
		log.Warn().Err(err).Str("proposal_id", p.ID.String()).Msg("accept: lead lookup failed")
		lead = nil
	}
	return p, lead, nil
}

func (a *AcceptanceUseCase) notifyParties(ctx context.Context, requestID, proposalID uuid.UUID) {
	req, err := a.requests.GetByID(ctx, requestID)
	if err != nil || req == nil {
		log.Warn().Err(err).Str("request_id", requestID.String()).Msg("notify: request reload failed")
		return
	}
	p, err := a.proposals.GetByID(ctx, proposalID)
	if err != nil || p == nil {
		log.Warn().Err(err).Str("proposal_id", proposalID.String()).Msg("notify: proposal reload failed")
		return
	}

	subject := fmt.Sprintf("Service request %s is underway", req.Title)
	for _, userID := range []uuid.UUID{req.CustomerID, p.ProviderUserID} {
		usr, err := a.users.GetByID(ctx, userID)
		if err != nil || usr == nil || usr.Email == "" {
			continue
		}
		body := fmt.Sprintf("The proposal for %q has been accepted and paid. Work is now in progress.", req.Title)
		if err := a.mailer.Send(ctx, usr.Email, subject, body); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("notify: email send failed")
		}
	}
}

// isLockConflict classifies store errors that signal lock contention and are
// worth a client retry. Matching is by error text across the backends we run
// against (postgres in production, sqlite in tests).
func isLockConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock timeout") ||
		strings.Contains(msg, "could not obtain lock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "database is locked")
}
