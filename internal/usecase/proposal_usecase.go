package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

var (
	ErrRequestNotFound        = errors.New("service request not found")
	ErrRequestNotOpen         = errors.New("service request not open for proposals")
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrInvalidProposalPrice   = errors.New("invalid proposal price")
	ErrDuplicateProposal      = errors.New("active proposal already exists for this provider")
	ErrNoLeadForProvider      = errors.New("provider has no lead for this request")
	ErrInvalidRejectionReason = errors.New("invalid rejection reason")
	ErrRejectionNoteRequired  = errors.New("rejection reason OTHER requires a note")
	ErrProposalProcessed      = errors.New("proposal already processed")
)

// pendingTokenPrefix marks proposal references that point at a lead's
// pending-proposal metadata instead of a first-class row.
const pendingTokenPrefix = "pending:"

// PendingToken builds the client-facing reference for a pending proposal.
func PendingToken(leadID uuid.UUID) string {
	return pendingTokenPrefix + leadID.String()
}

func parsePendingToken(ref string) (uuid.UUID, bool) {
	if !strings.HasPrefix(ref, pendingTokenPrefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(ref, pendingTokenPrefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// amountCents converts a price to the integer cents compared against gateway
// intents. Rounded, not truncated: 499.995 must not become 49999.
func amountCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// ProposalView is one entry of a request's assembled proposal list. Pending
// entries carry a pending token in Ref; promoted entries carry the row id.
type ProposalView struct {
	Ref            string                  `json:"ref"`
	Pending        bool                    `json:"pending"`
	ProviderUserID uuid.UUID               `json:"provider_user_id"`
	Details        string                  `json:"details"`
	Price          float64                 `json:"price"`
	Status         entities.ProposalStatus `json:"status"`
	ProviderName   string                  `json:"provider_name,omitempty"`
	ProviderEmail  string                  `json:"provider_email,omitempty"`
	ProviderPhone  string                  `json:"provider_phone,omitempty"`
	SubmittedAt    time.Time               `json:"submitted_at"`
}

// SubmitResult references the stored offer: a pending token while the offer
// lives in lead metadata, a row id once promoted.
type SubmitResult struct {
	Ref     string
	Pending bool
}

// IntentResult is the client-facing payment intent handle.
type IntentResult struct {
	ProposalID   uuid.UUID
	IntentID     string
	ClientSecret string
	AmountCents  int64
}

// IProposalUseCase drives the lead/proposal state machine: submission,
// assembly of the dual pending/promoted representation, rejection, and
// payment intent creation (which promotes pending offers).
type IProposalUseCase interface {
	Submit(ctx context.Context, requestID, providerUserID uuid.UUID, details string, price float64) (*SubmitResult, error)
	ListForRequest(ctx context.Context, requestID uuid.UUID) ([]ProposalView, error)
	Reject(ctx context.Context, requestID uuid.UUID, ref string, reason entities.RejectionReason, note string) error
	CreatePaymentIntent(ctx context.Context, requestID uuid.UUID, ref string) (*IntentResult, error)
}

type ProposalUseCase struct {
	requests  interfaces.IServiceRequestRepository
	proposals interfaces.IProposalRepository
	leads     interfaces.ILeadRepository
	users     interfaces.IUserRepository
	gateway   interfaces.IPaymentGateway
}

var _ IProposalUseCase = (*ProposalUseCase)(nil)

func NewProposalUseCase(
	requests interfaces.IServiceRequestRepository,
	proposals interfaces.IProposalRepository,
	leads interfaces.ILeadRepository,
	users interfaces.IUserRepository,
	gateway interfaces.IPaymentGateway,
) *ProposalUseCase {
	return &ProposalUseCase{
		requests:  requests,
		proposals: proposals,
		leads:     leads,
		users:     users,
		gateway:   gateway,
	}
}

// Submit records a provider's priced offer as pending-proposal metadata on the
// provider's lead. Any routed lead holder — primary or alternate — may submit;
// a provider with no lead for the request may not.
func (u *ProposalUseCase) Submit(ctx context.Context, requestID, providerUserID uuid.UUID, details string, price float64) (*SubmitResult, error) {
	if price <= 0 {
		return nil, ErrInvalidProposalPrice
	}

	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	switch req.Status {
	case entities.RequestStatusCreated, entities.RequestStatusLeadAssigned:
	default:
		return nil, ErrRequestNotOpen
	}

	existing, err := u.proposals.GetActiveByProviderAndRequest(ctx, providerUserID, requestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateProposal
	}

	lead, err := u.leads.FindByProviderAndRequest(ctx, providerUserID, requestID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNoLeadForProvider
	}

	meta := lead.ParsedMetadata()
	if pp := meta.PendingProposal; pp != nil && pp.Status == entities.ProposalStatusSent {
		return nil, ErrDuplicateProposal
	}

	meta.PendingProposal = &entities.PendingProposal{
		Price:       price,
		Details:     details,
		Status:      entities.ProposalStatusSent,
		SubmittedAt: time.Now().UTC(),
	}
	lead.Metadata = meta.ToJSON()
	lead.Status = entities.LeadStatusSubmitted
	if err := u.leads.Update(ctx, lead); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("lead_id", lead.ID.String()).
		Str("provider_user_id", providerUserID.String()).
		Msg("proposal.submitted")

	return &SubmitResult{Ref: PendingToken(lead.ID), Pending: true}, nil
}

// ListForRequest assembles the request's proposal list from both
// representations: first-class rows plus pending proposals still living in
// lead metadata. A pending entry is suppressed once a row exists for the same
// provider, and contact details are revealed only for ACCEPTED entries.
func (u *ProposalUseCase) ListForRequest(ctx context.Context, requestID uuid.UUID) ([]ProposalView, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	rows, err := u.proposals.ListByServiceRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	views := make([]ProposalView, 0, len(rows))
	promoted := make(map[uuid.UUID]bool, len(rows))
	for _, p := range rows {
		promoted[p.ProviderUserID] = true
		v := ProposalView{
			Ref:            p.ID.String(),
			ProviderUserID: p.ProviderUserID,
			Details:        p.Details,
			Price:          p.Price,
			Status:         p.Status,
			SubmittedAt:    p.CreatedAt,
		}
		u.attachContact(ctx, &v)
		views = append(views, v)
	}

	leads, err := u.leads.ListByServiceRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	for i := range leads {
		lead := &leads[i]
		meta := lead.ParsedMetadata()
		pp := meta.PendingProposal
		if pp == nil || promoted[lead.ProviderUserID] {
			continue
		}
		v := ProposalView{
			Ref:            PendingToken(lead.ID),
			Pending:        true,
			ProviderUserID: lead.ProviderUserID,
			Details:        pp.Details,
			Price:          pp.Price,
			Status:         pp.Status,
			SubmittedAt:    pp.SubmittedAt,
		}
		u.attachContact(ctx, &v)
		views = append(views, v)
	}

	return views, nil
}

// attachContact fills provider identity on the view; email/phone only when the
// effective status is ACCEPTED. Lookup failures leave the fields empty.
func (u *ProposalUseCase) attachContact(ctx context.Context, v *ProposalView) {
	usr, err := u.users.GetByID(ctx, v.ProviderUserID)
	if err != nil || usr == nil {
		return
	}
	v.ProviderName = usr.FullName
	if v.Status == entities.ProposalStatusAccepted {
		v.ProviderEmail = usr.Email
		v.ProviderPhone = usr.Phone
	}
}

// Reject marks a proposal rejected. For a pending reference only the lead and
// its metadata are rewritten; for a promoted row the row is updated and the
// originating lead is located best-effort — lead lookup failure never fails
// the rejection.
func (u *ProposalUseCase) Reject(ctx context.Context, requestID uuid.UUID, ref string, reason entities.RejectionReason, note string) error {
	if !entities.ValidRejectionReason(reason) {
		return ErrInvalidRejectionReason
	}
	if reason == entities.RejectionReasonOther && strings.TrimSpace(note) == "" {
		return ErrRejectionNoteRequired
	}

	if leadID, ok := parsePendingToken(ref); ok {
		return u.rejectPending(ctx, requestID, leadID)
	}

	proposalID, err := uuid.Parse(ref)
	if err != nil {
		return ErrProposalNotFound
	}
	p, err := u.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if p == nil || p.ServiceRequestID != requestID {
		return ErrProposalNotFound
	}
	if p.Status != entities.ProposalStatusSent {
		return ErrProposalProcessed
	}

	p.Status = entities.ProposalStatusRejected
	p.RejectionReason = &reason
	p.RejectionNote = strings.TrimSpace(note)
	if err := u.proposals.Update(ctx, p); err != nil {
		return err
	}

	u.rejectOriginatingLead(ctx, p)

	log.Info().
		Str("request_id", requestID.String()).
		Str("proposal_id", p.ID.String()).
		Str("reason", string(reason)).
		Msg("proposal.rejected")
	return nil
}

func (u *ProposalUseCase) rejectPending(ctx context.Context, requestID, leadID uuid.UUID) error {
	lead, err := u.leads.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return ErrProposalNotFound
	}
	meta := lead.ParsedMetadata()
	if id, ok := meta.RequestID(); !ok || id != requestID {
		return ErrProposalNotFound
	}
	pp := meta.PendingProposal
	if pp == nil {
		return ErrProposalNotFound
	}
	if pp.Status != entities.ProposalStatusSent {
		return ErrProposalProcessed
	}

	pp.Status = entities.ProposalStatusRejected
	meta.PendingProposal = pp
	lead.Metadata = meta.ToJSON()
	lead.Status = entities.LeadStatusRejected
	if err := u.leads.Update(ctx, lead); err != nil {
		return err
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("lead_id", leadID.String()).
		Msg("proposal.rejected")
	return nil
}

// rejectOriginatingLead locates the lead behind a promoted proposal by, in
// order: provider+request metadata match, a pending-proposal price heuristic,
// shared payment intent id. All failures are logged and swallowed.
func (u *ProposalUseCase) rejectOriginatingLead(ctx context.Context, p *entities.Proposal) {
	lead, err := u.leads.FindByProviderAndRequest(ctx, p.ProviderUserID, p.ServiceRequestID)
	if err != nil {
		log.Warn().Err(err).Str("proposal_id", p.ID.String()).Msg("reject: lead lookup by provider failed")
	}
	if lead == nil && p.PaymentIntentID != "" {
		lead, err = u.leads.FindByPaymentIntentID(ctx, p.PaymentIntentID)
		if err != nil {
			log.Warn().Err(err).Str("proposal_id", p.ID.String()).Msg("reject: lead lookup by intent failed")
		}
	}
	if lead == nil {
		leads, err := u.leads.ListByServiceRequestID(ctx, p.ServiceRequestID)
		if err != nil {
			log.Warn().Err(err).Str("proposal_id", p.ID.String()).Msg("reject: lead listing failed")
			return
		}
		for i := range leads {
			pp := leads[i].ParsedMetadata().PendingProposal
			if pp != nil && pp.Price == p.Price {
				lead = &leads[i]
				break
			}
		}
	}
	if lead == nil {
		return
	}

	meta := lead.ParsedMetadata()
	if meta.PendingProposal != nil {
		meta.PendingProposal.Status = entities.ProposalStatusRejected
		lead.Metadata = meta.ToJSON()
	}
	lead.Status = entities.LeadStatusRejected
	if err := u.leads.Update(ctx, lead); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID.String()).Msg("reject: lead update failed")
	}
}

// CreatePaymentIntent opens a gateway intent for the referenced offer,
// promoting a pending proposal to a first-class row. Re-invocation reuses an
// intent whose amount still matches; a stale intent with a different amount is
// canceled and replaced.
func (u *ProposalUseCase) CreatePaymentIntent(ctx context.Context, requestID uuid.UUID, ref string) (*IntentResult, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	var (
		lead     *entities.Lead
		proposal *entities.Proposal
		price    float64
	)

	if leadID, ok := parsePendingToken(ref); ok {
		lead, err = u.leads.GetByID(ctx, leadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, ErrProposalNotFound
		}
		meta := lead.ParsedMetadata()
		if id, ok := meta.RequestID(); !ok || id != requestID {
			return nil, ErrProposalNotFound
		}
		pp := meta.PendingProposal
		if pp == nil || pp.Status != entities.ProposalStatusSent {
			return nil, ErrProposalNotFound
		}
		price = pp.Price

		// A retried client call may race an earlier promotion; reuse the row
		// rather than stacking duplicates.
		proposal, err = u.proposals.GetActiveByProviderAndRequest(ctx, lead.ProviderUserID, requestID)
		if err != nil {
			return nil, err
		}
		// The lead metadata can lag behind the promoted row (lead updates are
		// best-effort). An already-accepted row keeps its paid intent.
		if proposal != nil && proposal.Status != entities.ProposalStatusSent {
			return nil, ErrProposalProcessed
		}
	} else {
		proposalID, perr := uuid.Parse(ref)
		if perr != nil {
			return nil, ErrProposalNotFound
		}
		proposal, err = u.proposals.GetByID(ctx, proposalID)
		if err != nil {
			return nil, err
		}
		if proposal == nil || proposal.ServiceRequestID != requestID {
			return nil, ErrProposalNotFound
		}
		if proposal.Status != entities.ProposalStatusSent {
			return nil, ErrProposalProcessed
		}
		price = proposal.Price
	}

	if price <= 0 {
		return nil, ErrInvalidProposalPrice
	}
	wantCents := amountCents(price)

	// Stale-intent recovery: a stored intent is reusable only while its amount
	// still matches the expected price.
	if proposal != nil && proposal.PaymentIntentID != "" {
		intent, gerr := u.gateway.GetIntent(ctx, proposal.PaymentIntentID)
		if gerr == nil && intent.AmountCents == wantCents && intent.Status == interfaces.IntentStatusPending {
			return &IntentResult{
				ProposalID:   proposal.ID,
				IntentID:     intent.ID,
				ClientSecret: intent.ClientSecret,
				AmountCents:  intent.AmountCents,
			}, nil
		}
		if gerr == nil && intent.AmountCents != wantCents {
			if cerr := u.gateway.CancelIntent(ctx, proposal.PaymentIntentID); cerr != nil {
				log.Warn().Err(cerr).Str("intent_id", proposal.PaymentIntentID).Msg("stale intent cancel failed")
			}
			proposal.PaymentIntentID = ""
			if uerr := u.proposals.Update(ctx, proposal); uerr != nil {
				return nil, uerr
			}
		}
	}

	reference := requestID.String()
	if proposal != nil {
		reference = proposal.ID.String()
	} else if lead != nil {
		reference = lead.ID.String()
	}

	intent, err := u.gateway.CreateIntent(ctx, interfaces.CreateIntentInput{
		AmountCents: wantCents,
		Description: fmt.Sprintf("Service request %s", requestID),
		Reference:   reference,
	})
	if err != nil {
		return nil, err
	}

	if proposal == nil {
		// First payment touch promotes the pending offer to a first-class row.
		proposal, err = promotePendingProposal(ctx, u.proposals, lead, requestID, intent.ID)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("request_id", requestID.String()).
			Str("proposal_id", proposal.ID.String()).
			Str("lead_id", lead.ID.String()).
			Msg("proposal.promoted")
	} else {
		proposal.PaymentIntentID = intent.ID
		if err := u.proposals.Update(ctx, proposal); err != nil {
			return nil, err
		}
	}

	if lead != nil {
		meta := lead.ParsedMetadata()
		meta.PaymentIntentID = intent.ID
		lead.Metadata = meta.ToJSON()
		if err := u.leads.Update(ctx, lead); err != nil {
			log.Warn().Err(err).Str("lead_id", lead.ID.String()).Msg("lead intent linkage update failed")
		}
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("proposal_id", proposal.ID.String()).
		Str("intent_id", intent.ID).
		Int64("amount_cents", intent.AmountCents).
		Msg("payment.intent_created")

	return &IntentResult{
		ProposalID:   proposal.ID,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.AmountCents,
	}, nil
}

// promotePendingProposal finds or creates the first-class row for a lead's
// pending proposal. Idempotent: matched first by payment intent id, then by an
// active row for the same provider+request, only then created.
func promotePendingProposal(ctx context.Context, proposals interfaces.IProposalRepository, lead *entities.Lead, requestID uuid.UUID, intentID string) (*entities.Proposal, error) {
	if intentID != "" {
		p, err := proposals.GetByPaymentIntentID(ctx, intentID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	p, err := proposals.GetActiveByProviderAndRequest(ctx, lead.ProviderUserID, requestID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		if intentID != "" && p.PaymentIntentID != intentID {
			p.PaymentIntentID = intentID
			if err := proposals.Update(ctx, p); err != nil {
				return nil, err
			}
		}
		return p, nil
	}

	pp := lead.ParsedMetadata().PendingProposal
	if pp == nil {
		return nil, ErrProposalNotFound
	}
	p = &entities.Proposal{
		ServiceRequestID: requestID,
		ProviderUserID:   lead.ProviderUserID,
		Details:          pp.Details,
		Price:            pp.Price,
		Status:           entities.ProposalStatusSent,
		PaymentIntentID:  intentID,
		PaymentStatus:    entities.PaymentStatusPending,
	}
	if err := proposals.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
