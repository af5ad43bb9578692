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
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidZipCode       = errors.New("invalid zip code")
	ErrInvalidTitle         = errors.New("invalid title")
	ErrInvalidShortlist     = errors.New("invalid shortlist entry")
	ErrRequestNotCancelable = errors.New("request cannot be cancelled in its current status")
	ErrRequestNotApprovable = errors.New("request is not in progress")
	ErrWorkNotCompleted     = errors.New("work order not completed")
	ErrWorkOrderNotFound    = errors.New("work order not found")
	ErrNotAssignedProvider  = errors.New("user is not the assigned provider")
)

// CreateRequestInput carries the customer's request form.
type CreateRequestInput struct {
	CustomerID        uuid.UUID
	Category          string
	Subcategory       string
	ZipCode           string
	Title             string
	Description       string
	Attachments       []string
	PreferredSchedule *time.Time
	Shortlist         []uuid.UUID
}

// IRequestUseCase covers the request lifecycle outside proposal handling:
// creation (with assignment), cancellation, work completion and approval.
type IRequestUseCase interface {
	Create(ctx context.Context, in CreateRequestInput) (*entities.ServiceRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entities.ServiceRequest, error)
	Cancel(ctx context.Context, requestID uuid.UUID, reason string) error
	CompleteWork(ctx context.Context, requestID, providerUserID uuid.UUID) error
	Approve(ctx context.Context, requestID uuid.UUID) error
}

type RequestUseCase struct {
	tx         interfaces.ITxManager
	requests   interfaces.IServiceRequestRepository
	businesses interfaces.IBusinessRepository
	workOrders interfaces.IWorkOrderRepository
	ranking    IRankingUseCase
	payouts    IPayoutUseCase
}

var _ IRequestUseCase = (*RequestUseCase)(nil)

func NewRequestUseCase(
	tx interfaces.ITxManager,
	requests interfaces.IServiceRequestRepository,
	businesses interfaces.IBusinessRepository,
	workOrders interfaces.IWorkOrderRepository,
	ranking IRankingUseCase,
	payouts IPayoutUseCase,
) *RequestUseCase {
	return &RequestUseCase{
		tx:         tx,
		requests:   requests,
		businesses: businesses,
		workOrders: workOrders,
		ranking:    ranking,
		payouts:    payouts,
	}
}

// Create validates and persists the request, then runs provider assignment.
// An empty assignment leaves the request in REQUEST_CREATED; that is a valid
// outcome, not a failure.
func (u *RequestUseCase) Create(ctx context.Context, in CreateRequestInput) (*entities.ServiceRequest, error) {
	if strings.TrimSpace(in.Category) == "" {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(in.ZipCode) == "" {
		return nil, ErrInvalidZipCode
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidTitle
	}
	for _, id := range in.Shortlist {
		b, err := u.businesses.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidShortlist, id)
		}
	}

	req := &entities.ServiceRequest{
		CustomerID:          in.CustomerID,
		Category:            strings.TrimSpace(in.Category),
		Subcategory:         strings.TrimSpace(in.Subcategory),
		ZipCode:             strings.TrimSpace(in.ZipCode),
		Title:               strings.TrimSpace(in.Title),
		Description:         in.Description,
		Attachments:         entities.EncodeStringList(in.Attachments),
		SelectedBusinessIDs: entities.EncodeUUIDList(in.Shortlist),
		PreferredSchedule:   in.PreferredSchedule,
		Status:              entities.RequestStatusCreated,
	}
	if err := u.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID.String()).
		Str("category", req.Category).
		Str("zip", req.ZipCode).
		Msg("request.created")

	if _, err := u.ranking.AssignProviders(ctx, req); err != nil {
		// The request exists either way; assignment can be retried. Surface
		// the error so the caller knows routing did not happen.
		return req, err
	}
	return req, nil
}

func (u *RequestUseCase) Get(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error) {
	req, err := u.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (u *RequestUseCase) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entities.ServiceRequest, error) {
	return u.requests.ListByCustomer(ctx, customerID)
}

// Cancel closes the request from any non-closed status. When an accepted,
// paid proposal exists its payout is still owed to the provider, so the
// processor runs (idempotently) after the status change.
func (u *RequestUseCase) Cancel(ctx context.Context, requestID uuid.UUID, reason string) error {
	err := u.tx.Do(ctx, func(ctx context.Context) error {
		req, err := u.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if req.Status == entities.RequestStatusClosed {
			return ErrRequestNotCancelable
		}
		req.Status = entities.RequestStatusClosed
		req.CancelReason = strings.TrimSpace(reason)
		return u.requests.Update(ctx, req)
	})
	if err != nil {
		if isLockConflict(err) {
			return fmt.Errorf("%w: %v", ErrLockConflict, err)
		}
		return err
	}

	log.Info().Str("request_id", requestID.String()).Msg("request.cancelled")

	u.payouts.ProcessForRequest(ctx, requestID)
	return nil
}

// CompleteWork lets the assigned provider mark the work order COMPLETED.
func (u *RequestUseCase) CompleteWork(ctx context.Context, requestID, providerUserID uuid.UUID) error {
	order, err := u.workOrders.GetByServiceRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrWorkOrderNotFound
	}
	if order.ProviderUserID != providerUserID {
		return ErrNotAssignedProvider
	}
	if order.Status == entities.WorkOrderStatusCompleted {
		return nil
	}

	now := time.Now().UTC()
	order.Status = entities.WorkOrderStatusCompleted
	order.CompletedAt = &now
	if err := u.workOrders.Update(ctx, order); err != nil {
		return err
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("work_order_id", order.ID.String()).
		Msg("work_order.completed")
	return nil
}

// Approve moves an in-progress request to APPROVED once the work order
// reports COMPLETED, then triggers the payout best-effort.
func (u *RequestUseCase) Approve(ctx context.Context, requestID uuid.UUID) error {
	err := u.tx.Do(ctx, func(ctx context.Context) error {
		req, err := u.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrRequestNotFound
		}
		if req.Status != entities.RequestStatusInProgress {
			return ErrRequestNotApprovable
		}

		order, err := u.workOrders.GetByServiceRequestID(ctx, requestID)
		if err != nil {
			return err
		}
		if order == nil || order.Status != entities.WorkOrderStatusCompleted {
			return ErrWorkNotCompleted
		}

		req.Status = entities.RequestStatusApproved
		return u.requests.Update(ctx, req)
	})
	if err != nil {
		if isLockConflict(err) {
			return fmt.Errorf("%w: %v", ErrLockConflict, err)
		}
		return err
	}

	log.Info().Str("request_id", requestID.String()).Msg("request.approved")

	u.payouts.ProcessForRequest(ctx, requestID)
	return nil
}
