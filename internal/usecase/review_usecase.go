package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

var (
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrReviewNotAllowed    = errors.New("request is not approved or closed")
	ErrDuplicateReview     = errors.New("review already exists for this request")
	ErrNoProviderForReview = errors.New("request has no provider to review")
)

// IReviewUseCase records a rating after approval and closes the request.
type IReviewUseCase interface {
	Submit(ctx context.Context, requestID, customerID uuid.UUID, rating int, title, comment string) (uuid.UUID, error)
}

type ReviewUseCase struct {
	tx         interfaces.ITxManager
	requests   interfaces.IServiceRequestRepository
	reviews    interfaces.IReviewRepository
	businesses interfaces.IBusinessRepository
	profiles   interfaces.IProviderProfileRepository
	payouts    IPayoutUseCase
}

var _ IReviewUseCase = (*ReviewUseCase)(nil)

func NewReviewUseCase(
	tx interfaces.ITxManager,
	requests interfaces.IServiceRequestRepository,
	reviews interfaces.IReviewRepository,
	businesses interfaces.IBusinessRepository,
	profiles interfaces.IProviderProfileRepository,
	payouts IPayoutUseCase,
) *ReviewUseCase {
	return &ReviewUseCase{
		tx:         tx,
		requests:   requests,
		reviews:    reviews,
		businesses: businesses,
		profiles:   profiles,
		payouts:    payouts,
	}
}

// Submit validates, writes the review inside a transaction and closes the
// request. Rating recomputation and payout triggering run after commit so
// they never extend lock hold time and never roll back a recorded review.
func (u *ReviewUseCase) Submit(ctx context.Context, requestID, customerID uuid.UUID, rating int, title, comment string) (uuid.UUID, error) {
	if rating < 1 || rating > 5 {
		return uuid.Nil, ErrInvalidRating
	}

	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		return uuid.Nil, err
	}
	if req == nil {
		return uuid.Nil, ErrRequestNotFound
	}
	if req.Status != entities.RequestStatusApproved && req.Status != entities.RequestStatusClosed {
		return uuid.Nil, ErrReviewNotAllowed
	}

	exists, err := u.reviews.ExistsForRequest(ctx, customerID, requestID)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrDuplicateReview
	}

	var providerUserID uuid.UUID
	var reviewID uuid.UUID
	err = u.tx.Do(ctx, func(ctx context.Context) error {
		locked, err := u.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrRequestNotFound
		}

		providerUserID, err = u.resolveProviderUser(ctx, locked)
		if err != nil {
			return err
		}

		business, err := u.resolveBusiness(ctx, locked, providerUserID)
		if err != nil {
			return err
		}

		requestRef := locked.ID
		review := &entities.Review{
			ServiceRequestID: &requestRef,
			CustomerID:       customerID,
			ProviderUserID:   providerUserID,
			BusinessID:       business.ID,
			Rating:           rating,
			Title:            strings.TrimSpace(title),
			Comment:          strings.TrimSpace(comment),
		}
		if err := u.reviews.Create(ctx, review); err != nil {
			return err
		}
		reviewID = review.ID

		locked.Status = entities.RequestStatusClosed
		return u.requests.Update(ctx, locked)
	})
	if err != nil {
		if isLockConflict(err) {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrLockConflict, err)
		}
		return uuid.Nil, err
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("review_id", reviewID.String()).
		Int("rating", rating).
		Msg("request.closed")

	u.recomputeProviderRating(ctx, providerUserID)
	u.payouts.ProcessForRequest(ctx, requestID)

	return reviewID, nil
}

// resolveProviderUser maps the request's primary provider profile back to the
// provider user the review rates.
func (u *ReviewUseCase) resolveProviderUser(ctx context.Context, req *entities.ServiceRequest) (uuid.UUID, error) {
	if req.PrimaryProviderID == nil {
		return uuid.Nil, ErrNoProviderForReview
	}
	profile, err := u.profiles.GetByID(ctx, *req.PrimaryProviderID)
	if err != nil {
		return uuid.Nil, err
	}
	if profile == nil {
		return uuid.Nil, ErrNoProviderForReview
	}
	return profile.UserID, nil
}

// resolveBusiness walks the attribution fallback chain: provider's business
// in the request's category, provider's any business, category's any
// business, any business at all. A review must never fail to attach.
func (u *ReviewUseCase) resolveBusiness(ctx context.Context, req *entities.ServiceRequest, providerUserID uuid.UUID) (*entities.Business, error) {
	if b, err := u.businesses.FirstByOwnerAndCategory(ctx, providerUserID, req.Category); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if b, err := u.businesses.FirstByOwner(ctx, providerUserID); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if b, err := u.businesses.FirstByCategory(ctx, req.Category); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	b, err := u.businesses.First(ctx)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.New("no business available for review attribution")
	}
	return b, nil
}

// recomputeProviderRating refreshes the denormalized aggregate; best-effort.
func (u *ReviewUseCase) recomputeProviderRating(ctx context.Context, providerUserID uuid.UUID) {
	avg, count, err := u.reviews.AggregateForProvider(ctx, providerUserID)
	if err != nil {
		log.Warn().Err(err).Str("provider_user_id", providerUserID.String()).Msg("review: rating aggregate failed")
		return
	}
	profile, err := u.profiles.GetByUserID(ctx, providerUserID)
	if err != nil || profile == nil {
		log.Warn().Err(err).Str("provider_user_id", providerUserID.String()).Msg("review: profile load failed")
		return
	}
	if err := u.profiles.UpdateRating(ctx, profile.ID, avg, count); err != nil {
		log.Warn().Err(err).Str("provider_user_id", providerUserID.String()).Msg("review: rating update failed")
	}
}
