package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// payoutClaimableStates are the payout statuses the conditional completion
// update may transition from.
var payoutClaimableStates = []entities.PayoutStatus{
	entities.PayoutStatusUnset,
	entities.PayoutStatusPending,
	entities.PayoutStatusProcessing,
}

// ProposalGormRepository persists Proposal rows.
type ProposalGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IProposalRepository = (*ProposalGormRepository)(nil)

func NewProposalGormRepository(db *gorm.DB) *ProposalGormRepository {
	return &ProposalGormRepository{db: db}
}

func (r *ProposalGormRepository) Create(ctx context.Context, p *entities.Proposal) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *ProposalGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Proposal, error) {
	var p entities.Proposal
	err := conn(ctx, r.db).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalGormRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Proposal, error) {
	var p entities.Proposal
	err := withUpdateLock(conn(ctx, r.db)).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalGormRepository) Update(ctx context.Context, p *entities.Proposal) error {
	return conn(ctx, r.db).Save(p).Error
}

func (r *ProposalGormRepository) GetByPaymentIntentID(ctx context.Context, intentID string) (*entities.Proposal, error) {
	var p entities.Proposal
	err := conn(ctx, r.db).First(&p, "payment_intent_id = ?", intentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalGormRepository) GetActiveByProviderAndRequest(ctx context.Context, providerUserID, requestID uuid.UUID) (*entities.Proposal, error) {
	var p entities.Proposal
	err := conn(ctx, r.db).
		Where("provider_user_id = ? AND service_request_id = ?", providerUserID, requestID).
		Where("status IN ?", []entities.ProposalStatus{entities.ProposalStatusSent, entities.ProposalStatusAccepted}).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalGormRepository) ListByServiceRequestID(ctx context.Context, requestID uuid.UUID) ([]entities.Proposal, error) {
	var out []entities.Proposal
	err := conn(ctx, r.db).
		Where("service_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *ProposalGormRepository) RejectOtherSent(ctx context.Context, requestID, winnerID uuid.UUID) (int64, error) {
	res := conn(ctx, r.db).
		Model(&entities.Proposal{}).
		Where("service_request_id = ? AND id <> ? AND status = ?", requestID, winnerID, entities.ProposalStatusSent).
		Update("status", entities.ProposalStatusRejected)
	return res.RowsAffected, res.Error
}

func (r *ProposalGormRepository) MarkPayoutProcessing(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).
		Model(&entities.Proposal{}).
		Where("id = ? AND payout_status IN ?", id, []entities.PayoutStatus{entities.PayoutStatusUnset, entities.PayoutStatusPending}).
		Update("payout_status", entities.PayoutStatusProcessing).Error
}

// MarkPayoutCompleted claims the payout with one guarded update and reports
// whether this call was the one that flipped the row.
func (r *ProposalGormRepository) MarkPayoutCompleted(ctx context.Context, id uuid.UUID, amount, fee float64, processedAt time.Time) (bool, error) {
	res := conn(ctx, r.db).
		Model(&entities.Proposal{}).
		Where("id = ? AND payout_status IN ?", id, payoutClaimableStates).
		Updates(map[string]any{
			"payout_status":       entities.PayoutStatusCompleted,
			"payout_amount":       amount,
			"platform_fee_amount": fee,
			"payout_processed_at": processedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProposalGormRepository) MarkPayoutFailed(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).
		Model(&entities.Proposal{}).
		Where("id = ? AND payout_status IN ?", id, payoutClaimableStates).
		Update("payout_status", entities.PayoutStatusFailed).Error
}

// CompletePayoutRaw bypasses the ORM update path entirely; last resort when
// the guarded update cannot be verified.
func (r *ProposalGormRepository) CompletePayoutRaw(ctx context.Context, id uuid.UUID, amount, fee float64, processedAt time.Time) error {
	return conn(ctx, r.db).Exec(
		"UPDATE proposals SET payout_status = ?, payout_amount = ?, platform_fee_amount = ?, payout_processed_at = ? WHERE id = ? AND payout_status <> ?",
		entities.PayoutStatusCompleted, amount, fee, processedAt, id, entities.PayoutStatusCompleted,
	).Error
}
