package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// LeadGormRepository persists Lead rows.
//
// Leads link back to their request only through metadata.serviceRequestId,
// so the by-request queries go through JSON-path expressions
// (datatypes.JSONQuery handles the dialect differences).
type LeadGormRepository struct {
	db *gorm.DB
}

var _ interfaces.ILeadRepository = (*LeadGormRepository)(nil)

func NewLeadGormRepository(db *gorm.DB) *LeadGormRepository {
	return &LeadGormRepository{db: db}
}

func (r *LeadGormRepository) Create(ctx context.Context, l *entities.Lead) error {
	return conn(ctx, r.db).Create(l).Error
}

func (r *LeadGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Lead, error) {
	var l entities.Lead
	err := conn(ctx, r.db).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadGormRepository) Update(ctx context.Context, l *entities.Lead) error {
	return conn(ctx, r.db).Save(l).Error
}

func (r *LeadGormRepository) ListByServiceRequestID(ctx context.Context, requestID uuid.UUID) ([]entities.Lead, error) {
	var out []entities.Lead
	err := conn(ctx, r.db).
		Where(datatypes.JSONQuery("metadata").Equals(requestID.String(), "serviceRequestId")).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *LeadGormRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*entities.Lead, error) {
	var l entities.Lead
	err := conn(ctx, r.db).
		Where(datatypes.JSONQuery("metadata").Equals(intentID, "paymentIntentId")).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadGormRepository) FindByProviderAndRequest(ctx context.Context, providerUserID, requestID uuid.UUID) (*entities.Lead, error) {
	var l entities.Lead
	err := conn(ctx, r.db).
		Where("provider_user_id = ?", providerUserID).
		Where(datatypes.JSONQuery("metadata").Equals(requestID.String(), "serviceRequestId")).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
