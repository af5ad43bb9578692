package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// ProviderProfileGormRepository persists ProviderProfile rows.
type ProviderProfileGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IProviderProfileRepository = (*ProviderProfileGormRepository)(nil)

func NewProviderProfileGormRepository(db *gorm.DB) *ProviderProfileGormRepository {
	return &ProviderProfileGormRepository{db: db}
}

func (r *ProviderProfileGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ProviderProfile, error) {
	var p entities.ProviderProfile
	err := conn(ctx, r.db).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderProfileGormRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.ProviderProfile, error) {
	var p entities.ProviderProfile
	err := conn(ctx, r.db).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreateByUserID provisions a profile on first use. A lost creation race
// (unique index on user_id) resolves by re-querying, never by failing.
func (r *ProviderProfileGormRepository) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*entities.ProviderProfile, error) {
	p, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	created := &entities.ProviderProfile{UserID: userID}
	if err := conn(ctx, r.db).Create(created).Error; err != nil {
		p, qerr := r.GetByUserID(ctx, userID)
		if qerr == nil && p != nil {
			return p, nil
		}
		return nil, err
	}
	return created, nil
}

func (r *ProviderProfileGormRepository) UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int64) error {
	return conn(ctx, r.db).
		Model(&entities.ProviderProfile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_average": average,
			"rating_count":   count,
		}).Error
}
