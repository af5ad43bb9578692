package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// ReviewGormRepository persists Review rows.
type ReviewGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IReviewRepository = (*ReviewGormRepository)(nil)

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, review *entities.Review) error {
	return conn(ctx, r.db).Create(review).Error
}

// ExistsForRequest checks the direct column first, then scans legacy rows
// whose request link still lives in metadata. The scan is bounded to the
// customer's own reviews.
func (r *ReviewGormRepository) ExistsForRequest(ctx context.Context, customerID, requestID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&entities.Review{}).
		Where("customer_id = ? AND service_request_id = ?", customerID, requestID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	var legacy []entities.Review
	err = conn(ctx, r.db).
		Where("customer_id = ? AND service_request_id IS NULL", customerID).
		Find(&legacy).Error
	if err != nil {
		return false, err
	}
	for i := range legacy {
		if id, ok := legacy[i].RequestID(); ok && id == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReviewGormRepository) AggregateForProvider(ctx context.Context, providerUserID uuid.UUID) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := conn(ctx, r.db).
		Model(&entities.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("provider_user_id = ?", providerUserID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}
