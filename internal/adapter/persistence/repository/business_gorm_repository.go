package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// BusinessGormRepository persists Business rows.
type BusinessGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IBusinessRepository = (*BusinessGormRepository)(nil)

func NewBusinessGormRepository(db *gorm.DB) *BusinessGormRepository {
	return &BusinessGormRepository{db: db}
}

func (r *BusinessGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Business, error) {
	var b entities.Business
	err := conn(ctx, r.db).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessGormRepository) ListActiveByCategoryAndZip(ctx context.Context, category, zipCode string) ([]entities.Business, error) {
	var out []entities.Business
	err := conn(ctx, r.db).
		Where("category = ? AND zip_code = ? AND active = ?", category, zipCode, true).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *BusinessGormRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Business, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []entities.Business
	err := conn(ctx, r.db).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *BusinessGormRepository) FirstByOwnerAndCategory(ctx context.Context, ownerID uuid.UUID, category string) (*entities.Business, error) {
	return r.first(ctx, "owner_id = ? AND category = ?", ownerID, category)
}

func (r *BusinessGormRepository) FirstByOwner(ctx context.Context, ownerID uuid.UUID) (*entities.Business, error) {
	return r.first(ctx, "owner_id = ?", ownerID)
}

func (r *BusinessGormRepository) FirstByCategory(ctx context.Context, category string) (*entities.Business, error) {
	return r.first(ctx, "category = ?", category)
}

func (r *BusinessGormRepository) First(ctx context.Context) (*entities.Business, error) {
	return r.first(ctx, "1 = 1")
}

func (r *BusinessGormRepository) first(ctx context.Context, query string, args ...any) (*entities.Business, error) {
	var b entities.Business
	err := conn(ctx, r.db).
		Where(query, args...).
		Order("created_at ASC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
