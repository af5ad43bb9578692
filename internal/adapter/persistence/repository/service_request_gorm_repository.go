package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// ServiceRequestGormRepository persists ServiceRequest rows.
type ServiceRequestGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IServiceRequestRepository = (*ServiceRequestGormRepository)(nil)

func NewServiceRequestGormRepository(db *gorm.DB) *ServiceRequestGormRepository {
	return &ServiceRequestGormRepository{db: db}
}

func (r *ServiceRequestGormRepository) Create(ctx context.Context, req *entities.ServiceRequest) error {
	return conn(ctx, r.db).Create(req).Error
}

func (r *ServiceRequestGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error) {
	var req entities.ServiceRequest
	err := conn(ctx, r.db).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ServiceRequestGormRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error) {
	var req entities.ServiceRequest
	err := withUpdateLock(conn(ctx, r.db)).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ServiceRequestGormRepository) Update(ctx context.Context, req *entities.ServiceRequest) error {
	return conn(ctx, r.db).Save(req).Error
}

func (r *ServiceRequestGormRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entities.ServiceRequest, error) {
	var out []entities.ServiceRequest
	err := conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
