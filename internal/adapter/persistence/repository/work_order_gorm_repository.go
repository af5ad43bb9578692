package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// WorkOrderGormRepository persists WorkOrder rows.
type WorkOrderGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IWorkOrderRepository = (*WorkOrderGormRepository)(nil)

func NewWorkOrderGormRepository(db *gorm.DB) *WorkOrderGormRepository {
	return &WorkOrderGormRepository{db: db}
}

func (r *WorkOrderGormRepository) Create(ctx context.Context, w *entities.WorkOrder) error {
	return conn(ctx, r.db).Create(w).Error
}

func (r *WorkOrderGormRepository) GetByServiceRequestID(ctx context.Context, requestID uuid.UUID) (*entities.WorkOrder, error) {
	var w entities.WorkOrder
	err := conn(ctx, r.db).First(&w, "service_request_id = ?", requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkOrderGormRepository) Update(ctx context.Context, w *entities.WorkOrder) error {
	return conn(ctx, r.db).Save(w).Error
}
