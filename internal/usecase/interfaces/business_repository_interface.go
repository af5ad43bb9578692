package interfaces

import (
	"context"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// IBusinessRepository abstracts persistence for Business.
//
// FirstByOwnerAndCategory/FirstByOwner/FirstByCategory/First back the review
// attribution fallback chain; each returns nil (not an error) when no row
// matches.
type IBusinessRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Business, error)
	ListActiveByCategoryAndZip(ctx context.Context, category, zipCode string) ([]entities.Business, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Business, error)
	FirstByOwnerAndCategory(ctx context.Context, ownerID uuid.UUID, category string) (*entities.Business, error)
	FirstByOwner(ctx context.Context, ownerID uuid.UUID) (*entities.Business, error)
	FirstByCategory(ctx context.Context, category string) (*entities.Business, error)
	First(ctx context.Context) (*entities.Business, error)
}
