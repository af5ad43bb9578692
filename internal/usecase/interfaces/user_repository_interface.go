package interfaces

import (
	"context"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// IUserRepository abstracts persistence for User. The core only reads users
// (contact reveal, notification recipients); account management lives outside.
type IUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}
