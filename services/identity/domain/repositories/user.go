package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/services/identity/domain/models"
)

type UserRepository interface {
	// Save inserts a user. Returns ErrUserAlreadyExists on an email clash.
	Save(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByEmail expects a normalized address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
