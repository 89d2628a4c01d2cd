package repository

import (
	"context"
	"tally/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user account storage operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
