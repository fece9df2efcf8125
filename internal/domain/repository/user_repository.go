package repository

import (
	"context"
	"errors"

	"github.com/coursebay/lms-backend/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetToken resolves a user by the stored reset-token hash.
	GetByResetToken(ctx context.Context, tokenHash string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Count(ctx context.Context) (int64, error)
	CountActiveSubscribers(ctx context.Context) (int64, error)
}
