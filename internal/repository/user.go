package repository

import (
	"context"

	"noteful-server/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create inserts the user and assigns its id. The storage-level
	// uniqueness constraint on username is the authoritative duplicate
	// signal; Create reports it as domain.ErrDuplicateUsername.
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
