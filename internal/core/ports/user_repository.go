package ports

import (
	"context"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserService resolves authenticated usernames to full user records. Handlers
// use it to fetch the actor before invoking the authorization gate.
type UserService interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
