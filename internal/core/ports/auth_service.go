package ports

import (
	"context"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

// AuthService implements the account shell: registration and login.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
