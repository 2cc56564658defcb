package ports

import (
	"context"

	"github.com/adminhub/access-control/internal/core/domain"
)

// RegisterInput carries the data for a new dashboard account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	RoleID   string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login returns a signed token and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
