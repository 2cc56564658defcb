package ports

import (
	"context"

	"github.com/adminhub/access-control/internal/core/domain"
)

// UserRepository persists dashboard accounts and their override layer.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, roleID string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateCustomPermissions replaces the override for one module. An empty
	// set removes the module from the override layer.
	UpdateCustomPermissions(ctx context.Context, id string, module domain.Module, set domain.OverrideSet) error
}
