package ports

import (
	"context"

	"github.com/adminhub/access-control/internal/core/domain"
)

// RoleRepository persists the role catalog.
type RoleRepository interface {
	List(ctx context.Context) ([]*domain.Role, error)
	// FindByID returns domain.ErrRoleNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	// Create assigns an id when role.ID is empty. Duplicate names return
	// domain.ErrRoleExists.
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// UpdatePermissions replaces the whole permission set of one module.
	UpdatePermissions(ctx context.Context, id string, module domain.Module, set domain.PermissionSet) error
}
