package ports

import (
	"context"

	"github.com/adminhub/access-control/internal/core/domain"
)

// CreateRoleInput carries the data for a new catalog entry.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions domain.PermissionMatrix
}

// AccessService resolves and edits permissions for any user in the store.
type AccessService interface {
	// HasPermission never fails: missing data resolves to false.
	HasPermission(ctx context.Context, userID string, module domain.Module, action domain.Action) bool
	EffectivePermissions(ctx context.Context, userID string) (domain.PermissionMatrix, error)
	UpdateRolePermissions(ctx context.Context, roleID string, module domain.Module, set domain.PermissionSet) error
	UpdateUserCustomPermissions(ctx context.Context, userID string, module domain.Module, set domain.OverrideSet) error
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
