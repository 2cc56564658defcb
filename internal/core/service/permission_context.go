package service

import (
	"context"

	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
)

// PermissionContext binds the role catalog to the user a request acts as.
// It is built per request and handed to whatever needs permission checks;
// there is no process-wide current user.
type PermissionContext struct {
	access  ports.AccessService
	current *domain.User
}

// NewPermissionContext returns a context for current. A nil user denies
// every check.
func NewPermissionContext(access ports.AccessService, current *domain.User) *PermissionContext {
	return &PermissionContext{access: access, current: current.Clone()}
}

// CurrentUser returns a copy of the bound user, or nil.
func (p *PermissionContext) CurrentUser() *domain.User {
	if p == nil {
		return nil
	}
	return p.current.Clone()
}

// HasPermission fails closed when no user is bound.
func (p *PermissionContext) HasPermission(ctx context.Context, module domain.Module, action domain.Action) bool {
	if p == nil || p.access == nil || p.current == nil {
		return false
	}
	return p.access.HasPermission(ctx, p.current.ID, module, action)
}

// EffectivePermissions resolves every module and action for the bound user.
func (p *PermissionContext) EffectivePermissions(ctx context.Context) (domain.PermissionMatrix, error) {
	if p == nil || p.access == nil || p.current == nil {
		return domain.Effective(nil, nil), nil
	}
	return p.access.EffectivePermissions(ctx, p.current.ID)
}

// Roles lists the role catalog. A nil context has no catalog to read.
func (p *PermissionContext) Roles(ctx context.Context) ([]*domain.Role, error) {
	if p == nil || p.access == nil {
		return nil, nil
	}
	return p.access.ListRoles(ctx)
}

// UpdateRolePermissions replaces the whole permission set of module on roleID.
// A nil context reports domain.ErrRoleNotFound.
func (p *PermissionContext) UpdateRolePermissions(ctx context.Context, roleID string, module domain.Module, set domain.PermissionSet) error {
	if p == nil || p.access == nil {
		return domain.ErrRoleNotFound
	}
	return p.access.UpdateRolePermissions(ctx, roleID, module, set)
}

// UpdateUserCustomPermissions replaces the bound user's override for
// module. Any other userID returns domain.ErrUserNotFound and leaves the
// bound user untouched.
func (p *PermissionContext) UpdateUserCustomPermissions(ctx context.Context, userID string, module domain.Module, set domain.OverrideSet) error {
	if p == nil || p.access == nil || p.current == nil || p.current.ID != userID {
		return domain.ErrUserNotFound
	}
	if err := p.access.UpdateUserCustomPermissions(ctx, userID, module, set); err != nil {
		return err
	}

	refreshed, err := p.access.GetUser(ctx, userID)
	if err != nil {
		// The write landed; keep the local view in step with it.
		p.current.CustomPermissions = p.current.CustomPermissions.With(module, set)
		return nil
	}
	p.current = refreshed.Clone()
	return nil
}
