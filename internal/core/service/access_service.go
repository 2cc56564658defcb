package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminhub/access-control/internal/api/metrics"
	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
)

// AccessService resolves permissions against the role and user stores and
// keeps the effective-permission cache coherent with every edit.
type AccessService struct {
	roles  ports.RoleRepository
	users  ports.UserRepository
	cache  ports.PermissionCache
	warmup ports.WarmupQueue
	log    zerolog.Logger
	now    func() time.Time
}

// NewAccessService wires the stores. cache may be nil, in which case every
// check reads the repositories.
func NewAccessService(roles ports.RoleRepository, users ports.UserRepository, cache ports.PermissionCache, log zerolog.Logger) *AccessService {
	return &AccessService{
		roles: roles,
		users: users,
		cache: cache,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// UseWarmupQueue makes edits schedule an asynchronous cache rebuild for
// every affected user after the synchronous invalidation.
func (s *AccessService) UseWarmupQueue(q ports.WarmupQueue) {
	s.warmup = q
}

// HasPermission reports whether userID may perform action on module.
// Lookup failures are logged and resolve to false.
func (s *AccessService) HasPermission(ctx context.Context, userID string, module domain.Module, action domain.Action) bool {
	start := time.Now()
	allowed := s.check(ctx, userID, module, action)
	metrics.PermissionCheckDuration.Observe(time.Since(start).Seconds())

	result := "deny"
	if allowed {
		result = "allow"
	}
	metrics.PermissionChecksTotal.WithLabelValues(moduleLabel(module), actionLabel(action), result).Inc()
	return allowed
}

func (s *AccessService) check(ctx context.Context, userID string, module domain.Module, action domain.Action) bool {
	if userID == "" || !module.Valid() || !action.Valid() {
		return false
	}
	matrix, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		s.log.Debug().Err(err).Str("user_id", userID).Str("module", string(module)).Msg("permission check failed closed")
		return false
	}
	return matrix.Allows(module, action)
}

// EffectivePermissions returns the dense matrix of every module and action
// resolved for userID, served from the cache when possible.
func (s *AccessService) EffectivePermissions(ctx context.Context, userID string) (domain.PermissionMatrix, error) {
	var (
		gen       uint64
		cacheable bool
	)
	if s.cache != nil {
		matrix, g, found, err := s.cache.Get(ctx, userID)
		switch {
		case err != nil:
			metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("user_id", userID).Msg("permission cache read failed, resolving from store")
		case found:
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return matrix, nil
		default:
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
			gen, cacheable = g, true
		}
	}

	matrix, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if _, err := s.store(ctx, userID, gen, matrix); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache effective permissions")
		}
	}
	return matrix, nil
}

// Warm recomputes userID's matrix and stores it in the cache. A current
// entry is left alone.
func (s *AccessService) Warm(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	_, gen, found, err := s.cache.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("warm %s: %w", userID, err)
	}
	if found {
		return nil
	}

	matrix, err := s.resolve(ctx, userID)
	if err != nil {
		return fmt.Errorf("warm %s: %w", userID, err)
	}
	if _, err := s.store(ctx, userID, gen, matrix); err != nil {
		return fmt.Errorf("warm %s: %w", userID, err)
	}
	return nil
}

// store writes matrix under the generation observed before resolving it.
// A write that lost to an invalidation is dropped.
func (s *AccessService) store(ctx context.Context, userID string, gen uint64, matrix domain.PermissionMatrix) (bool, error) {
	stored, err := s.cache.Set(ctx, userID, gen, matrix)
	switch {
	case err != nil:
		metrics.CacheWritesTotal.WithLabelValues("error").Inc()
	case stored:
		metrics.CacheWritesTotal.WithLabelValues("stored").Inc()
	default:
		metrics.CacheWritesTotal.WithLabelValues("stale").Inc()
		s.log.Debug().Str("user_id", userID).Uint64("generation", gen).Msg("discarded matrix resolved before an edit")
	}
	return stored, err
}

func (s *AccessService) resolve(ctx context.Context, userID string) (domain.PermissionMatrix, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return nil, fmt.Errorf("resolve permissions: %w", err)
		}
		s.log.Warn().Str("user_id", userID).Str("role_id", user.RoleID).Msg("user references a missing role")
		role = nil
	}

	return domain.Effective(user, role), nil
}

// UpdateRolePermissions replaces module's permission set on roleID and
// drops the cached matrices of every user holding the role.
func (s *AccessService) UpdateRolePermissions(ctx context.Context, roleID string, module domain.Module, set domain.PermissionSet) error {
	if !module.Valid() {
		return fmt.Errorf("update role permissions: %w: %q", domain.ErrUnknownModule, module)
	}

	if err := s.roles.UpdatePermissions(ctx, roleID, module, set); err != nil {
		metrics.PermissionUpdatesTotal.WithLabelValues("role", updateResult(err, domain.ErrRoleNotFound)).Inc()
		return fmt.Errorf("update role permissions: %w", err)
	}

	affected, err := s.users.ListByRole(ctx, roleID)
	if err != nil {
		metrics.PermissionUpdatesTotal.WithLabelValues("role", "error").Inc()
		return fmt.Errorf("update role permissions: list holders: %w", err)
	}
	ids := make([]string, 0, len(affected))
	for _, u := range affected {
		ids = append(ids, u.ID)
	}
	if err := s.invalidate(ctx, ids...); err != nil {
		metrics.PermissionUpdatesTotal.WithLabelValues("role", "error").Inc()
		return fmt.Errorf("update role permissions: %w", err)
	}

	metrics.PermissionUpdatesTotal.WithLabelValues("role", "ok").Inc()
	s.log.Info().
		Str("role_id", roleID).
		Str("module", string(module)).
		Int("affected_users", len(ids)).
		Msg("role permissions updated")
	return nil
}

// UpdateUserCustomPermissions replaces userID's override for module.
func (s *AccessService) UpdateUserCustomPermissions(ctx context.Context, userID string, module domain.Module, set domain.OverrideSet) error {
	if !module.Valid() {
		return fmt.Errorf("update user permissions: %w: %q", domain.ErrUnknownModule, module)
	}

	if err := s.users.UpdateCustomPermissions(ctx, userID, module, set); err != nil {
		metrics.PermissionUpdatesTotal.WithLabelValues("user", updateResult(err, domain.ErrUserNotFound)).Inc()
		return fmt.Errorf("update user permissions: %w", err)
	}
	if err := s.invalidate(ctx, userID); err != nil {
		metrics.PermissionUpdatesTotal.WithLabelValues("user", "error").Inc()
		return fmt.Errorf("update user permissions: %w", err)
	}

	metrics.PermissionUpdatesTotal.WithLabelValues("user", "ok").Inc()
	s.log.Info().
		Str("user_id", userID).
		Str("module", string(module)).
		Bool("cleared", set.IsEmpty()).
		Msg("user permission override updated")
	return nil
}

// invalidate must finish before an edit returns so the next check observes it.
func (s *AccessService) invalidate(ctx context.Context, userIDs ...string) error {
	if s.cache == nil || len(userIDs) == 0 {
		return nil
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	if s.warmup != nil {
		for _, id := range userIDs {
			s.warmup.Enqueue(id)
		}
	}
	return nil
}

func (s *AccessService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}

func (s *AccessService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *AccessService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// CreateRole adds a role to the catalog. Every module in the matrix must be known.
func (s *AccessService) CreateRole(ctx context.Context, input ports.CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("create role: %w: name is required", domain.ErrInvalidInput)
	}
	for m := range input.Permissions {
		if !m.Valid() {
			return nil, fmt.Errorf("create role: %w: %q", domain.ErrUnknownModule, m)
		}
	}

	now := s.now()
	role := &domain.Role{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Permissions: input.Permissions.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if role.Permissions == nil {
		role.Permissions = domain.PermissionMatrix{}
	}

	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	metrics.RolesCreatedTotal.Inc()
	s.log.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return created, nil
}

func updateResult(err, notFound error) string {
	if errors.Is(err, notFound) {
		return "not_found"
	}
	return "error"
}

// moduleLabel keeps caller-supplied values out of metric label sets.
func moduleLabel(m domain.Module) string {
	if !m.Valid() {
		return "unknown"
	}
	return string(m)
}

func actionLabel(a domain.Action) string {
	if !a.Valid() {
		return "unknown"
	}
	return string(a)
}
