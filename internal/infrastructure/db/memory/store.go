// Package memory holds the default session stores: role catalog and user
// accounts kept in process memory, seeded at startup and reset on restart.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adminhub/access-control/internal/core/domain"
)

// RoleRepository is a mutex-guarded role catalog.
type RoleRepository struct {
	mu     sync.RWMutex
	roles  map[string]*domain.Role
	nextID int
	now    func() time.Time
}

// NewRoleRepository returns a catalog holding roles.
func NewRoleRepository(roles []*domain.Role) *RoleRepository {
	r := &RoleRepository{
		roles: make(map[string]*domain.Role, len(roles)),
		now:   func() time.Time { return time.Now().UTC() },
	}
	r.load(roles)
	return r
}

func (r *RoleRepository) load(roles []*domain.Role) {
	r.roles = make(map[string]*domain.Role, len(roles))
	r.nextID = 0
	for _, role := range roles {
		r.roles[role.ID] = role.Clone()
		if n, err := strconv.Atoi(role.ID); err == nil && n > r.nextID {
			r.nextID = n
		}
	}
}

// Reset replaces the catalog with roles.
func (r *RoleRepository) Reset(roles []*domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(roles)
}

// List returns roles ordered by numeric id, then lexically.
func (r *RoleRepository) List(_ context.Context) ([]*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i].ID, out[j].ID) })
	return out, nil
}

func (r *RoleRepository) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return role.Clone(), nil
}

func (r *RoleRepository) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.roles {
		if strings.EqualFold(existing.Name, role.Name) {
			return nil, domain.ErrRoleExists
		}
	}

	c := role.Clone()
	if c.ID == "" {
		r.nextID++
		c.ID = strconv.Itoa(r.nextID)
	} else if _, taken := r.roles[c.ID]; taken {
		return nil, domain.ErrRoleExists
	}
	r.roles[c.ID] = c
	return c.Clone(), nil
}

func (r *RoleRepository) UpdatePermissions(_ context.Context, id string, module domain.Module, set domain.PermissionSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return domain.ErrRoleNotFound
	}
	perms := role.Permissions.Clone()
	if perms == nil {
		perms = domain.PermissionMatrix{}
	}
	perms[module] = set
	role.Permissions = perms
	role.UpdatedAt = r.now()
	return nil
}

// UserRepository is a mutex-guarded account store indexed by id.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	nextID int
	now    func() time.Time
}

func NewUserRepository(users []*domain.User) *UserRepository {
	r := &UserRepository{now: func() time.Time { return time.Now().UTC() }}
	r.load(users)
	return r
}

func (r *UserRepository) load(users []*domain.User) {
	r.users = make(map[string]*domain.User, len(users))
	r.nextID = 0
	for _, u := range users {
		r.users[u.ID] = u.Clone()
		if n, err := strconv.Atoi(u.ID); err == nil && n > r.nextID {
			r.nextID = n
		}
	}
}

// Reset replaces every account with users.
func (r *UserRepository) Reset(users []*domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(users)
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) ListByRole(_ context.Context, roleID string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.User
	for _, u := range r.users {
		if u.RoleID == roleID {
			out = append(out, u.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i].ID, out[j].ID) })
	return out, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}

	c := user.Clone()
	if c.ID == "" {
		r.nextID++
		c.ID = strconv.Itoa(r.nextID)
	} else if _, taken := r.users[c.ID]; taken {
		return nil, domain.ErrUserExists
	}
	r.users[c.ID] = c
	return c.Clone(), nil
}

func (r *UserRepository) UpdateCustomPermissions(_ context.Context, id string, module domain.Module, set domain.OverrideSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CustomPermissions = u.CustomPermissions.With(module, set)
	u.UpdatedAt = r.now()
	return nil
}

// lessID orders numeric ids numerically and everything else lexically.
func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
