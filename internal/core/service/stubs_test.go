package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/adminhub/access-control/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubRoleRepo struct {
	roles     map[string]*domain.Role
	findErr   error
	updateErr error
	nextID    int
}

func newStubRoleRepo(roles ...*domain.Role) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]*domain.Role), nextID: 100}
	for _, role := range roles {
		r.roles[role.ID] = role.Clone()
	}
	return r
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role.Clone())
	}
	return out, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return role.Clone(), nil
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	c := role.Clone()
	if c.ID == "" {
		r.nextID++
		c.ID = fmt.Sprint(r.nextID)
	}
	r.roles[c.ID] = c
	return c.Clone(), nil
}

func (r *stubRoleRepo) UpdatePermissions(_ context.Context, id string, module domain.Module, set domain.PermissionSet) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	role, ok := r.roles[id]
	if !ok {
		return domain.ErrRoleNotFound
	}
	if role.Permissions == nil {
		role.Permissions = domain.PermissionMatrix{}
	}
	role.Permissions[module] = set
	return nil
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u.Clone()
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByRole(_ context.Context, roleID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.RoleID == roleID {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := user.Clone()
	if c.ID == "" {
		c.ID = fmt.Sprintf("u%d", len(r.users)+1)
	}
	r.users[c.ID] = c
	return c.Clone(), nil
}

func (r *stubUserRepo) UpdateCustomPermissions(_ context.Context, id string, module domain.Module, set domain.OverrideSet) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CustomPermissions = u.CustomPermissions.With(module, set)
	return nil
}

type stubCache struct {
	entries     map[string]domain.PermissionMatrix
	gens        map[string]uint64
	getErr      error
	invalidated []string
	sets        int
	staleSets   int
}

func newStubCache() *stubCache {
	return &stubCache{
		entries: make(map[string]domain.PermissionMatrix),
		gens:    make(map[string]uint64),
	}
}

func (c *stubCache) Get(_ context.Context, userID string) (domain.PermissionMatrix, uint64, bool, error) {
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	m, ok := c.entries[userID]
	return m.Clone(), c.gens[userID], ok, nil
}

func (c *stubCache) Set(_ context.Context, userID string, gen uint64, m domain.PermissionMatrix) (bool, error) {
	if c.gens[userID] != gen {
		c.staleSets++
		return false, nil
	}
	c.sets++
	c.entries[userID] = m.Clone()
	return true, nil
}

func (c *stubCache) Invalidate(_ context.Context, userIDs ...string) error {
	for _, id := range userIDs {
		c.gens[id]++
		delete(c.entries, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

// pausingUserRepo runs afterRead once, between FindByID loading a user and
// returning it, so tests can slip an edit into the middle of a resolution.
type pausingUserRepo struct {
	*stubUserRepo
	afterRead func()
}

func (r *pausingUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.stubUserRepo.FindByID(ctx, id)
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
	return u, err
}

type stubQueue struct {
	enqueued []string
}

func (q *stubQueue) Enqueue(userID string) {
	q.enqueued = append(q.enqueued, userID)
}

var errBoom = errors.New("boom")
