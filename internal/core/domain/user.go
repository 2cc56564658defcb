package domain

import "time"

// User is a dashboard account. RoleID should reference a role in the
// catalog; with a dangling reference the role grants nothing, but explicit
// overrides in CustomPermissions still apply.
type User struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	PasswordHash      string         `json:"-"`
	RoleID            string         `json:"role_id"`
	CustomPermissions OverrideMatrix `json:"custom_permissions,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.CustomPermissions = u.CustomPermissions.Clone()
	return &c
}
