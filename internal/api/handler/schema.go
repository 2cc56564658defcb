package handler

import (
	"github.com/adminhub/access-control/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   string `json:"role_id"  validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type createRoleRequest struct {
	Name        string                  `json:"name"        validate:"required,max=64"`
	Description string                  `json:"description" validate:"max=256"`
	Permissions domain.PermissionMatrix `json:"permissions"`
}

type checkRequest struct {
	Module string `query:"module" validate:"required,module"`
	Action string `query:"action" validate:"required,action"`
}

type checkResponse struct {
	Module  domain.Module `json:"module"`
	Action  domain.Action `json:"action"`
	Allowed bool          `json:"allowed"`
}

type permissionsResponse struct {
	UserID      string                  `json:"user_id"`
	RoleID      string                  `json:"role_id"`
	Permissions domain.PermissionMatrix `json:"permissions"`
}

type moduleResponse struct {
	Modules []domain.Module `json:"modules"`
	Actions []domain.Action `json:"actions"`
}
