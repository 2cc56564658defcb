package domain

import "errors"

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleExists         = errors.New("role already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrUnknownModule      = errors.New("unknown module")
	ErrUnknownAction      = errors.New("unknown action")
)

// ErrInvalidInput marks requests rejected before reaching a store.
var ErrInvalidInput = errors.New("invalid input")
