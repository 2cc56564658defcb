package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
	"github.com/adminhub/access-control/internal/core/service"
)

type stubAccess struct {
	users  map[string]*domain.User
	grants map[string]domain.PermissionMatrix
}

func (s *stubAccess) HasPermission(_ context.Context, userID string, m domain.Module, a domain.Action) bool {
	return s.grants[userID].Allows(m, a)
}

func (s *stubAccess) EffectivePermissions(_ context.Context, userID string) (domain.PermissionMatrix, error) {
	return s.grants[userID], nil
}

func (s *stubAccess) UpdateRolePermissions(context.Context, string, domain.Module, domain.PermissionSet) error {
	return nil
}

func (s *stubAccess) UpdateUserCustomPermissions(context.Context, string, domain.Module, domain.OverrideSet) error {
	return nil
}

func (s *stubAccess) ListRoles(context.Context) ([]*domain.Role, error) { return nil, nil }

func (s *stubAccess) GetRole(context.Context, string) (*domain.Role, error) {
	return nil, domain.ErrRoleNotFound
}

func (s *stubAccess) CreateRole(context.Context, ports.CreateRoleInput) (*domain.Role, error) {
	return nil, nil
}

func (s *stubAccess) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func newStubAccess() *stubAccess {
	return &stubAccess{
		users: map[string]*domain.User{"1": {ID: "1", RoleID: "1"}},
		grants: map[string]domain.PermissionMatrix{
			"1": {domain.ModuleFinance: domain.ReadOnly()},
		},
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuth_BindsPermissionContext(t *testing.T) {
	access := newStubAccess()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	c, _ := newContext(req)

	var bound *service.PermissionContext
	err := Auth("secret", access)(func(c echo.Context) error {
		bound = PermissionContextFrom(c)
		return nil
	})(c)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if bound == nil || bound.CurrentUser().ID != "1" {
		t.Fatalf("expected permission context for user 1")
	}
}

func TestAuth_Rejects(t *testing.T) {
	access := newStubAccess()
	valid := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"bad signature":  "Bearer " + signToken(t, "other", jwt.MapClaims{"sub": "1", "exp": valid}),
		"expired":        "Bearer " + signToken(t, "secret", jwt.MapClaims{"sub": "1", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no subject":     "Bearer " + signToken(t, "secret", jwt.MapClaims{"exp": valid}),
		"unknown user":   "Bearer " + signToken(t, "secret", jwt.MapClaims{"sub": "999", "exp": valid}),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			c, _ := newContext(req)

			err := Auth("secret", access)(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})(c)
			if code := httpCode(t, err); code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})
	}
}

func TestGuard_Allows(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := newContext(req)
	c.Set(PermissionContextKey, service.NewPermissionContext(newStubAccess(), &domain.User{ID: "1", RoleID: "1"}))

	called := false
	handler := Guard(domain.ModuleFinance, domain.ActionView)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected protected handler to run, code=%d", rec.Code)
	}
}

func TestGuard_Forbids(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := newContext(req)
	c.Set(PermissionContextKey, service.NewPermissionContext(newStubAccess(), &domain.User{ID: "1", RoleID: "1"}))

	handler := Guard(domain.ModuleFinance, domain.ActionDelete)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGuard_CustomFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := newContext(req)
	c.Set(PermissionContextKey, service.NewPermissionContext(newStubAccess(), &domain.User{ID: "1", RoleID: "1"}))

	fallback := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	handler := Guard(domain.ModuleHR, domain.ActionView, fallback)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected fallback 204, got %d", rec.Code)
	}
}

func TestGuard_NoPermissionContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := newContext(req)

	handler := Guard(domain.ModuleDashboard, domain.ActionView)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
