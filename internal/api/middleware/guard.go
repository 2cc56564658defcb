package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/access-control/internal/core/domain"
)

// Forbidden is the default Guard fallback.
func Forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
}

// Guard runs the protected handler only when the request's
// PermissionContext grants action on module; otherwise it runs fallback.
// Without a fallback the request is answered with Forbidden. A request with
// no bound PermissionContext is always denied.
func Guard(module domain.Module, action domain.Action, fallback ...echo.HandlerFunc) echo.MiddlewareFunc {
	deny := echo.HandlerFunc(Forbidden)
	if len(fallback) > 0 && fallback[0] != nil {
		deny = fallback[0]
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			pc := PermissionContextFrom(c)
			if !pc.HasPermission(c.Request().Context(), module, action) {
				return deny(c)
			}
			return next(c)
		}
	}
}
