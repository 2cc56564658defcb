package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
	"github.com/adminhub/access-control/internal/core/service"
)

// PermissionContextKey is the echo context key holding the request's
// *service.PermissionContext.
const PermissionContextKey = "permission_context"

// Auth validates the JWT, loads the user it names, and binds a
// PermissionContext for the rest of the request.
func Auth(jwtSecret string, access ports.AccessService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, _ := claims.GetSubject()
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			user, err := access.GetUser(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				return err
			}

			c.Set(PermissionContextKey, service.NewPermissionContext(access, user))
			return next(c)
		}
	}
}

// PermissionContextFrom returns the context bound by Auth, or nil.
func PermissionContextFrom(c echo.Context) *service.PermissionContext {
	pc, _ := c.Get(PermissionContextKey).(*service.PermissionContext)
	return pc
}
