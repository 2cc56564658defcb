package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminhub/access-control/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler renders every error as {"error": "<message>"}.
// Errors outside statusTable are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// statusTable maps domain errors to HTTP statuses. Entries with an empty
// msg echo the wrapped error text, which carries the offending value.
var statusTable = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrRoleNotFound, http.StatusNotFound, "role not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrRoleExists, http.StatusConflict, "role already exists"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrUnknownModule, http.StatusBadRequest, ""},
	{domain.ErrUnknownAction, http.StatusBadRequest, ""},
	{domain.ErrInvalidInput, http.StatusBadRequest, ""},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, entry := range statusTable {
		if !errors.Is(err, entry.err) {
			continue
		}
		if entry.msg == "" {
			return entry.code, err.Error()
		}
		return entry.code, entry.msg
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
