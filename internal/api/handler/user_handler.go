package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
)

// UserHandler lets administrators inspect and edit other users' overrides.
type UserHandler struct {
	access ports.AccessService
}

func NewUserHandler(access ports.AccessService) *UserHandler {
	return &UserHandler{access: access}
}

// Permissions returns a user's effective matrix.
//
// @Summary      Effective permissions of a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  permissionsResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/users/{id}/permissions [get]
func (h *UserHandler) Permissions(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.access.GetUser(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	matrix, err := h.access.EffectivePermissions(ctx, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissionsResponse{UserID: user.ID, RoleID: user.RoleID, Permissions: matrix})
}

// UpdateOverride replaces a user's override for one module.
//
// @Summary      Replace a user's module override
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string              true  "User id"
// @Param        module  path      string              true  "Module"
// @Param        body    body      domain.OverrideSet  true  "Tri-state override"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/users/{id}/permissions/{module} [put]
func (h *UserHandler) UpdateOverride(c echo.Context) error {
	module, err := domain.ParseModule(c.Param("module"))
	if err != nil {
		return err
	}

	var set domain.OverrideSet
	if err := c.Bind(&set); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	userID := c.Param("id")
	if err := h.access.UpdateUserCustomPermissions(ctx, userID, module, set); err != nil {
		return err
	}

	user, err := h.access.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
