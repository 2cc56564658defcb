package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/access-control/internal/api/middleware"
	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/service"
)

// AccessHandler serves the authenticated user's own view of the permission model.
type AccessHandler struct{}

func NewAccessHandler() *AccessHandler {
	return &AccessHandler{}
}

// permissionContext fails fast when Auth did not run for the route.
func permissionContext(c echo.Context) (*service.PermissionContext, error) {
	pc := middleware.PermissionContextFrom(c)
	if pc == nil || pc.CurrentUser() == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return pc, nil
}

// Me returns the current user.
//
// @Summary      Current user
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me [get]
func (h *AccessHandler) Me(c echo.Context) error {
	pc, err := permissionContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pc.CurrentUser())
}

// Permissions returns the current user's effective matrix.
//
// @Summary      Effective permissions of the current user
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  permissionsResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/me/permissions [get]
func (h *AccessHandler) Permissions(c echo.Context) error {
	pc, err := permissionContext(c)
	if err != nil {
		return err
	}

	matrix, err := pc.EffectivePermissions(c.Request().Context())
	if err != nil {
		return err
	}

	user := pc.CurrentUser()
	return c.JSON(http.StatusOK, permissionsResponse{UserID: user.ID, RoleID: user.RoleID, Permissions: matrix})
}

// Check answers a single permission question for the current user.
//
// @Summary      Check one permission
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Param        module  query     string  true  "Module"
// @Param        action  query     string  true  "Action"
// @Success      200     {object}  checkResponse
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Router       /api/v1/me/permissions/check [get]
func (h *AccessHandler) Check(c echo.Context) error {
	pc, err := permissionContext(c)
	if err != nil {
		return err
	}

	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	module, action := domain.Module(req.Module), domain.Action(req.Action)
	return c.JSON(http.StatusOK, checkResponse{
		Module:  module,
		Action:  action,
		Allowed: pc.HasPermission(c.Request().Context(), module, action),
	})
}

// UpdateOverride replaces the current user's override for one module.
//
// @Summary      Replace own module override
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        module  path      string              true  "Module"
// @Param        body    body      domain.OverrideSet  true  "Tri-state override; omitted actions are unset"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /api/v1/me/permissions/{module} [put]
func (h *AccessHandler) UpdateOverride(c echo.Context) error {
	pc, err := permissionContext(c)
	if err != nil {
		return err
	}

	module, err := domain.ParseModule(c.Param("module"))
	if err != nil {
		return err
	}

	var set domain.OverrideSet
	if err := c.Bind(&set); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := pc.UpdateUserCustomPermissions(c.Request().Context(), pc.CurrentUser().ID, module, set); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pc.CurrentUser())
}

// Modules lists the modules and actions the permission model knows.
//
// @Summary      Permission vocabulary
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  moduleResponse
// @Router       /api/v1/modules [get]
func (h *AccessHandler) Modules(c echo.Context) error {
	return c.JSON(http.StatusOK, moduleResponse{Modules: domain.AllModules(), Actions: domain.AllActions()})
}
