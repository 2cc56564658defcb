package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
)

// RoleHandler manages the role catalog.
type RoleHandler struct {
	access ports.AccessService
}

func NewRoleHandler(access ports.AccessService) *RoleHandler {
	return &RoleHandler{access: access}
}

// List returns every role.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Role
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	pc, err := permissionContext(c)
	if err != nil {
		return err
	}

	roles, err := pc.Roles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Get returns one role.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  domain.Role
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.access.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Create adds a role to the catalog.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role"
// @Success      201   {object}  domain.Role
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.access.CreateRole(c.Request().Context(), ports.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// UpdatePermissions replaces one module's full permission set on a role.
//
// @Summary      Replace a role's module permissions
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string                true  "Role id"
// @Param        module  path      string                true  "Module"
// @Param        body    body      domain.PermissionSet  true  "All four actions; omitted ones are false"
// @Success      200     {object}  domain.Role
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/roles/{id}/permissions/{module} [put]
func (h *RoleHandler) UpdatePermissions(c echo.Context) error {
	pc, err := permissionContext(c)
	if err != nil {
		return err
	}

	module, err := domain.ParseModule(c.Param("module"))
	if err != nil {
		return err
	}

	var set domain.PermissionSet
	if err := c.Bind(&set); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	roleID := c.Param("id")
	if err := pc.UpdateRolePermissions(c.Request().Context(), roleID, module, set); err != nil {
		return err
	}

	role, err := h.access.GetRole(c.Request().Context(), roleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}
