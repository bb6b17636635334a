package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/usuarios/users-service/internal/api/metrics"
	"github.com/usuarios/users-service/internal/core/ports"
)

// UserHandler exposes the command and query services over HTTP. It binds and
// validates requests, delegates, and maps DTOs; domain errors bubble to the
// central error handler.
type UserHandler struct {
	commands ports.CommandService
	queries  ports.QueryService
}

func NewUserHandler(commands ports.CommandService, queries ports.QueryService) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

// --- Commands ---

// Create handles POST /v1/users.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.commands.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		RoleID:   req.RoleID,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("create_user", "error").Inc()
		return err
	}

	metrics.CommandsTotal.WithLabelValues("create_user", "ok").Inc()
	return c.JSON(http.StatusCreated, createUserResponse{ID: id})
}

// Update handles PUT /v1/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	err := h.commands.UpdateUser(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("update_user", "error").Inc()
		return err
	}

	metrics.CommandsTotal.WithLabelValues("update_user", "ok").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// UpdateRole handles PUT /v1/users/:id/role.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateUserRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.commands.UpdateUserRole(c.Request().Context(), c.Param("id"), req.RoleID); err != nil {
		metrics.CommandsTotal.WithLabelValues("update_user_role", "error").Inc()
		return err
	}

	metrics.CommandsTotal.WithLabelValues("update_user_role", "ok").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// PublishActivity handles POST /v1/users/:id/activity.
func (h *UserHandler) PublishActivity(c echo.Context) error {
	var req publishActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.commands.PublishUserActivity(c.Request().Context(), c.Param("id"), req.Action); err != nil {
		metrics.CommandsTotal.WithLabelValues("publish_activity", "error").Inc()
		return err
	}

	metrics.CommandsTotal.WithLabelValues("publish_activity", "ok").Inc()
	return c.JSON(http.StatusAccepted, successResponse{Success: true})
}

// AddPermission handles POST /v1/roles/:id/permissions.
func (h *UserHandler) AddPermission(c echo.Context) error {
	var req addPermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.commands.AddPermissionToRole(c.Request().Context(), c.Param("id"), req.PermissionID); err != nil {
		metrics.CommandsTotal.WithLabelValues("add_permission", "error").Inc()
		return err
	}

	metrics.CommandsTotal.WithLabelValues("add_permission", "ok").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// RemovePermission handles DELETE /v1/roles/:id/permissions/:permission_id.
func (h *UserHandler) RemovePermission(c echo.Context) error {
	err := h.commands.RemovePermissionFromRole(c.Request().Context(), c.Param("id"), c.Param("permission_id"))
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("remove_permission", "error").Inc()
		return err
	}

	metrics.CommandsTotal.WithLabelValues("remove_permission", "ok").Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// --- Queries ---

// GetByEmail handles GET /v1/users/by-email?email=...
func (h *UserHandler) GetByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email query parameter is required")
	}

	dto, err := h.queries.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*dto))
}

// List handles GET /v1/users.
func (h *UserHandler) List(c echo.Context) error {
	dtos, err := h.queries.GetAllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	users := make([]userResponse, 0, len(dtos))
	for _, dto := range dtos {
		users = append(users, toUserResponse(dto))
	}
	return c.JSON(http.StatusOK, users)
}

// ListRoles handles GET /v1/roles.
func (h *UserHandler) ListRoles(c echo.Context) error {
	dtos, err := h.queries.GetAllRoles(c.Request().Context())
	if err != nil {
		return err
	}
	roles := make([]roleResponse, 0, len(dtos))
	for _, dto := range dtos {
		roles = append(roles, roleResponse{ID: dto.ID, Name: dto.Name, PermissionIDs: dto.PermissionIDs})
	}
	return c.JSON(http.StatusOK, roles)
}

// RolePermissions handles GET /v1/roles/:id/permissions.
func (h *UserHandler) RolePermissions(c echo.Context) error {
	permissions, err := h.queries.GetPermissionsByRoleID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissions)
}

// ListPermissions handles GET /v1/permissions.
func (h *UserHandler) ListPermissions(c echo.Context) error {
	permissions, err := h.queries.GetAllPermissions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissions)
}

// Activity handles GET /v1/users/:id/activity?since=RFC3339.
func (h *UserHandler) Activity(c echo.Context) error {
	var since time.Time
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "since must be an RFC3339 timestamp")
		}
		since = parsed
	}

	dtos, err := h.queries.GetUserActivity(c.Request().Context(), c.Param("id"), since)
	if err != nil {
		return err
	}
	records := make([]activityResponse, 0, len(dtos))
	for _, dto := range dtos {
		records = append(records, activityResponse{ID: dto.ID, UserID: dto.UserID, Action: dto.Action, Timestamp: dto.Timestamp})
	}
	return c.JSON(http.StatusOK, records)
}
