package handler

import (
	"time"

	"github.com/usuarios/users-service/internal/core/ports"
)

// --- Request types ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	LastName string `json:"lastName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	RoleID   string `json:"roleId"   validate:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// updateUserRequest is a partial update; absent fields are left unchanged.
type updateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	LastName *string `json:"lastName,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type updateUserRoleRequest struct {
	RoleID string `json:"roleId" validate:"required"`
}

type publishActivityRequest struct {
	Action string `json:"action" validate:"required"`
}

type addPermissionRequest struct {
	PermissionID string `json:"permissionId" validate:"required"`
}

// --- Response types ---
// Response-only types owned by the transport layer, kept separate from
// ports/domain types so the JSON contract is not coupled to internal changes.

type createUserResponse struct {
	ID string `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	RoleID   string `json:"roleId"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type roleResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PermissionIDs []string `json:"permissionIds"`
}

type activityResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func toUserResponse(dto ports.UserDTO) userResponse {
	return userResponse{
		ID:       dto.ID,
		Name:     dto.Name,
		LastName: dto.LastName,
		Email:    dto.Email,
		RoleID:   dto.RoleID,
		Address:  dto.Address,
		Phone:    dto.Phone,
	}
}
