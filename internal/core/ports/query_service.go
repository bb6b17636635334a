package ports

import (
	"context"
	"time"
)

// UserDTO is the query-side user representation returned to callers.
type UserDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	RoleID   string `json:"roleId"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// RoleDTO is the query-side role representation.
type RoleDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PermissionIDs []string `json:"permissionIds"`
}

// ActivityDTO is one audit row for a user.
type ActivityDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryService reads from the projections only. Results may lag the write
// side; that staleness window is inherent to the design.
type QueryService interface {
	GetUserByEmail(ctx context.Context, email string) (*UserDTO, error)
	GetAllUsers(ctx context.Context) ([]UserDTO, error)
	GetAllRoles(ctx context.Context) ([]RoleDTO, error)
	GetPermissionsByRoleID(ctx context.Context, roleID string) ([]string, error)
	// GetAllPermissions returns the distinct permission ids across all roles.
	GetAllPermissions(ctx context.Context) ([]string, error)
	GetUserActivity(ctx context.Context, userID string, since time.Time) ([]ActivityDTO, error)
}
