package ports

import "context"

// CreateUserInput carries the create-user command fields. Address and Phone
// are optional and stored empty when not provided.
type CreateUserInput struct {
	Name     string
	LastName string
	Email    string
	RoleID   string
	Address  string
	Phone    string
}

// UpdateUserInput is a partial update: nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	LastName *string
	Address  *string
	Phone    *string
}

// CommandService exposes the write-side use cases. Every method validates its
// preconditions before mutating, persists the aggregate together with the
// resulting events, and never talks to the transport directly.
type CommandService interface {
	// CreateUser returns the generated user id.
	CreateUser(ctx context.Context, in CreateUserInput) (string, error)
	UpdateUser(ctx context.Context, userID string, in UpdateUserInput) error
	UpdateUserRole(ctx context.Context, userID, newRoleID string) error
	// PublishUserActivity records a caller-supplied audit action for a user.
	PublishUserActivity(ctx context.Context, userID, action string) error
	AddPermissionToRole(ctx context.Context, roleID, permissionID string) error
	RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) error
}
