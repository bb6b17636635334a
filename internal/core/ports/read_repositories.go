package ports

import (
	"context"
	"time"
)

// UserReadModel is the denormalized user document owned by the UserCreated /
// UserUpdated / UserRoleUpdated event streams.
type UserReadModel struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	LastName string `bson:"lastName" json:"lastName"`
	Email    string `bson:"email" json:"email"`
	RoleID   string `bson:"roleId" json:"roleId"`
	Address  string `bson:"address" json:"address,omitempty"`
	Phone    string `bson:"phone" json:"phone,omitempty"`
}

// RoleReadModel mirrors the role entity on the read side. Field names match
// the write-side document shape.
type RoleReadModel struct {
	ID            string   `bson:"_id" json:"id"`
	Name          string   `bson:"RoleName" json:"name"`
	PermissionIDs []string `bson:"PermissionIds" json:"permissionIds"`
}

// UserActivityRecord is an append-only audit row. ID is the originating
// event id, which makes redelivered inserts idempotent.
type UserActivityRecord struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Action    string    `bson:"action" json:"action"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// UserFieldUpdate carries the field values applied by a UserUpdated
// projection.
type UserFieldUpdate struct {
	Name     string
	LastName string
	Address  string
	Phone    string
}

// UserReadRepository is written by projectors and read by query handlers.
// Mutations are idempotent: reapplying the same event leaves the same state.
type UserReadRepository interface {
	// Upsert inserts or fully replaces the document keyed by model.ID.
	Upsert(ctx context.Context, model UserReadModel) error
	UpdateFields(ctx context.Context, id string, fields UserFieldUpdate) error
	SetRole(ctx context.Context, id, roleID string) error
	// GetByEmail returns domain.ErrUserNotFound when no document matches.
	GetByEmail(ctx context.Context, email string) (*UserReadModel, error)
	GetAll(ctx context.Context) ([]UserReadModel, error)
}

// RoleReadRepository maintains the denormalized role documents. AddPermission
// uses set semantics so redelivery cannot duplicate array entries.
type RoleReadRepository interface {
	AddPermission(ctx context.Context, roleID, permissionID string) error
	RemovePermission(ctx context.Context, roleID, permissionID string) error
	// GetByID returns domain.ErrRoleNotFound when no document matches.
	GetByID(ctx context.Context, roleID string) (*RoleReadModel, error)
	GetAll(ctx context.Context) ([]RoleReadModel, error)
}

// UserActivityRepository stores audit rows in the activity read store.
type UserActivityRepository interface {
	// Insert is keyed by record.ID and is a no-op on redelivery.
	Insert(ctx context.Context, record UserActivityRecord) error
	GetByUser(ctx context.Context, userID string, since time.Time) ([]UserActivityRecord, error)
}
