package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType is the wire discriminator used to route an event to its queue
// and its projector.
type EventType string

const (
	EventUserCreated       EventType = "user.created"
	EventUserUpdated       EventType = "user.updated"
	EventUserRoleUpdated   EventType = "user.role_updated"
	EventPermissionAdded   EventType = "role.permission_added"
	EventPermissionRemoved EventType = "role.permission_removed"
	EventUserActivityMade  EventType = "user.activity_made"
)

// Event is implemented by every domain event payload.
type Event interface {
	Type() EventType
}

// UserCreated is emitted once per successful create-user command.
type UserCreated struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	RoleID   string `json:"roleId"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func (UserCreated) Type() EventType { return EventUserCreated }

// UserUpdated carries the post-update values of the mutable user fields.
type UserUpdated struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func (UserUpdated) Type() EventType { return EventUserUpdated }

// UserRoleUpdated is emitted when a user's role reference changes.
type UserRoleUpdated struct {
	UserID    string `json:"userId"`
	NewRoleID string `json:"newRoleId"`
}

func (UserRoleUpdated) Type() EventType { return EventUserRoleUpdated }

// PermissionAddedToRole is emitted when a permission joins a role's set.
type PermissionAddedToRole struct {
	RoleID       string    `json:"roleId"`
	PermissionID string    `json:"permissionId"`
	OccurredOn   time.Time `json:"occurredOn"`
}

func (PermissionAddedToRole) Type() EventType { return EventPermissionAdded }

// PermissionRemovedFromRole is emitted when a permission leaves a role's set.
type PermissionRemovedFromRole struct {
	RoleID       string    `json:"roleId"`
	PermissionID string    `json:"permissionId"`
	OccurredOn   time.Time `json:"occurredOn"`
}

func (PermissionRemovedFromRole) Type() EventType { return EventPermissionRemoved }

// UserActivityMade is a free-form audit signal, not a correctness event.
type UserActivityMade struct {
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func (UserActivityMade) Type() EventType { return EventUserActivityMade }

// Envelope is the wire and outbox representation of an event. EventID is
// stable across redeliveries and is the key for consumer-side deduplication.
type Envelope struct {
	EventID    string          `json:"event_id" bson:"_id"`
	EventType  EventType       `json:"event_type" bson:"event_type"`
	OccurredOn time.Time       `json:"occurred_on" bson:"occurred_on"`
	Payload    json.RawMessage `json:"payload" bson:"payload"`
}

// NewEnvelope wraps an event payload with a fresh event id and timestamp.
func NewEnvelope(ev Event) (Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", ev.Type(), err)
	}
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  ev.Type(),
		OccurredOn: time.Now().UTC(),
		Payload:    payload,
	}, nil
}
