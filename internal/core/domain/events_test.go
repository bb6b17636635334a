package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewEnvelope(t *testing.T) {
	ev := UserCreated{
		ID:       uuid.NewString(),
		Name:     "Ana",
		LastName: "Gomez",
		Email:    "ana@example.com",
		RoleID:   "role-1",
	}

	env, err := NewEnvelope(ev)
	if err != nil {
		t.Fatalf("NewEnvelope returned error: %v", err)
	}
	if env.EventType != EventUserCreated {
		t.Errorf("expected event type %q, got %q", EventUserCreated, env.EventType)
	}
	if _, err := uuid.Parse(env.EventID); err != nil {
		t.Errorf("expected event id to be a uuid, got %q", env.EventID)
	}
	if env.OccurredOn.IsZero() {
		t.Error("expected occurred-on timestamp to be set")
	}

	var decoded UserCreated
	if err := json.Unmarshal(env.Payload, &decoded); err != nil {
		t.Fatalf("payload did not decode: %v", err)
	}
	if decoded != ev {
		t.Errorf("payload round-trip mismatch: %+v != %+v", decoded, ev)
	}
}

func TestEnvelopeIDsAreUnique(t *testing.T) {
	a, err := NewEnvelope(UserActivityMade{UserID: "u-1", Action: "USER_UPDATED"})
	if err != nil {
		t.Fatalf("NewEnvelope returned error: %v", err)
	}
	b, err := NewEnvelope(UserActivityMade{UserID: "u-1", Action: "USER_UPDATED"})
	if err != nil {
		t.Fatalf("NewEnvelope returned error: %v", err)
	}
	if a.EventID == b.EventID {
		t.Error("expected distinct event ids for distinct envelopes")
	}
}

func TestEventTypes(t *testing.T) {
	cases := []struct {
		ev   Event
		want EventType
	}{
		{UserCreated{}, EventUserCreated},
		{UserUpdated{}, EventUserUpdated},
		{UserRoleUpdated{}, EventUserRoleUpdated},
		{PermissionAddedToRole{}, EventPermissionAdded},
		{PermissionRemovedFromRole{}, EventPermissionRemoved},
		{UserActivityMade{}, EventUserActivityMade},
	}
	for _, tc := range cases {
		if got := tc.ev.Type(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}
