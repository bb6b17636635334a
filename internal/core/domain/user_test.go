package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	id := uuid.NewString()

	user, err := NewUser(id, "Ana", "Gomez", "ana@example.com", "role-1", "Main St 1", "555-0100")
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}
	if user.ID != id {
		t.Errorf("expected id %q, got %q", id, user.ID)
	}
	if user.Version != 1 {
		t.Errorf("expected initial version 1, got %d", user.Version)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestNewUserValidation(t *testing.T) {
	id := uuid.NewString()

	cases := []struct {
		name     string
		id       string
		userName string
		lastName string
		email    string
		roleID   string
	}{
		{"invalid uuid", "not-a-uuid", "Ana", "Gomez", "ana@example.com", "role-1"},
		{"empty name", id, "  ", "Gomez", "ana@example.com", "role-1"},
		{"empty last name", id, "Ana", "", "ana@example.com", "role-1"},
		{"invalid email", id, "Ana", "Gomez", "not-an-email", "role-1"},
		{"empty role", id, "Ana", "Gomez", "ana@example.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.id, tc.userName, tc.lastName, tc.email, tc.roleID, "", "")
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserUpdatePartial(t *testing.T) {
	user, err := NewUser(uuid.NewString(), "Ana", "Gomez", "ana@example.com", "role-1", "Main St 1", "555-0100")
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}

	newName := "Ana Maria"
	if err := user.Update(&newName, nil, nil, nil); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if user.Name != "Ana Maria" {
		t.Errorf("expected name to change, got %q", user.Name)
	}
	if user.LastName != "Gomez" {
		t.Errorf("expected last name unchanged, got %q", user.LastName)
	}
	if user.Address != "Main St 1" {
		t.Errorf("expected address unchanged, got %q", user.Address)
	}
	if user.Phone != "555-0100" {
		t.Errorf("expected phone unchanged, got %q", user.Phone)
	}
}

func TestUserUpdateRejectsEmptyName(t *testing.T) {
	user, err := NewUser(uuid.NewString(), "Ana", "Gomez", "ana@example.com", "role-1", "", "")
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}

	empty := "   "
	if err := user.Update(&empty, nil, nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("expected name unchanged after failed update, got %q", user.Name)
	}
}

func TestUserUpdateClearsOptionalFields(t *testing.T) {
	user, err := NewUser(uuid.NewString(), "Ana", "Gomez", "ana@example.com", "role-1", "Main St 1", "555-0100")
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}

	empty := ""
	if err := user.Update(nil, nil, &empty, &empty); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.Address != "" || user.Phone != "" {
		t.Errorf("expected optional fields cleared, got address=%q phone=%q", user.Address, user.Phone)
	}
}

func TestUserChangeRole(t *testing.T) {
	user, err := NewUser(uuid.NewString(), "Ana", "Gomez", "ana@example.com", "role-1", "", "")
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}

	if err := user.ChangeRole("role-2"); err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if user.RoleID != "role-2" {
		t.Errorf("expected role-2, got %q", user.RoleID)
	}

	if err := user.ChangeRole(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty role, got %v", err)
	}
}
