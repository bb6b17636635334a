package domain

import (
	"errors"
	"testing"
)

func TestNewRole(t *testing.T) {
	role, err := NewRole("role-1", "admin", []string{"perm-1", "perm-2"})
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}
	if role.Version != 1 {
		t.Errorf("expected initial version 1, got %d", role.Version)
	}
	if !role.HasPermission("perm-1") || !role.HasPermission("perm-2") {
		t.Error("expected both permissions present")
	}
}

func TestNewRoleRejectsDuplicatePermissions(t *testing.T) {
	if _, err := NewRole("role-1", "admin", []string{"perm-1", "perm-1"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddPermission(t *testing.T) {
	role, err := NewRole("role-1", "admin", []string{"perm-1"})
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	if !role.AddPermission("perm-2") {
		t.Error("expected AddPermission to report a change")
	}
	if !role.HasPermission("perm-2") {
		t.Error("expected perm-2 after add")
	}

	// Adding again must be a no-op.
	if role.AddPermission("perm-2") {
		t.Error("expected AddPermission to be a no-op for a present permission")
	}
	if got := len(role.PermissionIDs); got != 2 {
		t.Errorf("expected 2 permissions, got %d", got)
	}
}

func TestRemovePermission(t *testing.T) {
	role, err := NewRole("role-1", "admin", []string{"perm-1", "perm-2"})
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	if !role.RemovePermission("perm-1") {
		t.Error("expected RemovePermission to report a change")
	}
	if role.HasPermission("perm-1") {
		t.Error("expected perm-1 gone after remove")
	}

	// Removing again must be a no-op.
	if role.RemovePermission("perm-1") {
		t.Error("expected RemovePermission to be a no-op for an absent permission")
	}
	if got := len(role.PermissionIDs); got != 1 {
		t.Errorf("expected 1 permission, got %d", got)
	}
}
