package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/core/domain"
	"github.com/usuarios/users-service/internal/core/ports"
)

func newQueryFixture() (*stubUserReadRepo, *stubRoleReadRepo, *stubActivityRepo, *QueryService) {
	users := newStubUserReadRepo()
	roles := newStubRoleReadRepo()
	activity := newStubActivityRepo()
	svc := NewQueryService(users, roles, activity, zerolog.Nop())
	return users, roles, activity, svc
}

func TestGetUserByEmail(t *testing.T) {
	users, _, _, svc := newQueryFixture()
	users.users["u-1"] = ports.UserReadModel{ID: "u-1", Name: "Ana", LastName: "Gomez", Email: "ana@example.com", RoleID: "role-1"}

	dto, err := svc.GetUserByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if dto.ID != "u-1" || dto.Email != "ana@example.com" {
		t.Errorf("unexpected dto: %+v", dto)
	}
}

func TestGetUserByEmailNotFound(t *testing.T) {
	_, _, _, svc := newQueryFixture()

	_, err := svc.GetUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetAllUsers(t *testing.T) {
	users, _, _, svc := newQueryFixture()
	users.users["u-1"] = ports.UserReadModel{ID: "u-1", Email: "a@example.com"}
	users.users["u-2"] = ports.UserReadModel{ID: "u-2", Email: "b@example.com"}

	dtos, err := svc.GetAllUsers(context.Background())
	if err != nil {
		t.Fatalf("GetAllUsers returned error: %v", err)
	}
	if len(dtos) != 2 {
		t.Errorf("expected 2 users, got %d", len(dtos))
	}
}

func TestGetPermissionsByRoleID(t *testing.T) {
	_, roles, _, svc := newQueryFixture()
	roles.roles["role-1"] = ports.RoleReadModel{ID: "role-1", Name: "admin", PermissionIDs: []string{"perm-1", "perm-2"}}

	perms, err := svc.GetPermissionsByRoleID(context.Background(), "role-1")
	if err != nil {
		t.Fatalf("GetPermissionsByRoleID returned error: %v", err)
	}
	if len(perms) != 2 {
		t.Errorf("expected 2 permissions, got %v", perms)
	}

	if _, err := svc.GetPermissionsByRoleID(context.Background(), "missing"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Errorf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestGetAllPermissionsDistinctSorted(t *testing.T) {
	_, roles, _, svc := newQueryFixture()
	roles.roles["role-1"] = ports.RoleReadModel{ID: "role-1", PermissionIDs: []string{"perm-b", "perm-a"}}
	roles.roles["role-2"] = ports.RoleReadModel{ID: "role-2", PermissionIDs: []string{"perm-a", "perm-c"}}

	perms, err := svc.GetAllPermissions(context.Background())
	if err != nil {
		t.Fatalf("GetAllPermissions returned error: %v", err)
	}
	want := []string{"perm-a", "perm-b", "perm-c"}
	if len(perms) != len(want) {
		t.Fatalf("expected %v, got %v", want, perms)
	}
	for i := range want {
		if perms[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, perms)
		}
	}
}

func TestGetUserActivitySince(t *testing.T) {
	_, _, activity, svc := newQueryFixture()
	now := time.Now().UTC()
	activity.records["ev-1"] = ports.UserActivityRecord{ID: "ev-1", UserID: "u-1", Action: "USER_UPDATED", Timestamp: now.Add(-2 * time.Hour)}
	activity.records["ev-2"] = ports.UserActivityRecord{ID: "ev-2", UserID: "u-1", Action: "USER_UPDATED", Timestamp: now}
	activity.records["ev-3"] = ports.UserActivityRecord{ID: "ev-3", UserID: "u-2", Action: "USER_UPDATED", Timestamp: now}

	dtos, err := svc.GetUserActivity(context.Background(), "u-1", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("GetUserActivity returned error: %v", err)
	}
	if len(dtos) != 1 || dtos[0].ID != "ev-2" {
		t.Errorf("expected only the recent row for u-1, got %+v", dtos)
	}
}
