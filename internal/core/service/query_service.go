package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/core/ports"
)

// QueryService translates queries into read-repository calls and maps the
// projection documents to DTOs. No business logic lives here.
type QueryService struct {
	users    ports.UserReadRepository
	roles    ports.RoleReadRepository
	activity ports.UserActivityRepository
	logger   zerolog.Logger
}

func NewQueryService(
	users ports.UserReadRepository,
	roles ports.RoleReadRepository,
	activity ports.UserActivityRepository,
	logger zerolog.Logger,
) *QueryService {
	return &QueryService{users: users, roles: roles, activity: activity, logger: logger}
}

func (s *QueryService) GetUserByEmail(ctx context.Context, email string) (*ports.UserDTO, error) {
	model, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	dto := toUserDTO(*model)
	return &dto, nil
}

func (s *QueryService) GetAllUsers(ctx context.Context) ([]ports.UserDTO, error) {
	models, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all users: %w", err)
	}
	dtos := make([]ports.UserDTO, 0, len(models))
	for _, m := range models {
		dtos = append(dtos, toUserDTO(m))
	}
	return dtos, nil
}

func (s *QueryService) GetAllRoles(ctx context.Context) ([]ports.RoleDTO, error) {
	models, err := s.roles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all roles: %w", err)
	}
	dtos := make([]ports.RoleDTO, 0, len(models))
	for _, m := range models {
		dtos = append(dtos, ports.RoleDTO{ID: m.ID, Name: m.Name, PermissionIDs: m.PermissionIDs})
	}
	return dtos, nil
}

func (s *QueryService) GetPermissionsByRoleID(ctx context.Context, roleID string) ([]string, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("get permissions by role: %w", err)
	}
	return role.PermissionIDs, nil
}

// GetAllPermissions returns the distinct permission ids across every role,
// sorted for a stable response.
func (s *QueryService) GetAllPermissions(ctx context.Context) ([]string, error) {
	roles, err := s.roles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all permissions: %w", err)
	}
	seen := make(map[string]struct{})
	for _, r := range roles {
		for _, p := range r.PermissionIDs {
			seen[p] = struct{}{}
		}
	}
	permissions := make([]string, 0, len(seen))
	for p := range seen {
		permissions = append(permissions, p)
	}
	sort.Strings(permissions)
	return permissions, nil
}

func (s *QueryService) GetUserActivity(ctx context.Context, userID string, since time.Time) ([]ports.ActivityDTO, error) {
	records, err := s.activity.GetByUser(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("get user activity: %w", err)
	}
	dtos := make([]ports.ActivityDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, ports.ActivityDTO{ID: r.ID, UserID: r.UserID, Action: r.Action, Timestamp: r.Timestamp})
	}
	return dtos, nil
}

func toUserDTO(m ports.UserReadModel) ports.UserDTO {
	return ports.UserDTO{
		ID:       m.ID,
		Name:     m.Name,
		LastName: m.LastName,
		Email:    m.Email,
		RoleID:   m.RoleID,
		Address:  m.Address,
		Phone:    m.Phone,
	}
}
