package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/core/domain"
	"github.com/usuarios/users-service/internal/core/ports"
)

// CommandService implements the write-side use cases. Handlers are stateless:
// each call loads what it needs, validates preconditions, mutates, and
// persists the aggregate together with the resulting event envelopes. The
// repository appends those envelopes to the outbox atomically, so the relay
// eventually publishes an event if and only if the mutation was persisted.
type CommandService struct {
	users  ports.UserWriteRepository
	roles  ports.RoleWriteRepository
	outbox ports.OutboxAppender
	logger zerolog.Logger
}

func NewCommandService(users ports.UserWriteRepository, roles ports.RoleWriteRepository, outbox ports.OutboxAppender, logger zerolog.Logger) *CommandService {
	return &CommandService{users: users, roles: roles, outbox: outbox, logger: logger}
}

// CreateUser validates that the role exists and the email is free, then
// persists a new aggregate and a UserCreated event. Returns the generated id.
func (s *CommandService) CreateUser(ctx context.Context, in ports.CreateUserInput) (string, error) {
	if _, err := s.roles.GetByID(ctx, in.RoleID); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		s.logger.Warn().Str("email", in.Email).Msg("email already registered")
		return "", fmt.Errorf("create user: %w", domain.ErrDuplicateEmail)
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("create user: %w", err)
	}

	user, err := domain.NewUser(uuid.NewString(), in.Name, in.LastName, in.Email, in.RoleID, in.Address, in.Phone)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	env, err := domain.NewEnvelope(domain.UserCreated{
		ID:       user.ID,
		Name:     user.Name,
		LastName: user.LastName,
		Email:    user.Email,
		RoleID:   user.RoleID,
		Address:  user.Address,
		Phone:    user.Phone,
	})
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	if err := s.users.Create(ctx, user, env); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user created")
	return user.ID, nil
}

// UpdateUser applies a partial update to the mutable user fields. Fields that
// are nil in the input remain unchanged. Emits UserUpdated plus a
// USER_UPDATED activity event.
func (s *CommandService) UpdateUser(ctx context.Context, userID string, in ports.UpdateUserInput) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := user.Update(in.Name, in.LastName, in.Address, in.Phone); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	updated, err := domain.NewEnvelope(domain.UserUpdated{
		ID:       user.ID,
		Name:     user.Name,
		LastName: user.LastName,
		Address:  user.Address,
		Phone:    user.Phone,
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	activity, err := domain.NewEnvelope(domain.UserActivityMade{
		UserID:    user.ID,
		Action:    "USER_UPDATED",
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.users.Save(ctx, user, updated, activity); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user updated")
	return nil
}

// UpdateUserRole repoints the user's role reference after checking that both
// the user and the target role exist.
func (s *CommandService) UpdateUserRole(ctx context.Context, userID, newRoleID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if _, err := s.roles.GetByID(ctx, newRoleID); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	if err := user.ChangeRole(newRoleID); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	env, err := domain.NewEnvelope(domain.UserRoleUpdated{UserID: user.ID, NewRoleID: newRoleID})
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	if err := s.users.Save(ctx, user, env); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role_id", newRoleID).Msg("user role updated")
	return nil
}

// PublishUserActivity records a caller-supplied audit action for an existing
// user. No aggregate changes, so the envelope goes straight to the outbox.
func (s *CommandService) PublishUserActivity(ctx context.Context, userID, action string) error {
	if strings.TrimSpace(action) == "" {
		return fmt.Errorf("publish activity: %w: action must not be empty", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}

	env, err := domain.NewEnvelope(domain.UserActivityMade{
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}

	if err := s.outbox.Append(ctx, env); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("action", action).Msg("user activity published")
	return nil
}

// AddPermissionToRole adds a permission to the role's set. Adding a
// permission that is already present is a successful no-op: nothing is
// persisted and no event is emitted.
func (s *CommandService) AddPermissionToRole(ctx context.Context, roleID, permissionID string) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return fmt.Errorf("add permission: %w", err)
	}

	if !role.AddPermission(permissionID) {
		s.logger.Debug().Str("role_id", roleID).Str("permission_id", permissionID).Msg("permission already present")
		return nil
	}

	env, err := domain.NewEnvelope(domain.PermissionAddedToRole{
		RoleID:       roleID,
		PermissionID: permissionID,
		OccurredOn:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("add permission: %w", err)
	}

	if err := s.roles.Save(ctx, role, env); err != nil {
		return fmt.Errorf("add permission: %w", err)
	}

	s.logger.Info().Str("role_id", roleID).Str("permission_id", permissionID).Msg("permission added to role")
	return nil
}

// RemovePermissionFromRole removes a permission from the role's set.
// Removing an absent permission is a successful no-op.
func (s *CommandService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return fmt.Errorf("remove permission: %w", err)
	}

	if !role.RemovePermission(permissionID) {
		s.logger.Debug().Str("role_id", roleID).Str("permission_id", permissionID).Msg("permission not present")
		return nil
	}

	env, err := domain.NewEnvelope(domain.PermissionRemovedFromRole{
		RoleID:       roleID,
		PermissionID: permissionID,
		OccurredOn:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("remove permission: %w", err)
	}

	if err := s.roles.Save(ctx, role, env); err != nil {
		return fmt.Errorf("remove permission: %w", err)
	}

	s.logger.Info().Str("role_id", roleID).Str("permission_id", permissionID).Msg("permission removed from role")
	return nil
}
