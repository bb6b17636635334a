package ports

import (
	"context"

	"github.com/usuarios/users-service/internal/core/domain"
)

// UserWriteRepository persists User aggregates to the write store. Create and
// Save append the given event envelopes to the outbox in the same transaction
// as the aggregate write, so an event exists if and only if its mutation was
// durably persisted.
type UserWriteRepository interface {
	// Create inserts a new aggregate. Returns domain.ErrDuplicateEmail when
	// the email is already taken.
	Create(ctx context.Context, user *domain.User, events ...domain.Envelope) error
	// Save overwrites an existing aggregate guarded by its loaded version.
	// Returns domain.ErrVersionConflict on a stale write and
	// domain.ErrUserNotFound when the aggregate no longer exists.
	Save(ctx context.Context, user *domain.User, events ...domain.Envelope) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleWriteRepository persists Role entities to the write store with the same
// transactional outbox semantics as UserWriteRepository.
type RoleWriteRepository interface {
	// Save overwrites an existing role guarded by its loaded version.
	Save(ctx context.Context, role *domain.Role, events ...domain.Envelope) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
}
