package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/core/domain"
	"github.com/usuarios/users-service/internal/core/ports"
)

// DedupStore abstracts the event-id idempotency store (Redis).
type DedupStore interface {
	IsDuplicate(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// Projector applies domain events to the read-side stores. Routing from event
// type to apply function is a fixed table built at construction time; there
// is no reflection and no runtime registration.
//
// Every apply function is idempotent, and the dedup store short-circuits
// redelivered events, so at-least-once delivery converges to the same
// read-side state as exactly-once.
type Projector struct {
	users    ports.UserReadRepository
	roles    ports.RoleReadRepository
	activity ports.UserActivityRepository
	dedup    DedupStore
	routes   map[domain.EventType]func(ctx context.Context, env domain.Envelope) error
	log      zerolog.Logger
}

func NewProjector(
	users ports.UserReadRepository,
	roles ports.RoleReadRepository,
	activity ports.UserActivityRepository,
	dedup DedupStore,
	log zerolog.Logger,
) *Projector {
	p := &Projector{
		users:    users,
		roles:    roles,
		activity: activity,
		dedup:    dedup,
		log:      log,
	}
	p.routes = map[domain.EventType]func(context.Context, domain.Envelope) error{
		domain.EventUserCreated:       p.applyUserCreated,
		domain.EventUserUpdated:       p.applyUserUpdated,
		domain.EventUserRoleUpdated:   p.applyUserRoleUpdated,
		domain.EventPermissionAdded:   p.applyPermissionAdded,
		domain.EventPermissionRemoved: p.applyPermissionRemoved,
		domain.EventUserActivityMade:  p.applyUserActivity,
	}
	return p
}

// Apply routes an envelope to its projector. A dedup-store failure is logged
// and processing continues: the apply functions tolerate replays on their own.
func (p *Projector) Apply(ctx context.Context, env domain.Envelope) error {
	apply, ok := p.routes[env.EventType]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEvent, env.EventType)
	}

	isDup, err := p.dedup.IsDuplicate(ctx, env.EventID)
	if err != nil {
		p.log.Warn().Err(err).Str("event_id", env.EventID).Msg("dedup check failed, applying anyway")
	} else if isDup {
		p.log.Debug().Str("event_id", env.EventID).Str("event_type", string(env.EventType)).Msg("duplicate event skipped")
		return nil
	}

	if err := apply(ctx, env); err != nil {
		return fmt.Errorf("apply %s: %w", env.EventType, err)
	}

	if err := p.dedup.Mark(ctx, env.EventID); err != nil {
		p.log.Warn().Err(err).Str("event_id", env.EventID).Msg("failed to mark event as processed")
	}

	p.log.Info().Str("event_id", env.EventID).Str("event_type", string(env.EventType)).Msg("event projected")
	return nil
}

func (p *Projector) applyUserCreated(ctx context.Context, env domain.Envelope) error {
	var ev domain.UserCreated
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return err
	}
	return p.users.Upsert(ctx, ports.UserReadModel{
		ID:       ev.ID,
		Name:     ev.Name,
		LastName: ev.LastName,
		Email:    ev.Email,
		RoleID:   ev.RoleID,
		Address:  ev.Address,
		Phone:    ev.Phone,
	})
}

func (p *Projector) applyUserUpdated(ctx context.Context, env domain.Envelope) error {
	var ev domain.UserUpdated
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return err
	}
	return p.users.UpdateFields(ctx, ev.ID, ports.UserFieldUpdate{
		Name:     ev.Name,
		LastName: ev.LastName,
		Address:  ev.Address,
		Phone:    ev.Phone,
	})
}

func (p *Projector) applyUserRoleUpdated(ctx context.Context, env domain.Envelope) error {
	var ev domain.UserRoleUpdated
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return err
	}
	return p.users.SetRole(ctx, ev.UserID, ev.NewRoleID)
}

func (p *Projector) applyPermissionAdded(ctx context.Context, env domain.Envelope) error {
	var ev domain.PermissionAddedToRole
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return err
	}
	return p.roles.AddPermission(ctx, ev.RoleID, ev.PermissionID)
}

func (p *Projector) applyPermissionRemoved(ctx context.Context, env domain.Envelope) error {
	var ev domain.PermissionRemovedFromRole
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return err
	}
	return p.roles.RemovePermission(ctx, ev.RoleID, ev.PermissionID)
}

func (p *Projector) applyUserActivity(ctx context.Context, env domain.Envelope) error {
	var ev domain.UserActivityMade
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return err
	}
	// The event id keys the row, so a replayed insert overwrites the same
	// document instead of appending a second one.
	return p.activity.Insert(ctx, ports.UserActivityRecord{
		ID:        env.EventID,
		UserID:    ev.UserID,
		Action:    ev.Action,
		Timestamp: ev.Timestamp,
	})
}
