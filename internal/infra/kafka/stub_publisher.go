package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"role_id":       event.RoleID,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.RegisteredAt, payload)
	return nil
}

// PublishUserDeactivated logs user.deactivated events.
func (p *StubPublisher) PublishUserDeactivated(_ context.Context, event domain.UserDeactivatedEvent) error {
	payload := map[string]any{
		"user_id":        event.UserID,
		"deactivated_at": event.DeactivatedAt,
	}
	p.logEvent("user.deactivated", event.DeactivatedAt, payload)
	return nil
}

// PublishRoleChanged logs role.changed events.
func (p *StubPublisher) PublishRoleChanged(_ context.Context, event domain.RoleChangedEvent) error {
	payload := map[string]any{
		"role_id":        event.RoleID,
		"role_name":      event.RoleName,
		"permission_ids": event.PermissionIDs,
		"changed_at":     event.ChangedAt,
	}
	p.logEvent("role.changed", event.ChangedAt, payload)
	return nil
}

// PublishPermissionDeleted logs permission.deleted events.
func (p *StubPublisher) PublishPermissionDeleted(_ context.Context, event domain.PermissionDeletedEvent) error {
	payload := map[string]any{
		"permission_id": event.PermissionID,
		"resource":      event.Resource,
		"action":        event.Action,
		"deleted_at":    event.DeletedAt,
	}
	p.logEvent("permission.deleted", event.DeletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
