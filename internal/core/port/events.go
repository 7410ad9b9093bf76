package port

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
)

// EventPublisher fans identity lifecycle events out to interested consumers.
// Publishing is best-effort; use cases log failures but never fail the
// request over them.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserDeactivated(ctx context.Context, event domain.UserDeactivatedEvent) error
	PublishRoleChanged(ctx context.Context, event domain.RoleChangedEvent) error
	PublishPermissionDeleted(ctx context.Context, event domain.PermissionDeletedEvent) error
}
