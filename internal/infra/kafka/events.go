package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes identity.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Email        string    `json:"email"`
		RoleID       string    `json:"role_id"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		RoleID:       event.RoleID,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.RegisteredAt, payload)
}

// PublishUserDeactivated publishes identity.user.deactivated events.
func (p *EventPublisher) PublishUserDeactivated(ctx context.Context, event domain.UserDeactivatedEvent) error {
	payload := struct {
		UserID        string    `json:"user_id"`
		DeactivatedAt time.Time `json:"deactivated_at"`
	}{
		UserID:        event.UserID,
		DeactivatedAt: event.DeactivatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.deactivated", event.DeactivatedAt, payload)
}

// PublishRoleChanged publishes identity.role.changed events.
func (p *EventPublisher) PublishRoleChanged(ctx context.Context, event domain.RoleChangedEvent) error {
	payload := struct {
		RoleID        string    `json:"role_id"`
		RoleName      string    `json:"role_name"`
		PermissionIDs []string  `json:"permission_ids"`
		ChangedAt     time.Time `json:"changed_at"`
	}{
		RoleID:        event.RoleID,
		RoleName:      event.RoleName,
		PermissionIDs: event.PermissionIDs,
		ChangedAt:     event.ChangedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "role.changed", event.ChangedAt, payload)
}

// PublishPermissionDeleted publishes identity.permission.deleted events.
func (p *EventPublisher) PublishPermissionDeleted(ctx context.Context, event domain.PermissionDeletedEvent) error {
	payload := struct {
		PermissionID string    `json:"permission_id"`
		Resource     string    `json:"resource"`
		Action       string    `json:"action"`
		DeletedAt    time.Time `json:"deleted_at"`
	}{
		PermissionID: event.PermissionID,
		Resource:     event.Resource,
		Action:       event.Action,
		DeletedAt:    event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "permission.deleted", event.DeletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
