package kafka

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/infra/config"
)

func TestTopicName(t *testing.T) {
	cases := []struct {
		name      string
		prefix    string
		eventType string
		want      string
	}{
		{"no prefix", "", "user.registered", "user.registered"},
		{"prefix applied", "identity", "user.registered", "identity.user.registered"},
		{"already prefixed", "identity", "identity.user.registered", "identity.user.registered"},
		{"prefix applied to role events", "identity", "role.changed", "identity.role.changed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Producer{cfg: config.KafkaSettings{TopicPrefix: tc.prefix}}
			if got := p.TopicName(tc.eventType); got != tc.want {
				t.Errorf("TopicName(%q) = %q, want %q", tc.eventType, got, tc.want)
			}
		})
	}
}

func TestStubPublisherAcceptsAllEvents(t *testing.T) {
	pub := NewStubPublisher(zap.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	if err := pub.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		UserID:       "user-1",
		Email:        "alice@example.com",
		RoleID:       "role-1",
		RegisteredAt: now,
	}); err != nil {
		t.Errorf("PublishUserRegistered returned error: %v", err)
	}

	if err := pub.PublishUserDeactivated(ctx, domain.UserDeactivatedEvent{
		UserID:        "user-1",
		DeactivatedAt: now,
	}); err != nil {
		t.Errorf("PublishUserDeactivated returned error: %v", err)
	}

	if err := pub.PublishRoleChanged(ctx, domain.RoleChangedEvent{
		RoleID:        "role-1",
		RoleName:      "EDITOR",
		PermissionIDs: []string{"perm-1"},
		ChangedAt:     now,
	}); err != nil {
		t.Errorf("PublishRoleChanged returned error: %v", err)
	}

	if err := pub.PublishPermissionDeleted(ctx, domain.PermissionDeletedEvent{
		PermissionID: "perm-1",
		Resource:     "users",
		Action:       "read",
		DeletedAt:    now,
	}); err != nil {
		t.Errorf("PublishPermissionDeleted returned error: %v", err)
	}
}
