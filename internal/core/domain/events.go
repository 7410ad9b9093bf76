package domain

import "time"

// UserRegisteredEvent is published after a successful self-service registration.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	RoleID       string
	RegisteredAt time.Time
}

// UserDeactivatedEvent is published when an account is disabled so downstream
// consumers can drop cached authorization state.
type UserDeactivatedEvent struct {
	EventID       string
	UserID        string
	DeactivatedAt time.Time
}

// RoleChangedEvent is published whenever a role's permission set or metadata
// changes, including wholesale permission replacement.
type RoleChangedEvent struct {
	EventID       string
	RoleID        string
	RoleName      string
	PermissionIDs []string
	ChangedAt     time.Time
}

// PermissionDeletedEvent is published when a grant descriptor is removed.
type PermissionDeletedEvent struct {
	EventID      string
	PermissionID string
	Resource     string
	Action       string
	DeletedAt    time.Time
}
