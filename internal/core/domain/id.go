package domain

import (
	"strings"

	uuid "github.com/google/uuid"
)

// parseV4 accepts only canonical random (version 4, RFC 4122) UUIDs.
func parseV4(field, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewValidationError(field, "identifier is required")
	}

	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", NewValidationError(field, "identifier must be a valid UUID")
	}
	if parsed.Version() != 4 || parsed.Variant() != uuid.RFC4122 {
		return "", NewValidationError(field, "identifier must be a version 4 UUID")
	}

	return parsed.String(), nil
}

// UserID identifies a user aggregate.
type UserID struct {
	value string
}

// NewUserID generates a random user identifier.
func NewUserID() UserID {
	return UserID{value: uuid.NewString()}
}

// ParseUserID validates and wraps an externally supplied user identifier.
func ParseUserID(raw string) (UserID, error) {
	value, err := parseV4("userId", raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID{value: value}, nil
}

// UserIDFromStorage wraps a persisted identifier without validation.
func UserIDFromStorage(raw string) UserID {
	return UserID{value: raw}
}

func (id UserID) String() string { return id.value }

// Equals compares identifiers by value.
func (id UserID) Equals(other UserID) bool { return id.value == other.value }

// RoleID identifies a role aggregate.
type RoleID struct {
	value string
}

// NewRoleID generates a random role identifier.
func NewRoleID() RoleID {
	return RoleID{value: uuid.NewString()}
}

// ParseRoleID validates and wraps an externally supplied role identifier.
func ParseRoleID(raw string) (RoleID, error) {
	value, err := parseV4("roleId", raw)
	if err != nil {
		return RoleID{}, err
	}
	return RoleID{value: value}, nil
}

// RoleIDFromStorage wraps a persisted identifier without validation.
func RoleIDFromStorage(raw string) RoleID {
	return RoleID{value: raw}
}

func (id RoleID) String() string { return id.value }

// Equals compares identifiers by value.
func (id RoleID) Equals(other RoleID) bool { return id.value == other.value }

// PermissionID identifies a permission aggregate.
type PermissionID struct {
	value string
}

// NewPermissionID generates a random permission identifier.
func NewPermissionID() PermissionID {
	return PermissionID{value: uuid.NewString()}
}

// ParsePermissionID validates and wraps an externally supplied permission identifier.
func ParsePermissionID(raw string) (PermissionID, error) {
	value, err := parseV4("permissionId", raw)
	if err != nil {
		return PermissionID{}, err
	}
	return PermissionID{value: value}, nil
}

// PermissionIDFromStorage wraps a persisted identifier without validation.
func PermissionIDFromStorage(raw string) PermissionID {
	return PermissionID{value: raw}
}

func (id PermissionID) String() string { return id.value }

// Equals compares identifiers by value.
func (id PermissionID) Equals(other PermissionID) bool { return id.value == other.value }
