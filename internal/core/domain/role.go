package domain

import (
	"regexp"
	"strings"
	"time"
)

const maxRoleNameLength = 50

var roleNameFormat = regexp.MustCompile(`^[A-Z0-9_]+$`)

// Role is a named bundle of permission references. System roles are seeded at
// install time and are immutable through the public API.
type Role struct {
	id            RoleID
	name          string
	description   string
	isSystem      bool
	permissionIDs []PermissionID
	createdAt     time.Time
	updatedAt     time.Time
}

// RoleProps carries trusted state for hydrating a role from storage.
type RoleProps struct {
	ID            RoleID
	Name          string
	Description   string
	IsSystem      bool
	PermissionIDs []PermissionID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRole validates and creates a custom (non-system) role. The name is
// normalized to uppercase; duplicate permission ids are collapsed into a
// single entry and empty ids are rejected.
func NewRole(name, description string, permissionIDs []PermissionID) (*Role, error) {
	normalized, err := NormalizeRoleName(name)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	deduped, err := uniquePermissionIDs(permissionIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Role{
		id:            NewRoleID(),
		name:          normalized,
		description:   strings.TrimSpace(description),
		isSystem:      false,
		permissionIDs: deduped,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstituteRole hydrates a role from trusted storage state. The permission
// id slice is copied so later mutation of the input cannot reach the entity.
func ReconstituteRole(props RoleProps) *Role {
	ids := make([]PermissionID, len(props.PermissionIDs))
	copy(ids, props.PermissionIDs)

	return &Role{
		id:            props.ID,
		name:          props.Name,
		description:   props.Description,
		isSystem:      props.IsSystem,
		permissionIDs: ids,
		createdAt:     props.CreatedAt,
		updatedAt:     props.UpdatedAt,
	}
}

func (r *Role) ID() RoleID           { return r.id }
func (r *Role) Name() string         { return r.name }
func (r *Role) Description() string  { return r.description }
func (r *Role) IsSystem() bool       { return r.isSystem }
func (r *Role) CreatedAt() time.Time { return r.createdAt }
func (r *Role) UpdatedAt() time.Time { return r.updatedAt }

// PermissionIDs returns a copy of the permission id set.
func (r *Role) PermissionIDs() []PermissionID {
	ids := make([]PermissionID, len(r.permissionIDs))
	copy(ids, r.permissionIDs)
	return ids
}

// HasPermission reports whether the role references the given permission id.
func (r *Role) HasPermission(id PermissionID) bool {
	for _, existing := range r.permissionIDs {
		if existing.Equals(id) {
			return true
		}
	}
	return false
}

// AssignPermission adds a permission reference; duplicates are rejected.
func (r *Role) AssignPermission(id PermissionID) error {
	if r.HasPermission(id) {
		return NewValidationError("permissionId", "permission is already assigned to this role")
	}
	r.permissionIDs = append(r.permissionIDs, id)
	r.touch()
	return nil
}

// RemovePermission drops a permission reference; absence is rejected.
func (r *Role) RemovePermission(id PermissionID) error {
	for i, existing := range r.permissionIDs {
		if existing.Equals(id) {
			r.permissionIDs = append(r.permissionIDs[:i], r.permissionIDs[i+1:]...)
			r.touch()
			return nil
		}
	}
	return NewValidationError("permissionId", "permission is not assigned to this role")
}

// ReplacePermissions swaps the whole permission set, deduplicating the input.
func (r *Role) ReplacePermissions(ids []PermissionID) error {
	deduped, err := uniquePermissionIDs(ids)
	if err != nil {
		return err
	}
	r.permissionIDs = deduped
	r.touch()
	return nil
}

// Rename changes the role name, applying the same normalization as creation.
func (r *Role) Rename(name string) error {
	normalized, err := NormalizeRoleName(name)
	if err != nil {
		return err
	}
	r.name = normalized
	r.touch()
	return nil
}

// ChangeDescription replaces the description.
func (r *Role) ChangeDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	r.description = strings.TrimSpace(description)
	r.touch()
	return nil
}

func (r *Role) touch() {
	r.updatedAt = time.Now().UTC()
}

// NormalizeRoleName uppercases and validates a role name. Uniqueness checks
// against storage compare these normalized forms, which makes them
// case-insensitive.
func NormalizeRoleName(name string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if normalized == "" {
		return "", NewValidationError("name", "role name is required")
	}
	if len(normalized) > maxRoleNameLength {
		return "", NewValidationError("name", "role name must not exceed 50 characters")
	}
	if !roleNameFormat.MatchString(normalized) {
		return "", NewValidationError("name", "role name may only contain letters, digits, and underscores")
	}
	return normalized, nil
}

func uniquePermissionIDs(ids []PermissionID) ([]PermissionID, error) {
	deduped := make([]PermissionID, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id.String() == "" {
			return nil, NewValidationError("permissionIds", "permission id must not be empty")
		}
		if _, dup := seen[id.String()]; dup {
			continue
		}
		seen[id.String()] = struct{}{}
		deduped = append(deduped, id)
	}
	return deduped, nil
}
