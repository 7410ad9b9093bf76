package domain

import (
	"regexp"
	"strings"
	"time"
)

// Wildcard is the literal that matches any resource or action.
const Wildcard = "*"

const (
	maxPermissionTokenLength = 50
	maxDescriptionLength     = 255
)

var permissionToken = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Permission is an immutable grant descriptor for a resource/action pair.
// Only the description may change after creation.
type Permission struct {
	id          PermissionID
	resource    string
	action      string
	description string
	createdAt   time.Time
}

// PermissionProps carries trusted state for hydrating a permission from storage.
type PermissionProps struct {
	ID          PermissionID
	Resource    string
	Action      string
	Description string
	CreatedAt   time.Time
}

// NewPermission validates and creates a permission with a fresh identifier.
func NewPermission(resource, action, description string) (*Permission, error) {
	normalizedResource, err := normalizePermissionToken("resource", resource)
	if err != nil {
		return nil, err
	}
	normalizedAction, err := normalizePermissionToken("action", action)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	return &Permission{
		id:          NewPermissionID(),
		resource:    normalizedResource,
		action:      normalizedAction,
		description: strings.TrimSpace(description),
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstitutePermission hydrates a permission from trusted storage state.
func ReconstitutePermission(props PermissionProps) *Permission {
	return &Permission{
		id:          props.ID,
		resource:    props.Resource,
		action:      props.Action,
		description: props.Description,
		createdAt:   props.CreatedAt,
	}
}

func (p *Permission) ID() PermissionID     { return p.id }
func (p *Permission) Resource() string     { return p.resource }
func (p *Permission) Action() string       { return p.action }
func (p *Permission) Description() string  { return p.description }
func (p *Permission) CreatedAt() time.Time { return p.createdAt }

// Code returns the canonical "resource:action" form.
func (p *Permission) Code() string {
	return p.resource + ":" + p.action
}

// Grants reports whether this permission covers the requested pair. The
// wildcard model is flat: exact match, "resource:*", "*:action", and "*:*"
// are the only rules; there is no hierarchy inside a token.
func (p *Permission) Grants(resource, action string) bool {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	resourceMatches := p.resource == Wildcard || p.resource == resource
	actionMatches := p.action == Wildcard || p.action == action

	return resourceMatches && actionMatches
}

// UpdateDescription replaces the description. Resource and action are frozen.
func (p *Permission) UpdateDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	p.description = strings.TrimSpace(description)
	return nil
}

func normalizePermissionToken(field, raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", NewValidationError(field, field+" is required")
	}
	if normalized == Wildcard {
		return normalized, nil
	}
	if len(normalized) > maxPermissionTokenLength {
		return "", NewValidationError(field, field+" must not exceed 50 characters")
	}
	if !permissionToken.MatchString(normalized) {
		return "", NewValidationError(field, field+" may only contain lowercase letters, digits, underscores, and hyphens")
	}
	return normalized, nil
}

func validateDescription(description string) error {
	if len(strings.TrimSpace(description)) > maxDescriptionLength {
		return NewValidationError("description", "description must not exceed 255 characters")
	}
	return nil
}
