package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/repository"
)

// AuthorizationService resolves a user's effective permissions through their
// role and evaluates individual grants. User, Role, and Permission remain
// separate aggregates; the service composes them through repository lookups.
type AuthorizationService struct {
	users       port.UserRepository
	roles       port.RoleRepository
	permissions port.PermissionRepository
}

// NewAuthorizationService constructs an AuthorizationService.
func NewAuthorizationService(users port.UserRepository, roles port.RoleRepository, permissions port.PermissionRepository) *AuthorizationService {
	return &AuthorizationService{users: users, roles: roles, permissions: permissions}
}

// UserHasPermission answers whether the user may perform action on resource.
// Inactive users are denied without error. Permission ids that no longer
// resolve are skipped; only existing permissions participate in the decision.
func (s *AuthorizationService) UserHasPermission(ctx context.Context, userID, resource, action string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, domain.NewNotFoundError("User", userID)
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive() {
		return false, nil
	}

	role, err := s.roles.GetByID(ctx, user.RoleID().String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, domain.NewNotFoundError("Role", user.RoleID().String())
		}
		return false, fmt.Errorf("lookup role: %w", err)
	}

	permissionIDs := role.PermissionIDs()
	if len(permissionIDs) == 0 {
		return false, nil
	}

	permissions, err := s.loadPermissions(ctx, permissionIDs)
	if err != nil {
		return false, err
	}

	for _, permission := range permissions {
		if permission.Grants(resource, action) {
			return true, nil
		}
	}

	return false, nil
}

// UserHasRole reports whether the user's role carries the given name,
// compared case-insensitively. A dangling role reference yields false, not
// an error.
func (s *AuthorizationService) UserHasRole(ctx context.Context, userID, roleName string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, domain.NewNotFoundError("User", userID)
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}

	role, err := s.roles.GetByID(ctx, user.RoleID().String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup role: %w", err)
	}

	return strings.EqualFold(role.Name(), strings.TrimSpace(roleName)), nil
}

// GetUserPermissions returns the user's effective permission set. Inactive
// users and dangling role references produce an empty list rather than an
// error.
func (s *AuthorizationService) GetUserPermissions(ctx context.Context, userID string) ([]PermissionDTO, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("User", userID)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive() {
		return []PermissionDTO{}, nil
	}

	role, err := s.roles.GetByID(ctx, user.RoleID().String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []PermissionDTO{}, nil
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}

	permissionIDs := role.PermissionIDs()
	if len(permissionIDs) == 0 {
		return []PermissionDTO{}, nil
	}

	permissions, err := s.loadPermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	return NewPermissionDTOs(permissions), nil
}

// AccessCheckInput is the payload for an explicit authorization query.
type AccessCheckInput struct {
	UserID   string
	Resource string
	Action   string
}

// AccessDecision is the outcome of an authorization query.
type AccessDecision struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Allowed  bool   `json:"allowed"`
}

// CheckAccess validates the input and evaluates the permission check.
func (s *AuthorizationService) CheckAccess(ctx context.Context, input AccessCheckInput) (*AccessDecision, error) {
	userID, err := domain.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	resource := strings.TrimSpace(input.Resource)
	if resource == "" {
		return nil, domain.NewValidationError("resource", "resource is required")
	}
	action := strings.TrimSpace(input.Action)
	if action == "" {
		return nil, domain.NewValidationError("action", "action is required")
	}

	allowed, err := s.UserHasPermission(ctx, userID.String(), resource, action)
	if err != nil {
		return nil, err
	}

	return &AccessDecision{
		UserID:   userID.String(),
		Resource: resource,
		Action:   action,
		Allowed:  allowed,
	}, nil
}

func (s *AuthorizationService) loadPermissions(ctx context.Context, ids []domain.PermissionID) ([]*domain.Permission, error) {
	rawIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		rawIDs = append(rawIDs, id.String())
	}

	permissions, err := s.permissions.GetByIDs(ctx, rawIDs)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	return permissions, nil
}
