package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/repository"
)

// RoleService manages role CRUD and permission assignment.
type RoleService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	events      port.EventPublisher
	logger      *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleRepository, permissions port.PermissionRepository, events port.EventPublisher, log *zap.Logger) *RoleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoleService{roles: roles, permissions: permissions, events: events, logger: log}
}

// CreateRoleInput carries the payload for creating a custom role.
type CreateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []string
}

// CreateRole validates name uniqueness and permission-id existence, then
// persists a new non-system role.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	name, err := domain.NormalizeRoleName(input.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.roles.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check role name uniqueness: %w", err)
	}
	if exists {
		return nil, domain.NewConflictError("Role", "name", name)
	}

	permissionIDs, err := s.resolvePermissionIDs(ctx, input.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role, err := domain.NewRole(name, input.Description, permissionIDs)
	if err != nil {
		return nil, err
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.NewConflictError("Role", "name", name)
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	dto := NewRoleDTO(role)
	return &dto, nil
}

// GetRole loads a single role by id.
func (s *RoleService) GetRole(ctx context.Context, id string) (*RoleDTO, error) {
	role, err := s.loadRole(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := NewRoleDTO(role)
	return &dto, nil
}

// UpdateRoleInput carries partial-update fields for a role.
type UpdateRoleInput struct {
	ID            string
	Name          *string
	Description   *string
	PermissionIDs *[]string
}

// UpdateRole mutates a custom role. System roles are rejected outright.
func (s *RoleService) UpdateRole(ctx context.Context, input UpdateRoleInput) (*RoleDTO, error) {
	role, err := s.loadRole(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if role.IsSystem() {
		return nil, domain.NewForbiddenError("update", "Role", "system roles cannot be modified")
	}

	if input.Name != nil {
		name, err := domain.NormalizeRoleName(*input.Name)
		if err != nil {
			return nil, err
		}
		if name != role.Name() {
			exists, err := s.roles.ExistsByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("check role name uniqueness: %w", err)
			}
			if exists {
				return nil, domain.NewConflictError("Role", "name", name)
			}
			if err := role.Rename(name); err != nil {
				return nil, err
			}
		}
	}

	if input.Description != nil {
		if err := role.ChangeDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	if input.PermissionIDs != nil {
		permissionIDs, err := s.resolvePermissionIDs(ctx, *input.PermissionIDs)
		if err != nil {
			return nil, err
		}
		if err := role.ReplacePermissions(permissionIDs); err != nil {
			return nil, err
		}
	}

	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.NewConflictError("Role", "name", role.Name())
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.publishRoleChanged(ctx, role)

	dto := NewRoleDTO(role)
	return &dto, nil
}

// DeleteRole removes a custom role. System roles are rejected outright.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	role, err := s.loadRole(ctx, id)
	if err != nil {
		return err
	}

	if role.IsSystem() {
		return domain.NewForbiddenError("delete", "Role", "system roles cannot be deleted")
	}

	found, err := s.roles.Delete(ctx, role.ID().String())
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if !found {
		return domain.NewNotFoundError("Role", role.ID().String())
	}

	return nil
}

// AssignPermission adds a single permission to a custom role.
func (s *RoleService) AssignPermission(ctx context.Context, roleID, permissionID string) (*RoleDTO, error) {
	role, err := s.loadRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if role.IsSystem() {
		return nil, domain.NewForbiddenError("update", "Role", "system roles cannot be modified")
	}

	permID, err := domain.ParsePermissionID(permissionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.permissions.GetByID(ctx, permID.String()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("Permission", permID.String())
		}
		return nil, fmt.Errorf("lookup permission: %w", err)
	}

	if err := role.AssignPermission(permID); err != nil {
		return nil, err
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.publishRoleChanged(ctx, role)

	dto := NewRoleDTO(role)
	return &dto, nil
}

// RemovePermission drops a single permission from a custom role.
func (s *RoleService) RemovePermission(ctx context.Context, roleID, permissionID string) (*RoleDTO, error) {
	role, err := s.loadRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if role.IsSystem() {
		return nil, domain.NewForbiddenError("update", "Role", "system roles cannot be modified")
	}

	permID, err := domain.ParsePermissionID(permissionID)
	if err != nil {
		return nil, err
	}

	if err := role.RemovePermission(permID); err != nil {
		return nil, err
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.publishRoleChanged(ctx, role)

	dto := NewRoleDTO(role)
	return &dto, nil
}

// ListRoles returns a validated, paginated slice of roles.
func (s *RoleService) ListRoles(ctx context.Context, limit, offset *int) (*Page[RoleDTO], error) {
	params, err := NewPageParams(limit, offset)
	if err != nil {
		return nil, err
	}

	var (
		roles []*domain.Role
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.roles.List(gctx, params.Limit, params.Offset)
		if err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.roles.Count(gctx)
		if err != nil {
			return fmt.Errorf("count roles: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page[RoleDTO]{
		Data:       NewRoleDTOs(roles),
		Pagination: BuildPagination(total, params),
	}, nil
}

func (s *RoleService) loadRole(ctx context.Context, id string) (*domain.Role, error) {
	roleID, err := domain.ParseRoleID(id)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetByID(ctx, roleID.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("Role", roleID.String())
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	return role, nil
}

// resolvePermissionIDs parses the requested ids and verifies every one of
// them resolves to a stored permission, reporting all missing ids at once.
func (s *RoleService) resolvePermissionIDs(ctx context.Context, rawIDs []string) ([]domain.PermissionID, error) {
	if len(rawIDs) == 0 {
		return nil, nil
	}

	ids := make([]domain.PermissionID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := domain.ParsePermissionID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	lookup := make([]string, 0, len(ids))
	for _, id := range ids {
		lookup = append(lookup, id.String())
	}

	found, err := s.permissions.GetByIDs(ctx, lookup)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	foundSet := make(map[string]struct{}, len(found))
	for _, permission := range found {
		foundSet[permission.ID().String()] = struct{}{}
	}

	missing := make([]string, 0)
	for _, id := range lookup {
		if _, ok := foundSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewNotFoundError("Permission", strings.Join(missing, ", "))
	}

	return ids, nil
}

func (s *RoleService) publishRoleChanged(ctx context.Context, role *domain.Role) {
	if s.events == nil {
		return
	}

	ids := role.PermissionIDs()
	rawIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		rawIDs = append(rawIDs, id.String())
	}

	event := domain.RoleChangedEvent{
		EventID:       uuid.NewString(),
		RoleID:        role.ID().String(),
		RoleName:      role.Name(),
		PermissionIDs: rawIDs,
		ChangedAt:     time.Now().UTC(),
	}

	if err := s.events.PublishRoleChanged(ctx, event); err != nil {
		s.logger.Warn("publish role changed event failed", zap.Error(err), zap.String("role_id", event.RoleID))
	}
}
