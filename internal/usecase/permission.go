package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/repository"
)

// PermissionService manages grant descriptor CRUD.
type PermissionService struct {
	permissions port.PermissionRepository
	events      port.EventPublisher
	logger      *zap.Logger
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(permissions port.PermissionRepository, events port.EventPublisher, log *zap.Logger) *PermissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PermissionService{permissions: permissions, events: events, logger: log}
}

// CreatePermissionInput carries the payload for creating a permission.
type CreatePermissionInput struct {
	Resource    string
	Action      string
	Description string
}

// CreatePermission validates the resource/action pair, enforces its global
// uniqueness, and persists the descriptor.
func (s *PermissionService) CreatePermission(ctx context.Context, input CreatePermissionInput) (*PermissionDTO, error) {
	permission, err := domain.NewPermission(input.Resource, input.Action, input.Description)
	if err != nil {
		return nil, err
	}

	exists, err := s.permissions.ExistsByResourceAction(ctx, permission.Resource(), permission.Action())
	if err != nil {
		return nil, fmt.Errorf("check permission uniqueness: %w", err)
	}
	if exists {
		return nil, domain.NewConflictError("Permission", "code", permission.Code())
	}

	if err := s.permissions.Create(ctx, permission); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.NewConflictError("Permission", "code", permission.Code())
		}
		return nil, fmt.Errorf("create permission: %w", err)
	}

	dto := NewPermissionDTO(permission)
	return &dto, nil
}

// GetPermission loads a single permission by id.
func (s *PermissionService) GetPermission(ctx context.Context, id string) (*PermissionDTO, error) {
	permission, err := s.loadPermission(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := NewPermissionDTO(permission)
	return &dto, nil
}

// UpdatePermissionInput carries the updatable permission fields. Resource and
// action are frozen after creation; only the description may change.
type UpdatePermissionInput struct {
	ID          string
	Description string
}

// UpdatePermission replaces a permission's description.
func (s *PermissionService) UpdatePermission(ctx context.Context, input UpdatePermissionInput) (*PermissionDTO, error) {
	permission, err := s.loadPermission(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := permission.UpdateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, fmt.Errorf("update permission: %w", err)
	}

	dto := NewPermissionDTO(permission)
	return &dto, nil
}

// DeletePermission removes a permission by id and announces the removal so
// cached grants can be invalidated.
func (s *PermissionService) DeletePermission(ctx context.Context, id string) error {
	permission, err := s.loadPermission(ctx, id)
	if err != nil {
		return err
	}

	found, err := s.permissions.Delete(ctx, permission.ID().String())
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if !found {
		return domain.NewNotFoundError("Permission", permission.ID().String())
	}

	s.publishDeleted(ctx, permission)

	return nil
}

// ListPermissions returns a validated, paginated slice of permissions.
func (s *PermissionService) ListPermissions(ctx context.Context, limit, offset *int) (*Page[PermissionDTO], error) {
	params, err := NewPageParams(limit, offset)
	if err != nil {
		return nil, err
	}

	var (
		permissions []*domain.Permission
		total       int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		permissions, err = s.permissions.List(gctx, params.Limit, params.Offset)
		if err != nil {
			return fmt.Errorf("list permissions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.permissions.Count(gctx)
		if err != nil {
			return fmt.Errorf("count permissions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page[PermissionDTO]{
		Data:       NewPermissionDTOs(permissions),
		Pagination: BuildPagination(total, params),
	}, nil
}

func (s *PermissionService) loadPermission(ctx context.Context, id string) (*domain.Permission, error) {
	permID, err := domain.ParsePermissionID(id)
	if err != nil {
		return nil, err
	}

	permission, err := s.permissions.GetByID(ctx, permID.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("Permission", permID.String())
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return permission, nil
}

func (s *PermissionService) publishDeleted(ctx context.Context, permission *domain.Permission) {
	if s.events == nil {
		return
	}

	event := domain.PermissionDeletedEvent{
		EventID:      uuid.NewString(),
		PermissionID: permission.ID().String(),
		Resource:     permission.Resource(),
		Action:       permission.Action(),
		DeletedAt:    time.Now().UTC(),
	}

	if err := s.events.PublishPermissionDeleted(ctx, event); err != nil {
		s.logger.Warn("publish permission deleted event failed", zap.Error(err), zap.String("permission_id", event.PermissionID))
	}
}
