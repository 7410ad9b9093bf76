package port

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
)

// PermissionRepository manages grant descriptor storage.
type PermissionRepository interface {
	Create(ctx context.Context, permission *domain.Permission) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	// GetByIDs bulk-loads permissions. Ids that no longer resolve are
	// silently omitted from the result rather than reported as errors.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Permission, error)
	ExistsByResourceAction(ctx context.Context, resource, action string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Permission, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, permission *domain.Permission) error
	Delete(ctx context.Context, id string) (bool, error)
}
