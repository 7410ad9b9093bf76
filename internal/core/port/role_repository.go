package port

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
)

// RoleRepository handles role persistence including the permission join.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Role, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) (bool, error)
}
