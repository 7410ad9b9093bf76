package port

import (
	"context"

	"github.com/identra/identity-service/internal/core/domain"
)

// UserRepository exposes persistence behavior for users. Implementations
// return repository.ErrNotFound for missing rows and repository.ErrConflict
// for unique-constraint violations; any other failure is opaque.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete reports whether a row existed. The deletion strategy (soft or
	// hard) is the adapter's choice; callers depend only on the flag.
	Delete(ctx context.Context, id string) (bool, error)
}
