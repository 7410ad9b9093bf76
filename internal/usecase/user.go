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
	"github.com/identra/identity-service/internal/infra/security"
	"github.com/identra/identity-service/internal/repository"
)

// UserService manages administrative user CRUD.
type UserService struct {
	users  port.UserRepository
	roles  port.RoleRepository
	hasher port.PasswordHasher
	events port.EventPublisher
	logger *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users port.UserRepository, roles port.RoleRepository, hasher port.PasswordHasher, events port.EventPublisher, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, roles: roles, hasher: hasher, events: events, logger: log}
}

// CreateUserInput carries the payload for administrative user creation.
// Unlike registration there is no default role: the caller must name one.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleID    string
}

// CreateUser validates and persists a new user with an explicit role.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email.String())
	if err != nil {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		return nil, domain.NewConflictError("User", "email", email.String())
	}

	password, err := domain.NewPassword(input.Password)
	if err != nil {
		return nil, err
	}
	if err := security.CheckPasswordStrength(password.String(), email.String(), input.FirstName, input.LastName); err != nil {
		return nil, err
	}

	roleID, err := domain.ParseRoleID(input.RoleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.roles.GetByID(ctx, roleID.String()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("Role", roleID.String())
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password.String())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := domain.NewUser(email, passwordHash, input.FirstName, input.LastName, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.NewConflictError("User", "email", email.String())
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	dto := NewUserDTO(user)
	return &dto, nil
}

// GetUser loads a single user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*UserDTO, error) {
	userID, err := domain.ParseUserID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("User", userID.String())
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	dto := NewUserDTO(user)
	return &dto, nil
}

// UpdateUserInput carries partial-update fields; nil pointers leave the
// corresponding attribute untouched.
type UpdateUserInput struct {
	ID        string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	RoleID    *string
}

// UpdateUser applies the supplied fields one at a time. Each field is
// validated individually and the first failure short-circuits the rest, so a
// rejected update leaves no partial mutation behind in storage.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	userID, err := domain.ParseUserID(input.ID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("User", userID.String())
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.Email != nil {
		email, err := domain.NewEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if !user.Email().Equals(email) {
			exists, err := s.users.ExistsByEmail(ctx, email.String())
			if err != nil {
				return nil, fmt.Errorf("check email uniqueness: %w", err)
			}
			if exists {
				return nil, domain.NewConflictError("User", "email", email.String())
			}
		}
		if err := user.ChangeEmail(email); err != nil {
			return nil, err
		}
	}

	if input.FirstName != nil {
		if err := user.ChangeFirstName(*input.FirstName); err != nil {
			return nil, err
		}
	}

	if input.LastName != nil {
		if err := user.ChangeLastName(*input.LastName); err != nil {
			return nil, err
		}
	}

	if input.Password != nil {
		password, err := domain.NewPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		passwordHash, err := s.hasher.Hash(password.String())
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := user.ChangePassword(passwordHash); err != nil {
			return nil, err
		}
	}

	if input.RoleID != nil {
		roleID, err := domain.ParseRoleID(*input.RoleID)
		if err != nil {
			return nil, err
		}
		if _, err := s.roles.GetByID(ctx, roleID.String()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.NewNotFoundError("Role", roleID.String())
			}
			return nil, fmt.Errorf("lookup role: %w", err)
		}
		if err := user.ChangeRole(roleID); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.NewConflictError("User", "email", user.Email().String())
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	dto := NewUserDTO(user)
	return &dto, nil
}

// DeleteUser removes a user by id. The repository decides between soft and
// hard deletion; the service only depends on the existence flag.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	userID, err := domain.ParseUserID(id)
	if err != nil {
		return err
	}

	found, err := s.users.Delete(ctx, userID.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !found {
		return domain.NewNotFoundError("User", userID.String())
	}

	return nil
}

// ActivateUser re-enables an account.
func (s *UserService) ActivateUser(ctx context.Context, id string) (*UserDTO, error) {
	return s.toggleActivation(ctx, id, true)
}

// DeactivateUser disables an account and announces it so downstream caches
// stop honoring the user's grants.
func (s *UserService) DeactivateUser(ctx context.Context, id string) (*UserDTO, error) {
	return s.toggleActivation(ctx, id, false)
}

func (s *UserService) toggleActivation(ctx context.Context, id string, active bool) (*UserDTO, error) {
	userID, err := domain.ParseUserID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("User", userID.String())
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if active {
		err = user.Activate()
	} else {
		err = user.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if !active {
		s.publishDeactivated(ctx, user)
	}

	dto := NewUserDTO(user)
	return &dto, nil
}

// ListUsers returns a validated, paginated slice of users. The row fetch and
// the total count are independent reads and run concurrently.
func (s *UserService) ListUsers(ctx context.Context, limit, offset *int) (*Page[UserDTO], error) {
	params, err := NewPageParams(limit, offset)
	if err != nil {
		return nil, err
	}

	var (
		users []*domain.User
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.List(gctx, params.Limit, params.Offset)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page[UserDTO]{
		Data:       NewUserDTOs(users),
		Pagination: BuildPagination(total, params),
	}, nil
}

func (s *UserService) publishDeactivated(ctx context.Context, user *domain.User) {
	if s.events == nil {
		return
	}

	event := domain.UserDeactivatedEvent{
		EventID:       uuid.NewString(),
		UserID:        user.ID().String(),
		DeactivatedAt: time.Now().UTC(),
	}

	if err := s.events.PublishUserDeactivated(ctx, event); err != nil {
		s.logger.Warn("publish user deactivated event failed", zap.Error(err), zap.String("user_id", event.UserID))
	}
}
