package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/infra/security"
	"github.com/identra/identity-service/internal/repository"
)

// DefaultRoleName is the seeded role every self-registered user receives.
const DefaultRoleName = "USER"

// RegistrationService handles self-service account creation.
type RegistrationService struct {
	users  port.UserRepository
	roles  port.RoleRepository
	hasher port.PasswordHasher
	events port.EventPublisher
	logger *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(users port.UserRepository, roles port.RoleRepository, hasher port.PasswordHasher, events port.EventPublisher, log *zap.Logger) *RegistrationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{users: users, roles: roles, hasher: hasher, events: events, logger: log}
}

// RegisterInput carries the self-registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register validates the payload, hashes the password, attaches the default
// USER role, and persists the new account. A missing USER role is a system
// misconfiguration and surfaces as NotFoundError.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
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

	passwordHash, err := s.hasher.Hash(password.String())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	defaultRole, err := s.roles.GetByName(ctx, DefaultRoleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError("Role", DefaultRoleName)
		}
		return nil, fmt.Errorf("lookup default role: %w", err)
	}

	user, err := domain.NewUser(email, passwordHash, input.FirstName, input.LastName, defaultRole.ID())
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration may win the unique index between the
		// existence check and the insert; surface it the same way.
		if errors.Is(err, repository.ErrConflict) {
			return nil, domain.NewConflictError("User", "email", email.String())
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publishRegistered(ctx, user)

	dto := NewUserDTO(user)
	return &dto, nil
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user *domain.User) {
	if s.events == nil {
		return
	}

	event := domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID().String(),
		Email:        user.Email().String(),
		RoleID:       user.RoleID().String(),
		RegisteredAt: time.Now().UTC(),
	}

	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("publish user registered event failed", zap.Error(err), zap.String("user_id", event.UserID))
	}
}
