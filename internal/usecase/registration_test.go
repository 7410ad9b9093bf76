package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/repository"
)

const strongTestPassword = "Tr4verse!Quartz~Lamp"

func seedDefaultRole(t *testing.T, roles *roleRepoMock) *domain.Role {
	t.Helper()

	role, err := domain.NewRole(DefaultRoleName, "Standard authenticated user", nil)
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}
	roles.add(role)
	return role
}

func TestRegisterSuccess(t *testing.T) {
	users := newUserRepoMock()
	roles := newRoleRepoMock()
	defaultRole := seedDefaultRole(t, roles)
	events := &eventRecorderMock{}

	svc := NewRegistrationService(users, roles, &hasherMock{}, events, nil)

	dto, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Alice@Example.com",
		Password:  strongTestPassword,
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if dto.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", dto.Email)
	}
	if dto.RoleID != defaultRole.ID().String() {
		t.Error("expected the default role to be attached")
	}
	if !dto.IsActive {
		t.Error("expected new account to be active")
	}

	stored, err := users.GetByID(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("expected account to be persisted: %v", err)
	}
	if stored.PasswordHash() == strongTestPassword {
		t.Error("expected password to be stored hashed")
	}

	if len(events.registered) != 1 {
		t.Fatalf("expected 1 registration event, got %d", len(events.registered))
	}
	if events.registered[0].UserID != dto.ID {
		t.Error("expected event to reference the new user")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newUserRepoMock()
	roles := newRoleRepoMock()
	seedDefaultRole(t, roles)

	svc := NewRegistrationService(users, roles, &hasherMock{}, &eventRecorderMock{}, nil)

	input := RegisterInput{
		Email:     "alice@example.com",
		Password:  strongTestPassword,
		FirstName: "Alice",
		LastName:  "Smith",
	}

	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.Register(context.Background(), input)

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "email" {
		t.Errorf("expected conflict on email, got %q", conflict.Field)
	}
}

func TestRegisterConcurrentConflictOnInsert(t *testing.T) {
	users := newUserRepoMock()
	users.createErr = repository.ErrConflict
	roles := newRoleRepoMock()
	seedDefaultRole(t, roles)

	svc := NewRegistrationService(users, roles, &hasherMock{}, &eventRecorderMock{}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "alice@example.com",
		Password:  strongTestPassword,
		FirstName: "Alice",
		LastName:  "Smith",
	})

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected insert race to surface as ConflictError, got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	users := newUserRepoMock()
	roles := newRoleRepoMock()
	seedDefaultRole(t, roles)

	svc := NewRegistrationService(users, roles, &hasherMock{}, &eventRecorderMock{}, nil)

	// Satisfies the complexity policy but is a trivially guessable phrase.
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "alice@example.com",
		Password:  "Password1!",
		FirstName: "Alice",
		LastName:  "Smith",
	})

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "password" {
		t.Errorf("expected password field, got %q", validationErr.Field)
	}
}

func TestRegisterMissingDefaultRole(t *testing.T) {
	svc := NewRegistrationService(newUserRepoMock(), newRoleRepoMock(), &hasherMock{}, &eventRecorderMock{}, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "alice@example.com",
		Password:  strongTestPassword,
		FirstName: "Alice",
		LastName:  "Smith",
	})

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for missing default role, got %v", err)
	}
	if notFound.Entity != "Role" {
		t.Errorf("expected Role entity, got %q", notFound.Entity)
	}
}

func TestRegisterPublishFailureDoesNotFailRequest(t *testing.T) {
	users := newUserRepoMock()
	roles := newRoleRepoMock()
	seedDefaultRole(t, roles)
	events := &eventRecorderMock{publishErr: errors.New("broker unavailable")}

	svc := NewRegistrationService(users, roles, &hasherMock{}, events, nil)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:     "alice@example.com",
		Password:  strongTestPassword,
		FirstName: "Alice",
		LastName:  "Smith",
	}); err != nil {
		t.Fatalf("expected registration to survive publish failure, got %v", err)
	}
}
