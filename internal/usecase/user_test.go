package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/identra/identity-service/internal/core/domain"
)

type userSvcFixture struct {
	users  *userRepoMock
	roles  *roleRepoMock
	events *eventRecorderMock
	svc    *UserService
	role   *domain.Role
}

func newUserSvcFixture(t *testing.T) *userSvcFixture {
	t.Helper()

	users := newUserRepoMock()
	roles := newRoleRepoMock()
	events := &eventRecorderMock{}

	role, err := domain.NewRole("EDITOR", "", nil)
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}
	roles.add(role)

	return &userSvcFixture{
		users:  users,
		roles:  roles,
		events: events,
		svc:    NewUserService(users, roles, &hasherMock{}, events, nil),
		role:   role,
	}
}

func (fx *userSvcFixture) seedUser(t *testing.T, address string) *domain.User {
	t.Helper()

	email, err := domain.NewEmail(address)
	if err != nil {
		t.Fatalf("NewEmail returned error: %v", err)
	}
	user, err := domain.NewUser(email, "hashed:Existing9!", "Alice", "Smith", fx.role.ID())
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}
	fx.users.add(user)
	return user
}

func TestCreateUserSuccess(t *testing.T) {
	fx := newUserSvcFixture(t)

	dto, err := fx.svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "bob@example.com",
		Password:  strongTestPassword,
		FirstName: "Bob",
		LastName:  "Jones",
		RoleID:    fx.role.ID().String(),
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	if dto.RoleID != fx.role.ID().String() {
		t.Error("expected the named role to be attached")
	}
	if _, err := fx.users.GetByID(context.Background(), dto.ID); err != nil {
		t.Errorf("expected user to be persisted: %v", err)
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	fx := newUserSvcFixture(t)

	_, err := fx.svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "bob@example.com",
		Password:  strongTestPassword,
		FirstName: "Bob",
		LastName:  "Jones",
		RoleID:    domain.NewRoleID().String(),
	})

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Entity != "Role" {
		t.Errorf("expected Role entity, got %q", notFound.Entity)
	}
}

func TestGetUserRejectsMalformedID(t *testing.T) {
	fx := newUserSvcFixture(t)

	_, err := fx.svc.GetUser(context.Background(), "not-a-uuid")

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	fx := newUserSvcFixture(t)
	user := fx.seedUser(t, "alice@example.com")

	newFirst := "Alicia"
	dto, err := fx.svc.UpdateUser(context.Background(), UpdateUserInput{
		ID:        user.ID().String(),
		FirstName: &newFirst,
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	if dto.FirstName != "Alicia" {
		t.Errorf("expected first name update, got %q", dto.FirstName)
	}
	if dto.LastName != "Smith" {
		t.Errorf("expected untouched last name, got %q", dto.LastName)
	}
	if dto.Email != "alice@example.com" {
		t.Errorf("expected untouched email, got %q", dto.Email)
	}
}

func TestUpdateUserEmailConflict(t *testing.T) {
	fx := newUserSvcFixture(t)
	user := fx.seedUser(t, "alice@example.com")
	fx.seedUser(t, "taken@example.com")

	taken := "taken@example.com"
	_, err := fx.svc.UpdateUser(context.Background(), UpdateUserInput{
		ID:    user.ID().String(),
		Email: &taken,
	})

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestUpdateUserRejectsSameEmail(t *testing.T) {
	fx := newUserSvcFixture(t)
	user := fx.seedUser(t, "alice@example.com")

	same := "ALICE@example.com"
	_, err := fx.svc.UpdateUser(context.Background(), UpdateUserInput{
		ID:    user.ID().String(),
		Email: &same,
	})

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected no-op email update to be rejected, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	fx := newUserSvcFixture(t)
	user := fx.seedUser(t, "alice@example.com")

	if err := fx.svc.DeleteUser(context.Background(), user.ID().String()); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}

	err := fx.svc.DeleteUser(context.Background(), user.ID().String())

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestDeactivateUserPublishesEvent(t *testing.T) {
	fx := newUserSvcFixture(t)
	user := fx.seedUser(t, "alice@example.com")

	dto, err := fx.svc.DeactivateUser(context.Background(), user.ID().String())
	if err != nil {
		t.Fatalf("DeactivateUser returned error: %v", err)
	}
	if dto.IsActive {
		t.Error("expected deactivated projection")
	}

	if len(fx.events.deactivated) != 1 {
		t.Fatalf("expected 1 deactivation event, got %d", len(fx.events.deactivated))
	}
	if fx.events.deactivated[0].UserID != user.ID().String() {
		t.Error("expected event to reference the deactivated user")
	}

	// Activation emits no event.
	if _, err := fx.svc.ActivateUser(context.Background(), user.ID().String()); err != nil {
		t.Fatalf("ActivateUser returned error: %v", err)
	}
	if len(fx.events.deactivated) != 1 {
		t.Error("expected no additional events on activation")
	}
}

func TestDeactivateTwiceRejected(t *testing.T) {
	fx := newUserSvcFixture(t)
	user := fx.seedUser(t, "alice@example.com")

	if _, err := fx.svc.DeactivateUser(context.Background(), user.ID().String()); err != nil {
		t.Fatalf("DeactivateUser returned error: %v", err)
	}

	_, err := fx.svc.DeactivateUser(context.Background(), user.ID().String())

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected second deactivation to be rejected, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	fx := newUserSvcFixture(t)
	fx.seedUser(t, "a@example.com")
	fx.seedUser(t, "b@example.com")
	fx.seedUser(t, "c@example.com")

	page, err := fx.svc.ListUsers(context.Background(), intPtr(2), intPtr(0))
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}

	if len(page.Data) != 2 {
		t.Errorf("expected 2 rows, got %d", len(page.Data))
	}
	if page.Pagination.Total != 3 {
		t.Errorf("expected total 3, got %d", page.Pagination.Total)
	}
	if !page.Pagination.HasMore {
		t.Error("expected more rows to remain")
	}
}

func TestListUsersInvalidPaginationSkipsRepository(t *testing.T) {
	fx := newUserSvcFixture(t)

	_, err := fx.svc.ListUsers(context.Background(), intPtr(0), nil)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if fx.users.listCalls != 0 || fx.users.countCalls != 0 {
		t.Error("expected no repository calls for invalid pagination")
	}
}
