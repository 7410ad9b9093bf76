package usecase

import (
	"context"
	"strings"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/repository"
)

// Hand-rolled in-memory fakes shared by the service tests.

type userRepoMock struct {
	users     map[string]*domain.User
	createErr error
	updateErr error
	listErr   error

	listCalls  int
	countCalls int
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: make(map[string]*domain.User)}
}

func (m *userRepoMock) add(user *domain.User) {
	m.users[user.ID().String()] = user
}

func (m *userRepoMock) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Email().Equals(user.Email()) {
			return repository.ErrConflict
		}
	}
	m.users[user.ID().String()] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email().String() == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range m.users {
		if user.Email().String() == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *userRepoMock) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, user)
	}
	if offset >= len(result) {
		return []*domain.User{}, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *userRepoMock) Count(_ context.Context) (int, error) {
	m.countCalls++
	return len(m.users), nil
}

func (m *userRepoMock) Update(_ context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID().String()]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID().String()] = user
	return nil
}

func (m *userRepoMock) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

type roleRepoMock struct {
	roles     map[string]*domain.Role
	createErr error
	updateErr error
}

func newRoleRepoMock() *roleRepoMock {
	return &roleRepoMock{roles: make(map[string]*domain.Role)}
}

func (m *roleRepoMock) add(role *domain.Role) {
	m.roles[role.ID().String()] = role
}

func (m *roleRepoMock) Create(_ context.Context, role *domain.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.roles {
		if strings.EqualFold(existing.Name(), role.Name()) {
			return repository.ErrConflict
		}
	}
	m.roles[role.ID().String()] = role
	return nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := m.roles[id]; ok {
		return role, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) GetByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range m.roles {
		if strings.EqualFold(role.Name(), name) {
			return role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, role := range m.roles {
		if strings.EqualFold(role.Name(), name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *roleRepoMock) List(_ context.Context, limit, offset int) ([]*domain.Role, error) {
	result := make([]*domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		result = append(result, role)
	}
	if offset >= len(result) {
		return []*domain.Role{}, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *roleRepoMock) Count(_ context.Context) (int, error) {
	return len(m.roles), nil
}

func (m *roleRepoMock) Update(_ context.Context, role *domain.Role) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.roles[role.ID().String()]; !ok {
		return repository.ErrNotFound
	}
	m.roles[role.ID().String()] = role
	return nil
}

func (m *roleRepoMock) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.roles[id]; !ok {
		return false, nil
	}
	delete(m.roles, id)
	return true, nil
}

type permRepoMock struct {
	permissions map[string]*domain.Permission
	createErr   error
	updateErr   error
}

func newPermRepoMock() *permRepoMock {
	return &permRepoMock{permissions: make(map[string]*domain.Permission)}
}

func (m *permRepoMock) add(permission *domain.Permission) {
	m.permissions[permission.ID().String()] = permission
}

func (m *permRepoMock) Create(_ context.Context, permission *domain.Permission) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.permissions {
		if existing.Code() == permission.Code() {
			return repository.ErrConflict
		}
	}
	m.permissions[permission.ID().String()] = permission
	return nil
}

func (m *permRepoMock) GetByID(_ context.Context, id string) (*domain.Permission, error) {
	if permission, ok := m.permissions[id]; ok {
		return permission, nil
	}
	return nil, repository.ErrNotFound
}

func (m *permRepoMock) GetByIDs(_ context.Context, ids []string) ([]*domain.Permission, error) {
	result := make([]*domain.Permission, 0, len(ids))
	for _, id := range ids {
		if permission, ok := m.permissions[id]; ok {
			result = append(result, permission)
		}
	}
	return result, nil
}

func (m *permRepoMock) ExistsByResourceAction(_ context.Context, resource, action string) (bool, error) {
	for _, permission := range m.permissions {
		if permission.Resource() == resource && permission.Action() == action {
			return true, nil
		}
	}
	return false, nil
}

func (m *permRepoMock) List(_ context.Context, limit, offset int) ([]*domain.Permission, error) {
	result := make([]*domain.Permission, 0, len(m.permissions))
	for _, permission := range m.permissions {
		result = append(result, permission)
	}
	if offset >= len(result) {
		return []*domain.Permission{}, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *permRepoMock) Count(_ context.Context) (int, error) {
	return len(m.permissions), nil
}

func (m *permRepoMock) Update(_ context.Context, permission *domain.Permission) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.permissions[permission.ID().String()]; !ok {
		return repository.ErrNotFound
	}
	m.permissions[permission.ID().String()] = permission
	return nil
}

func (m *permRepoMock) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.permissions[id]; !ok {
		return false, nil
	}
	delete(m.permissions, id)
	return true, nil
}

type hasherMock struct {
	hashErr error
}

func (m *hasherMock) Hash(password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + password, nil
}

func (m *hasherMock) Verify(password, encoded string) (bool, error) {
	return encoded == "hashed:"+password, nil
}

type tokenIssuerMock struct {
	signErr error
}

func (m *tokenIssuerMock) Sign(userID string) (string, error) {
	if m.signErr != nil {
		return "", m.signErr
	}
	return "token-for-" + userID, nil
}

func (m *tokenIssuerMock) Parse(token string) (string, error) {
	userID := strings.TrimPrefix(token, "token-for-")
	if userID == token {
		return "", repository.ErrNotFound
	}
	return userID, nil
}

type eventRecorderMock struct {
	registered  []domain.UserRegisteredEvent
	deactivated []domain.UserDeactivatedEvent
	roleChanged []domain.RoleChangedEvent
	permDeleted []domain.PermissionDeletedEvent
	publishErr  error
}

func (m *eventRecorderMock) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.registered = append(m.registered, event)
	return nil
}

func (m *eventRecorderMock) PublishUserDeactivated(_ context.Context, event domain.UserDeactivatedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.deactivated = append(m.deactivated, event)
	return nil
}

func (m *eventRecorderMock) PublishRoleChanged(_ context.Context, event domain.RoleChangedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.roleChanged = append(m.roleChanged, event)
	return nil
}

func (m *eventRecorderMock) PublishPermissionDeleted(_ context.Context, event domain.PermissionDeletedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.permDeleted = append(m.permDeleted, event)
	return nil
}
