package usecase

import (
	"time"

	"github.com/identra/identity-service/internal/core/domain"
)

// UserDTO is the client-safe projection of a user. Password material is
// excluded by construction, not by serialization flags.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserDTO maps a user entity to its public shape.
func NewUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:        user.ID().String(),
		Email:     user.Email().String(),
		FirstName: user.FirstName(),
		LastName:  user.LastName(),
		IsActive:  user.IsActive(),
		RoleID:    user.RoleID().String(),
		CreatedAt: user.CreatedAt(),
		UpdatedAt: user.UpdatedAt(),
	}
}

// NewUserDTOs maps a slice of user entities.
func NewUserDTOs(users []*domain.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, NewUserDTO(user))
	}
	return dtos
}

// RoleDTO is the client-safe projection of a role.
type RoleDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	IsSystem      bool      `json:"is_system"`
	PermissionIDs []string  `json:"permission_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewRoleDTO maps a role entity to its public shape.
func NewRoleDTO(role *domain.Role) RoleDTO {
	ids := role.PermissionIDs()
	rawIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		rawIDs = append(rawIDs, id.String())
	}

	return RoleDTO{
		ID:            role.ID().String(),
		Name:          role.Name(),
		Description:   role.Description(),
		IsSystem:      role.IsSystem(),
		PermissionIDs: rawIDs,
		CreatedAt:     role.CreatedAt(),
		UpdatedAt:     role.UpdatedAt(),
	}
}

// NewRoleDTOs maps a slice of role entities.
func NewRoleDTOs(roles []*domain.Role) []RoleDTO {
	dtos := make([]RoleDTO, 0, len(roles))
	for _, role := range roles {
		dtos = append(dtos, NewRoleDTO(role))
	}
	return dtos
}

// PermissionDTO is the client-safe projection of a permission.
type PermissionDTO struct {
	ID          string    `json:"id"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPermissionDTO maps a permission entity to its public shape.
func NewPermissionDTO(permission *domain.Permission) PermissionDTO {
	return PermissionDTO{
		ID:          permission.ID().String(),
		Resource:    permission.Resource(),
		Action:      permission.Action(),
		Description: permission.Description(),
		CreatedAt:   permission.CreatedAt(),
	}
}

// NewPermissionDTOs maps a slice of permission entities.
func NewPermissionDTOs(permissions []*domain.Permission) []PermissionDTO {
	dtos := make([]PermissionDTO, 0, len(permissions))
	for _, permission := range permissions {
		dtos = append(dtos, NewPermissionDTO(permission))
	}
	return dtos
}
