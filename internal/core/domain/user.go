package domain

import (
	"regexp"
	"strings"
	"time"
)

const maxNameLength = 100

var personNameFormat = regexp.MustCompile(`^[\p{L}][\p{L} '-]*$`)

// User is the authenticatable aggregate root. The password field only ever
// holds an opaque hash; plaintext never enters the entity.
type User struct {
	id           UserID
	email        Email
	passwordHash string
	firstName    string
	lastName     string
	isActive     bool
	roleID       RoleID
	createdAt    time.Time
	updatedAt    time.Time
}

// UserProps carries trusted state for hydrating a user from storage.
type UserProps struct {
	ID           UserID
	Email        Email
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	RoleID       RoleID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates and creates an active user holding exactly one role.
func NewUser(email Email, passwordHash, firstName, lastName string, roleID RoleID) (*User, error) {
	if passwordHash == "" {
		return nil, NewValidationError("password", "password hash is required")
	}
	if roleID.String() == "" {
		return nil, NewValidationError("roleId", "role is required")
	}

	first, err := normalizePersonName("firstName", firstName)
	if err != nil {
		return nil, err
	}
	last, err := normalizePersonName("lastName", lastName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:           NewUserID(),
		email:        email,
		passwordHash: passwordHash,
		firstName:    first,
		lastName:     last,
		isActive:     true,
		roleID:       roleID,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstituteUser hydrates a user from trusted storage state.
func ReconstituteUser(props UserProps) *User {
	return &User{
		id:           props.ID,
		email:        props.Email,
		passwordHash: props.PasswordHash,
		firstName:    props.FirstName,
		lastName:     props.LastName,
		isActive:     props.IsActive,
		roleID:       props.RoleID,
		createdAt:    props.CreatedAt,
		updatedAt:    props.UpdatedAt,
	}
}

func (u *User) ID() UserID           { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) RoleID() RoleID       { return u.roleID }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// FullName joins first and last name for display purposes.
func (u *User) FullName() string {
	return u.firstName + " " + u.lastName
}

// CanAuthenticate reports whether the account may log in.
func (u *User) CanAuthenticate() bool {
	return u.isActive
}

// ChangeEmail replaces the email address. Re-assigning the current address is
// rejected as a no-op mutation.
func (u *User) ChangeEmail(email Email) error {
	if u.email.Equals(email) {
		return NewValidationError("email", "new email is the same as the current email")
	}
	u.email = email
	u.touch()
	return nil
}

// ChangePassword replaces the stored hash; re-applying the current hash is rejected.
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return NewValidationError("password", "password hash is required")
	}
	if u.passwordHash == passwordHash {
		return NewValidationError("password", "new password is the same as the current password")
	}
	u.passwordHash = passwordHash
	u.touch()
	return nil
}

// ChangeRole moves the user to another role; re-assigning the current role is rejected.
func (u *User) ChangeRole(roleID RoleID) error {
	if roleID.String() == "" {
		return NewValidationError("roleId", "role is required")
	}
	if u.roleID.Equals(roleID) {
		return NewValidationError("roleId", "user already holds this role")
	}
	u.roleID = roleID
	u.touch()
	return nil
}

// ChangeFirstName replaces the first name.
func (u *User) ChangeFirstName(firstName string) error {
	normalized, err := normalizePersonName("firstName", firstName)
	if err != nil {
		return err
	}
	u.firstName = normalized
	u.touch()
	return nil
}

// ChangeLastName replaces the last name.
func (u *User) ChangeLastName(lastName string) error {
	normalized, err := normalizePersonName("lastName", lastName)
	if err != nil {
		return err
	}
	u.lastName = normalized
	u.touch()
	return nil
}

// Activate re-enables the account; activating an active account is rejected.
func (u *User) Activate() error {
	if u.isActive {
		return NewValidationError("isActive", "user is already active")
	}
	u.isActive = true
	u.touch()
	return nil
}

// Deactivate disables the account; deactivating an inactive account is rejected.
func (u *User) Deactivate() error {
	if !u.isActive {
		return NewValidationError("isActive", "user is already inactive")
	}
	u.isActive = false
	u.touch()
	return nil
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
}

func normalizePersonName(field, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewValidationError(field, field+" is required")
	}
	if len([]rune(trimmed)) > maxNameLength {
		return "", NewValidationError(field, field+" must not exceed 100 characters")
	}
	if !personNameFormat.MatchString(trimmed) {
		return "", NewValidationError(field, field+" may only contain letters, spaces, hyphens, and apostrophes")
	}
	return trimmed, nil
}
