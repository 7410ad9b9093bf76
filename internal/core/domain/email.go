package domain

import (
	"regexp"
	"strings"
)

const (
	maxEmailLength       = 255
	maxEmailLocalLength  = 64
	maxEmailDomainLength = 255
)

var emailFormat = regexp.MustCompile(`^[a-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)+$`)

// Email is a normalized, validated email address.
type Email struct {
	value string
}

// NewEmail trims, lowercases, and validates the supplied address.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, NewValidationError("email", "email is required")
	}
	if len(normalized) > maxEmailLength {
		return Email{}, NewValidationError("email", "email must not exceed 255 characters")
	}

	local, domainPart, found := strings.Cut(normalized, "@")
	if !found || local == "" || domainPart == "" {
		return Email{}, NewValidationError("email", "email format is invalid")
	}
	if len(local) > maxEmailLocalLength {
		return Email{}, NewValidationError("email", "email local part must not exceed 64 characters")
	}
	if len(domainPart) > maxEmailDomainLength {
		return Email{}, NewValidationError("email", "email domain must not exceed 255 characters")
	}
	if !emailFormat.MatchString(normalized) {
		return Email{}, NewValidationError("email", "email format is invalid")
	}

	return Email{value: normalized}, nil
}

// EmailFromStorage wraps a persisted address without validation.
func EmailFromStorage(raw string) Email {
	return Email{value: raw}
}

func (e Email) String() string { return e.value }

// Equals compares addresses by normalized value.
func (e Email) Equals(other Email) bool { return e.value == other.value }
