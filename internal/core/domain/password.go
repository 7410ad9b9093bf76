package domain

import "unicode"

const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

// Password wraps either a policy-validated plaintext (NewPassword) or an
// opaque stored hash (PasswordFromHash). Hashing itself is the password
// hasher port's concern; this type never derives hashes.
type Password struct {
	value string
}

// NewPassword validates the plaintext against the complexity policy:
// 8-72 characters with at least one uppercase letter, one lowercase letter,
// one digit, and one symbol.
func NewPassword(plaintext string) (Password, error) {
	if plaintext == "" {
		return Password{}, NewValidationError("password", "password is required")
	}

	length := len([]rune(plaintext))
	if length < minPasswordLength {
		return Password{}, NewValidationError("password", "password must be at least 8 characters long")
	}
	if length > maxPasswordLength {
		return Password{}, NewValidationError("password", "password must not exceed 72 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsSymbol(r) || unicode.IsPunct(r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return Password{}, NewValidationError("password", "password must include at least one uppercase letter")
	case !hasLower:
		return Password{}, NewValidationError("password", "password must include at least one lowercase letter")
	case !hasDigit:
		return Password{}, NewValidationError("password", "password must include at least one digit")
	case !hasSymbol:
		return Password{}, NewValidationError("password", "password must include at least one symbol")
	}

	return Password{value: plaintext}, nil
}

// PasswordFromHash wraps a stored hash with no validation, for hydration only.
func PasswordFromHash(hash string) Password {
	return Password{value: hash}
}

func (p Password) String() string { return p.value }
