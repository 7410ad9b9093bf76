package security

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"

	"github.com/identra/identity-service/internal/core/domain"
)

// minPasswordScore is the minimum zxcvbn score (0-4) a password must reach
// on top of the character-class policy enforced by the domain.
const minPasswordScore = 2

// CheckPasswordStrength rejects passwords that zxcvbn scores below the
// minimum. Known user inputs (email, names) are penalized so a password
// built from the user's own identity does not pass.
func CheckPasswordStrength(password string, userInputs ...string) error {
	inputs := make([]string, 0, len(userInputs))
	for _, input := range userInputs {
		if input != "" {
			inputs = append(inputs, input)
		}
	}

	result := zxcvbn.PasswordStrength(password, inputs)
	if result.Score < minPasswordScore {
		return domain.NewValidationError("password", "password is too weak; choose a more complex value")
	}

	return nil
}
