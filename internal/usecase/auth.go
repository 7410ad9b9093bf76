package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/infra/logger"
	"github.com/identra/identity-service/internal/repository"
)

// AuthService coordinates credential verification and token issuance.
type AuthService struct {
	users  port.UserRepository
	hasher port.PasswordHasher
	tokens port.TokenIssuer
	logger *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users port.UserRepository, hasher port.PasswordHasher, tokens port.TokenIssuer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: log}
}

// LoginInput carries raw credentials from the transport layer.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the successful authentication payload.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}

// Login verifies credentials and issues a bearer token. Unknown account,
// deactivated account, and wrong password all produce the same
// UnauthorizedError so the response cannot be used for account enumeration.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, domain.NewValidationError("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("login rejected", zap.String("email", logger.MaskEmail(email.String())), zap.String("cause", "unknown account"))
			return nil, domain.NewUnauthorizedError("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.CanAuthenticate() {
		s.logger.Info("login rejected", zap.String("user_id", user.ID().String()), zap.String("cause", "account inactive"))
		return nil, domain.NewUnauthorizedError("account inactive")
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash())
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Info("login rejected", zap.String("user_id", user.ID().String()), zap.String("cause", "password mismatch"))
		return nil, domain.NewUnauthorizedError("password mismatch")
	}

	token, err := s.tokens.Sign(user.ID().String())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        NewUserDTO(user),
	}, nil
}

// ParseAccessToken validates the bearer token and returns the user id it
// carries. Any parse or signature failure maps to UnauthorizedError.
func (s *AuthService) ParseAccessToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.NewUnauthorizedError("empty token")
	}

	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", domain.NewUnauthorizedError("token rejected")
	}

	return userID, nil
}
