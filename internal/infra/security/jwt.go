package security

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	errEmptySecret  = errors.New("jwt: signing secret is required")
	errEmptySubject = errors.New("jwt: subject is required")
)

// JWTConfig holds the signing material and claim defaults for access tokens.
type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// JWTIssuer signs and parses HS256 access tokens whose subject is the user id.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTIssuer constructs an issuer from the configuration.
func NewJWTIssuer(cfg JWTConfig) (*JWTIssuer, error) {
	if cfg.Secret == "" {
		return nil, errEmptySecret
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &JWTIssuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

// Sign produces a signed access token for the given user id.
func (i *JWTIssuer) Sign(userID string) (string, error) {
	if userID == "" {
		return "", errEmptySubject
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// Parse validates the token signature and standard claims and returns the
// subject. Expired, malformed, or foreign tokens all fail here.
func (i *JWTIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("jwt: unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(i.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("jwt: parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("jwt: token has no subject")
	}

	return claims.Subject, nil
}
