package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Variant = "argon2id"

var (
	errInvalidHashFormat = errors.New("argon2: invalid encoded hash format")
	errInvalidConfig     = errors.New("argon2: invalid configuration")
)

// Argon2Config defines tunable parameters for Argon2id password hashing.
type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Config returns the baseline Argon2id configuration.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (cfg Argon2Config) validate() error {
	switch {
	case cfg.Memory < 8*1024:
		return fmt.Errorf("%w: memory must be at least 8192", errInvalidConfig)
	case cfg.Iterations == 0:
		return fmt.Errorf("%w: iterations must be greater than zero", errInvalidConfig)
	case cfg.Parallelism == 0:
		return fmt.Errorf("%w: parallelism must be greater than zero", errInvalidConfig)
	case cfg.SaltLength < 8:
		return fmt.Errorf("%w: salt length must be at least 8 bytes", errInvalidConfig)
	case cfg.KeyLength < 16:
		return fmt.Errorf("%w: key length must be at least 16 bytes", errInvalidConfig)
	}
	return nil
}

// Argon2Hasher hashes passwords with Argon2id. The encoded value embeds the
// parameters, salt, and hash so parameter upgrades only affect new hashes.
type Argon2Hasher struct {
	cfg Argon2Config
}

// NewArgon2Hasher constructs a hasher after validating the configuration.
func NewArgon2Hasher(cfg Argon2Config) (*Argon2Hasher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Argon2Hasher{cfg: cfg}, nil
}

// Hash generates an Argon2id hash for the provided password, encoded as
// argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<hash>.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2: generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(password), salt, h.cfg.Iterations, h.cfg.Memory, h.cfg.Parallelism, h.cfg.KeyLength)

	encoded := fmt.Sprintf("%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Variant,
		argon2.Version,
		h.cfg.Memory,
		h.cfg.Iterations,
		h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	)
	return encoded, nil
}

// Verify compares the password against the stored hash using the parameters
// embedded in the encoding. Comparison is constant time.
func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}

	cfg, salt, expected, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func decodeArgon2Hash(encoded string) (Argon2Config, []byte, []byte, error) {
	var none Argon2Config

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		return none, nil, nil, errInvalidHashFormat
	}
	if parts[0] != argon2Variant {
		return none, nil, nil, fmt.Errorf("argon2: unexpected variant %q", parts[0])
	}

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return none, nil, nil, fmt.Errorf("argon2: unsupported version %q", parts[1])
	}

	var cfg Argon2Config
	n, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &cfg.Memory, &cfg.Iterations, &cfg.Parallelism)
	if err != nil || n != 3 {
		return none, nil, nil, errInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return none, nil, nil, fmt.Errorf("argon2: decode salt: %w", err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return none, nil, nil, fmt.Errorf("argon2: decode hash: %w", err)
	}

	cfg.SaltLength = uint32(len(salt))
	cfg.KeyLength = uint32(len(hash))
	if err := cfg.validate(); err != nil {
		return none, nil, nil, err
	}

	return cfg, salt, hash, nil
}
