package security

import (
	"strings"
	"testing"
)

// testArgon2Config keeps hashing cheap enough for the unit suite while staying
// above the validation floor.
func testArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2HashAndVerify(t *testing.T) {
	hasher, err := NewArgon2Hasher(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	encoded, err := hasher.Hash("CorrectSecret9!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if !strings.HasPrefix(encoded, "argon2id$v=19$") {
		t.Errorf("unexpected encoding prefix: %q", encoded)
	}

	ok, err := hasher.Verify("CorrectSecret9!", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("expected the original password to verify")
	}

	ok, err = hasher.Verify("WrongSecret9!", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Error("expected a wrong password to fail verification")
	}
}

func TestArgon2HashesAreSalted(t *testing.T) {
	hasher, err := NewArgon2Hasher(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	first, err := hasher.Hash("CorrectSecret9!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := hasher.Hash("CorrectSecret9!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if first == second {
		t.Error("expected distinct salts to produce distinct encodings")
	}
}

func TestArgon2VerifyUsesEmbeddedParameters(t *testing.T) {
	origin, err := NewArgon2Hasher(Argon2Config{
		Memory:      16 * 1024,
		Iterations:  2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	encoded, err := origin.Hash("CorrectSecret9!")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	// A hasher running different current parameters must still verify old
	// hashes through the parameters embedded in the encoding.
	current, err := NewArgon2Hasher(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	ok, err := current.Verify("CorrectSecret9!", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("expected hash with foreign parameters to verify")
	}
}

func TestArgon2VerifyRejectsMalformedEncodings(t *testing.T) {
	hasher, err := NewArgon2Hasher(testArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2Hasher returned error: %v", err)
	}

	cases := []struct {
		name    string
		encoded string
	}{
		{"wrong segment count", "argon2id$v=19$m=8192,t=1,p=1$c2FsdA"},
		{"wrong variant", "bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "argon2id$v=18$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad params", "argon2id$v=19$m=8192,t=one,p=1$c2FsdA$aGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := hasher.Verify("anything", tc.encoded); err == nil {
				t.Error("expected malformed encoding to error")
			}
		})
	}

	ok, err := hasher.Verify("", "whatever")
	if err != nil || ok {
		t.Error("expected empty password to fail fast without error")
	}
}

func TestNewArgon2HasherValidatesConfig(t *testing.T) {
	invalid := []Argon2Config{
		{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Memory: 8192, Iterations: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Memory: 8192, Iterations: 1, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 4, KeyLength: 32},
		{Memory: 8192, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8},
	}

	for _, cfg := range invalid {
		if _, err := NewArgon2Hasher(cfg); err == nil {
			t.Errorf("expected config %+v to be rejected", cfg)
		}
	}
}
