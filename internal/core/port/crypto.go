package port

// PasswordHasher hashes plaintext secrets and verifies them against stored
// encodings. Verify must compare in constant time.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}
