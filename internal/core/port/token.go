package port

// TokenIssuer signs and parses stateless bearer tokens. The payload carries
// only the user id; expiry and signing material are the implementation's
// configuration.
type TokenIssuer interface {
	Sign(userID string) (string, error)
	Parse(token string) (string, error)
}
