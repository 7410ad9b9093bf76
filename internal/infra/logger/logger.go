package logger

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is used to store a request identifier on the context.
type RequestIDKey struct{}

// New builds a zap logger for the given environment. Production gets JSON
// output; everything else gets a colored console encoder.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProductionConfig().Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

var emailMask = regexp.MustCompile(`^([^@]{1,3})[^@]*(@.+)$`)

// MaskEmail masks an address for log output, keeping at most the first three
// characters of the local part and the full domain.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	if m := emailMask.FindStringSubmatch(email); len(m) == 3 {
		return m[1] + "***" + m[2]
	}
	if _, domain, ok := strings.Cut(email, "@"); ok {
		return "***@" + domain
	}
	return "***"
}

// MaskIP performs partial IP masking: first two octets for IPv4, first four
// groups for IPv6.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if octets := strings.Split(ip, "."); len(octets) == 4 {
		return octets[0] + "." + octets[1] + ".*.*"
	}
	if groups := strings.Split(ip, ":"); len(groups) >= 4 {
		return strings.Join(groups[:4], ":") + ":*:*:*:*"
	}
	return "***"
}
