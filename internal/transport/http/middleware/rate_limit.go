package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	rateLimitProblemType  = "https://identity.identra.example.com/errors/rate-limit-exceeded"
	rateLimitProblemTitle = "Rate Limit Exceeded"
)

// RateLimitStore defines the persistence operations required by the middleware.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// IdentifierFunc extracts the identifier used to scope rate limits (e.g., client IP).
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitRule configures a sliding-window limit for a particular identifier.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// ProblemDetails represents an RFC 9457 compatible error payload for rate limits.
type ProblemDetails struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Instance   string         `json:"instance"`
	RetryAfter int            `json:"retry_after"`
	TraceID    string         `json:"trace_id,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// RateLimiter evaluates sliding-window rules against a shared attempt store.
type RateLimiter struct {
	store  RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter builds a reusable rate limiter middleware helper.
func NewRateLimiter(store RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: logger, now: time.Now}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPIdentifier builds an IdentifierFunc using the request's client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

// verdict captures the outcome of evaluating one rule for one request.
type verdict struct {
	allowed    bool
	limit      int
	remaining  int
	reset      time.Time
	retryAfter time.Duration
}

// RateLimit returns a Gin middleware enforcing the provided rules. Rules with
// missing identifiers, zero limits, or zero windows are ignored.
func (rl *RateLimiter) RateLimit(rules ...RateLimitRule) gin.HandlerFunc {
	active := make([]RateLimitRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0 {
			continue
		}
		if rule.Name == "" {
			rule.Name = "default"
		}
		active = append(active, rule)
	}

	return func(c *gin.Context) {
		if len(active) == 0 || rl.store == nil {
			c.Next()
			return
		}

		now := rl.now()
		var strictest *verdict

		for _, rule := range active {
			identifier, ok := rule.Identifier(c)
			if !ok || identifier == "" {
				continue
			}

			v, err := rl.evaluate(c.Request.Context(), rule, identifier, now)
			if err != nil {
				// A store outage must not lock users out.
				rl.logger.Warn("rate limit check failed",
					zap.String("rule", rule.Name),
					zap.String("identifier", identifier),
					zap.Error(err),
				)
				continue
			}

			if strictest == nil || stricter(*strictest, v) {
				copied := v
				strictest = &copied
			}

			if !v.allowed {
				writeRateLimitHeaders(c, v)
				rl.reject(c, v)
				return
			}
		}

		if strictest != nil {
			writeRateLimitHeaders(c, *strictest)
		}
		c.Next()
	}
}

func (rl *RateLimiter) evaluate(ctx context.Context, rule RateLimitRule, identifier string, now time.Time) (verdict, error) {
	key := fmt.Sprintf("%s:%s", rule.Name, identifier)

	if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
		return verdict{}, err
	}

	count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
	if err != nil {
		return verdict{}, err
	}

	oldest, hasAttempts, err := rl.store.OldestAttempt(ctx, key, rule.Window, now)
	if err != nil {
		return verdict{}, err
	}

	reset := now.Add(rule.Window)
	if hasAttempts {
		reset = oldest.Add(rule.Window)
	}

	retryAfter := reset.Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}

	if count >= rule.Limit {
		return verdict{
			allowed:    false,
			limit:      rule.Limit,
			remaining:  0,
			reset:      reset,
			retryAfter: retryAfter,
		}, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return verdict{}, err
	}

	remaining := rule.Limit - count - 1
	if remaining < 0 {
		remaining = 0
	}
	if !hasAttempts {
		reset = now.Add(rule.Window)
	}

	return verdict{
		allowed:    true,
		limit:      rule.Limit,
		remaining:  remaining,
		reset:      reset,
		retryAfter: retryAfter,
	}, nil
}

// stricter reports whether candidate should replace current when picking the
// verdict whose headers get exposed to the client.
func stricter(current, candidate verdict) bool {
	if !candidate.allowed && current.allowed {
		return true
	}
	if candidate.allowed != current.allowed {
		return false
	}
	if candidate.remaining != current.remaining {
		return candidate.remaining < current.remaining
	}
	return candidate.reset.Before(current.reset)
}

func writeRateLimitHeaders(c *gin.Context, v verdict) {
	h := c.Writer.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(v.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(v.reset.Unix(), 10))

	if !v.allowed {
		h.Set("Retry-After", strconv.Itoa(retrySeconds(v)))
	}
}

func retrySeconds(v verdict) int {
	seconds := int(math.Ceil(v.retryAfter.Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}

func (rl *RateLimiter) reject(c *gin.Context, v verdict) {
	seconds := retrySeconds(v)

	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ProblemDetails{
		Type:       rateLimitProblemType,
		Title:      rateLimitProblemTitle,
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Too many requests. Try again in %d seconds.", seconds),
		Instance:   instance,
		RetryAfter: seconds,
		TraceID:    GetTraceID(c),
	})
}
