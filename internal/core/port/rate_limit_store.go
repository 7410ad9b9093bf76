package port

import (
	"context"
	"time"
)

// RateLimitStore persists sliding-window attempt counters. Windows are always
// evaluated relative to a caller-supplied reference time so the store itself
// stays clock-free.
type RateLimitStore interface {
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}
