package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRepository(t *testing.T) *RateLimitRepository {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRateLimitRepository(client, SlidingWindowConfig{
		KeyPrefix: "ratelimit",
		TTL:       time.Minute,
	})
}

func TestRateLimitCountWithinWindow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		at := now.Add(-time.Duration(i) * 10 * time.Second)
		if err := repo.RecordAttempt(ctx, "203.0.113.7", at); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := repo.CountAttempts(ctx, "203.0.113.7", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 attempts in window, got %d", count)
	}
}

func TestRateLimitExcludesExpiredAttempts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.RecordAttempt(ctx, "203.0.113.7", now.Add(-2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "203.0.113.7", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "203.0.113.7", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected only the recent attempt to count, got %d", count)
	}
}

func TestRateLimitIdentifiersAreIsolated(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.RecordAttempt(ctx, "203.0.113.7", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "198.51.100.4", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no attempts for the other identifier, got %d", count)
	}
}

func TestRateLimitTrimWindow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.RecordAttempt(ctx, "203.0.113.7", now.Add(-2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "203.0.113.7", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := repo.TrimWindow(ctx, "203.0.113.7", time.Minute, now); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "203.0.113.7", 10*time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the stale attempt to be trimmed, got %d remaining", count)
	}
}

func TestRateLimitTrimKeepsBoundaryAttempt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	// Exactly window-old: still inside the counted range, so trimming must
	// not remove it.
	boundary := now.Add(-time.Minute)
	if err := repo.RecordAttempt(ctx, "203.0.113.7", boundary); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := repo.TrimWindow(ctx, "203.0.113.7", time.Minute, now); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "203.0.113.7", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected boundary attempt to survive the trim, got %d", count)
	}
}

func TestRateLimitOldestAttempt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	oldest := now.Add(-30 * time.Second)
	if err := repo.RecordAttempt(ctx, "203.0.113.7", oldest); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "203.0.113.7", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	got, found, err := repo.OldestAttempt(ctx, "203.0.113.7", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !found {
		t.Fatal("expected an attempt inside the window")
	}
	if got.UnixNano() != oldest.UnixNano() {
		t.Errorf("expected oldest attempt %v, got %v", oldest, got)
	}

	_, found, err = repo.OldestAttempt(ctx, "198.51.100.4", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if found {
		t.Error("expected no attempt for an untouched identifier")
	}
}

func TestRateLimitRejectsNonPositiveWindow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CountAttempts(ctx, "203.0.113.7", 0, time.Now()); err == nil {
		t.Error("expected zero window to be rejected")
	}
	if err := repo.TrimWindow(ctx, "203.0.113.7", -time.Second, time.Now()); err == nil {
		t.Error("expected negative window to be rejected")
	}
}
