package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRateLimitRepo(t *testing.T) *RateLimitRepository {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRateLimitRepository(client, SlidingWindowConfig{
		KeyPrefix: "test:rate-limit",
		TTL:       2 * time.Minute,
	})
}

func TestRateLimitRecordAndCount(t *testing.T) {
	repo := newRateLimitRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := repo.RecordAttempt(ctx, "203.0.113.10", base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := repo.CountAttempts(ctx, "203.0.113.10", time.Minute, base.Add(3*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts, got %d", count)
	}

	// Attempts for one identifier must not bleed into another.
	count, err = repo.CountAttempts(ctx, "198.51.100.7", time.Minute, base.Add(3*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 attempts for other identifier, got %d", count)
	}
}

func TestRateLimitWindowExpiry(t *testing.T) {
	repo := newRateLimitRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.RecordAttempt(ctx, "ip", base); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "ip", base.Add(90*time.Second)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	// Only the second attempt falls inside a one-minute window.
	count, err := repo.CountAttempts(ctx, "ip", time.Minute, base.Add(100*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 attempt inside window, got %d", count)
	}
}

func TestRateLimitTrimWindow(t *testing.T) {
	repo := newRateLimitRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.RecordAttempt(ctx, "ip", base); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "ip", base.Add(2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := repo.TrimWindow(ctx, "ip", time.Minute, base.Add(3*time.Minute)); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "ip", time.Hour, base.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 attempt to survive trim, got %d", count)
	}
}

func TestRateLimitOldestAttempt(t *testing.T) {
	repo := newRateLimitRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	_, found, err := repo.OldestAttempt(ctx, "ip", time.Minute, base)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if found {
		t.Fatal("expected no attempts yet")
	}

	first := base.Add(5 * time.Second)
	if err := repo.RecordAttempt(ctx, "ip", first); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "ip", base.Add(20*time.Second)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	oldest, found, err := repo.OldestAttempt(ctx, "ip", time.Minute, base.Add(30*time.Second))
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !found {
		t.Fatal("expected an attempt inside the window")
	}
	if !oldest.Equal(first) {
		t.Fatalf("expected oldest %s, got %s", first, oldest)
	}
}

func TestRateLimitRejectsNonPositiveWindow(t *testing.T) {
	repo := newRateLimitRepo(t)
	ctx := context.Background()

	if _, err := repo.CountAttempts(ctx, "ip", 0, time.Now()); err == nil {
		t.Fatal("expected error for zero window")
	}
	if err := repo.TrimWindow(ctx, "ip", -time.Second, time.Now()); err == nil {
		t.Fatal("expected error for negative window")
	}
	if _, _, err := repo.OldestAttempt(ctx, "ip", 0, time.Now()); err == nil {
		t.Fatal("expected error for zero window")
	}
}
