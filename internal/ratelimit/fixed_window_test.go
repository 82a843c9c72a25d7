package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiter(t *testing.T, server *miniredis.Miniredis, limit int) *FixedWindowLimiter {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := NewFixedWindowLimiter(client, "test:ratelimit", limit, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	limiter.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return limiter
}

func TestFixedWindowLimiter(t *testing.T) {
	server := miniredis.RunT(t)
	limiter := newLimiter(t, server, 2)
	ctx := context.Background()

	if !limiter.Allow(ctx, "ip-1") {
		t.Fatalf("first request should pass")
	}
	if !limiter.Allow(ctx, "ip-1") {
		t.Fatalf("second request should pass")
	}
	if limiter.Allow(ctx, "ip-1") {
		t.Fatalf("third request should be blocked")
	}
	if !limiter.Allow(ctx, "ip-2") {
		t.Fatalf("other keys have their own quota")
	}
}

func TestFixedWindowLimiterNextWindow(t *testing.T) {
	server := miniredis.RunT(t)
	limiter := newLimiter(t, server, 1)
	ctx := context.Background()

	if !limiter.Allow(ctx, "ip-1") {
		t.Fatalf("first request should pass")
	}
	if limiter.Allow(ctx, "ip-1") {
		t.Fatalf("second request should be blocked")
	}

	next := time.Date(2025, 1, 1, 12, 1, 0, 0, time.UTC)
	limiter.now = func() time.Time { return next }
	if !limiter.Allow(ctx, "ip-1") {
		t.Fatalf("request in the next window should pass")
	}
}

func TestFixedWindowLimiterFailsClosed(t *testing.T) {
	server := miniredis.RunT(t)
	limiter := newLimiter(t, server, 1)
	server.Close()

	if limiter.Allow(context.Background(), "ip-1") {
		t.Fatalf("limiter should fail closed on redis errors")
	}
}

func TestFixedWindowLimiterValidation(t *testing.T) {
	if _, err := NewFixedWindowLimiter(nil, "", 1, time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	if _, err := NewFixedWindowLimiter(client, "", 0, time.Second); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}

func TestNilLimiterAllows(t *testing.T) {
	var limiter *FixedWindowLimiter
	if !limiter.Allow(context.Background(), "ip-1") {
		t.Fatalf("nil limiter should allow")
	}
}
