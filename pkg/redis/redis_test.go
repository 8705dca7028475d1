package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/config"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

// ── Lock ──

func TestLock_SecondHolderTimesOut(t *testing.T) {
	c, mr := setupTestClient(t)
	ctx := context.Background()

	release, err := c.Lock(ctx, "section:10:Fall:2025", time.Minute, 0)
	if err != nil {
		t.Fatalf("first Lock should succeed: %v", err)
	}
	if !mr.Exists("sched:lock:section:10:Fall:2025") {
		t.Fatal("expected the prefixed lock key")
	}

	start := time.Now()
	if _, err := c.Lock(ctx, "section:10:Fall:2025", time.Minute, 50*time.Millisecond); !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	if waited := time.Since(start); waited < 50*time.Millisecond {
		t.Errorf("gave up after %v, before the wait elapsed", waited)
	}

	release()
	if mr.Exists("sched:lock:section:10:Fall:2025") {
		t.Error("release should delete the key")
	}
	again, err := c.Lock(ctx, "section:10:Fall:2025", time.Minute, 0)
	if err != nil {
		t.Fatalf("Lock after release should succeed: %v", err)
	}
	again()
}

func TestLock_WaitsForRelease(t *testing.T) {
	c, _ := setupTestClient(t)
	ctx := context.Background()

	release, err := c.Lock(ctx, "requisite:1:2", time.Minute, 0)
	if err != nil {
		t.Fatalf("first Lock should succeed: %v", err)
	}
	time.AfterFunc(30*time.Millisecond, release)

	second, err := c.Lock(ctx, "requisite:1:2", time.Minute, 2*time.Second)
	if err != nil {
		t.Fatalf("second Lock should get the key once it is released: %v", err)
	}
	second()
}

func TestLock_ExpiredReleaseKeepsNewHolder(t *testing.T) {
	c, mr := setupTestClient(t)
	ctx := context.Background()

	stale, err := c.Lock(ctx, "room:10", time.Second, 0)
	if err != nil {
		t.Fatalf("first Lock should succeed: %v", err)
	}
	mr.FastForward(2 * time.Second)

	current, err := c.Lock(ctx, "room:10", time.Second, 0)
	if err != nil {
		t.Fatalf("Lock after expiry should succeed: %v", err)
	}
	token, err := mr.Get("sched:lock:room:10")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	stale()
	got, err := mr.Get("sched:lock:room:10")
	if err != nil || got != token {
		t.Fatalf("an expired holder must not delete the new holder's key, got %q, %v", got, err)
	}

	current()
	if mr.Exists("sched:lock:room:10") {
		t.Error("the current holder's release should delete the key")
	}
}

func TestLock_CancelledContext(t *testing.T) {
	c, _ := setupTestClient(t)

	release, err := c.Lock(context.Background(), "meeting:21", time.Minute, 0)
	if err != nil {
		t.Fatalf("first Lock should succeed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Lock(ctx, "meeting:21", time.Minute, time.Minute); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

// ── Rate limit ──

func TestCheckRateLimit_RejectsOverLimit(t *testing.T) {
	c, mr := setupTestClient(t)
	ctx := context.Background()
	const limit = 3

	for i := 1; i <= limit; i++ {
		ok, err := c.CheckRateLimit(ctx, "10.0.0.1", limit, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit: %v", err)
		}
		if !ok {
			t.Fatalf("hit %d should be allowed", i)
		}
	}

	ok, err := c.CheckRateLimit(ctx, "10.0.0.1", limit, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit: %v", err)
	}
	if ok {
		t.Errorf("hit %d should be rejected", limit+1)
	}

	ok, err = c.CheckRateLimit(ctx, "10.0.0.2", limit, time.Minute)
	if err != nil || !ok {
		t.Errorf("another key keeps its own window, got %v, %v", ok, err)
	}

	if ttl := mr.TTL("sched:rate_limit:10.0.0.1"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected the window as TTL, got %v", ttl)
	}
}

func TestCheckRateLimit_WindowExpiry(t *testing.T) {
	c, mr := setupTestClient(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.CheckRateLimit(ctx, "10.0.0.3", 1, time.Minute); err != nil {
			t.Fatalf("CheckRateLimit: %v", err)
		}
	}
	mr.FastForward(2 * time.Minute)

	ok, err := c.CheckRateLimit(ctx, "10.0.0.3", 1, time.Minute)
	if err != nil || !ok {
		t.Errorf("a new window should allow the hit, got %v, %v", ok, err)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := NewClient(&config.RedisConfig{Addr: addr}, zap.NewNop()); err == nil {
		t.Error("expected a ping error for a closed server")
	}
}
