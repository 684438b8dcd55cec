package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestAllowEnforcesBurst(t *testing.T) {
	limiter := New(10, 10)

	for i := 0; i < 10; i++ {
		if !limiter.Allow() {
			t.Fatalf("operation %d should be allowed within burst", i)
		}
	}

	if limiter.Allow() {
		t.Fatal("operation should be limited after burst exhausted")
	}

	// 10 ops/s replenishes one token every 100ms
	time.Sleep(110 * time.Millisecond)

	if !limiter.Allow() {
		t.Fatal("operation should be allowed after replenishment")
	}
}

func TestWaitBlocksForToken(t *testing.T) {
	limiter := New(10, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first wait should succeed: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("second wait should succeed: %v", err)
	}
	elapsed := time.Since(start)

	// roughly one token period at 10 ops/s, with jitter margin
	if elapsed < 50*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Fatalf("wait time %v outside expected range", elapsed)
	}
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	limiter := New(1, 1)

	if !limiter.Allow() {
		t.Fatal("first operation should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("wait should fail when the context expires first")
	}
}

func TestAllowN(t *testing.T) {
	limiter := New(10, 10)

	if !limiter.AllowN(5) {
		t.Fatal("5 tokens should fit in a burst of 10")
	}
	if !limiter.AllowN(5) {
		t.Fatal("5 more tokens should still fit")
	}
	if limiter.AllowN(1) {
		t.Fatal("bucket should be empty")
	}
}

func TestSetBurst(t *testing.T) {
	limiter := New(1000, 10)

	for i := 0; i < 10; i++ {
		limiter.Allow()
	}

	limiter.SetBurst(50)

	// at 1000 ops/s the bucket refills to the new cap well within 100ms
	time.Sleep(100 * time.Millisecond)

	allowed := 0
	for i := 0; i < 60; i++ {
		if limiter.Allow() {
			allowed++
		} else {
			break
		}
	}

	if allowed < 45 || allowed > 55 {
		t.Fatalf("expected ~50 operations allowed, got %d", allowed)
	}
}

func TestZeroRateIsUnlimited(t *testing.T) {
	limiter := New(0, 0)

	for i := 0; i < 1000; i++ {
		if !limiter.Allow() {
			t.Fatalf("unlimited limiter rejected operation %d", i)
		}
	}
}
