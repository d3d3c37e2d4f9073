package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestNewIPRateLimiter(t *testing.T) {
	r := rate.Limit(10)
	b := 5
	limiter := NewIPRateLimiter(r, b, slog.Default())

	assert.NotNil(t, limiter)
	assert.Equal(t, r, limiter.r)
	assert.Equal(t, b, limiter.b)
	assert.NotNil(t, limiter.visitors)
}

func TestIPRateLimiter_GetLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(10), 5, slog.Default())
	ip := "192.168.1.1"

	l1 := limiter.GetLimiter(ip)
	assert.NotNil(t, l1)
	assert.Equal(t, rate.Limit(10), l1.Limit())
	assert.Equal(t, 5, l1.Burst())

	// Same IP, same bucket
	l2 := limiter.GetLimiter(ip)
	assert.Same(t, l1, l2)

	l3 := limiter.GetLimiter("1.1.1.1")
	assert.NotSame(t, l1, l3)
}

func TestIPRateLimiter_Allow(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, slog.Default())

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestIPRateLimiter_EvictIdle(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1, slog.Default())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		limiter.GetLimiter(fmt.Sprintf("ip-%d", i))
	}
	clock = clock.Add(time.Hour)
	limiter.GetLimiter("ip-0")

	evicted := limiter.evictIdle(30 * time.Minute)
	assert.Equal(t, 4, evicted)
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "ip-0")
}

func TestIPRateLimiter_StartCleanup(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1, slog.Default())
	limiter.GetLimiter("stale")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter.StartCleanup(ctx, 10*time.Millisecond, time.Nanosecond)

	assert.Eventually(t, func() bool {
		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		return len(limiter.visitors) == 0
	}, time.Second, 10*time.Millisecond)
}
