package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinLimit(t *testing.T) {
	limiter := NewMemoryLimiter(&Config{
		Window:        time.Minute,
		MaxRequests:   3,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("10.0.0.1")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := limiter.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestIdentifiersAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(&Config{
		Window:        time.Minute,
		MaxRequests:   1,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("10.0.0.2")
	assert.True(t, allowed)
}

func TestWindowResets(t *testing.T) {
	limiter := NewMemoryLimiter(&Config{
		Window:        10 * time.Millisecond,
		MaxRequests:   1,
		CleanupPeriod: time.Minute,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1")
	require.False(t, allowed)

	time.Sleep(20 * time.Millisecond)
	allowed, _ = limiter.Allow("10.0.0.1")
	assert.True(t, allowed)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.5:3456"
	assert.Equal(t, "192.168.1.5", GetClientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	assert.Equal(t, "198.51.100.4", GetClientIP(r))
}
