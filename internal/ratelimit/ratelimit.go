// Package ratelimit is an in-memory, per-identifier request limiter used to
// shield the AI-backed endpoints. Counters live in a map with a fixed
// window; a background loop evicts stale entries.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Window        time.Duration // counting window
	MaxRequests   int           // requests allowed per window
	CleanupPeriod time.Duration // how often stale entries are evicted
}

// DefaultChatConfig limits the text chat endpoint. Each request costs an
// external AI call on a knowledge miss, so the window is short and tight.
func DefaultChatConfig() *Config {
	return &Config{
		Window:        1 * time.Minute,
		MaxRequests:   20,
		CleanupPeriod: 5 * time.Minute,
	}
}

// DefaultImageConfig limits the image analysis endpoint, which is the most
// expensive call in the system.
func DefaultImageConfig() *Config {
	return &Config{
		Window:        1 * time.Minute,
		MaxRequests:   5,
		CleanupPeriod: 5 * time.Minute,
	}
}

// Info describes the limiter's decision for one request.
type Info struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type window struct {
	count    int
	start    time.Time
	lastSeen time.Time
}

// MemoryLimiter implements fixed-window rate limiting in process memory.
type MemoryLimiter struct {
	config  *Config
	windows map[string]*window
	mu      sync.Mutex
	stopCh  chan struct{}
	stop    sync.Once
}

func NewMemoryLimiter(config *Config) *MemoryLimiter {
	limiter := &MemoryLimiter{
		config:  config,
		windows: make(map[string]*window),
		stopCh:  make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// Allow records one request for identifier and reports whether it fits in
// the current window.
func (l *MemoryLimiter) Allow(identifier string) (bool, *Info) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[identifier]
	if !exists || now.Sub(w.start) > l.config.Window {
		l.windows[identifier] = &window{count: 1, start: now, lastSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: l.config.MaxRequests - 1,
			ResetTime: now.Add(l.config.Window),
		}
	}

	w.lastSeen = now
	if w.count >= l.config.MaxRequests {
		reset := w.start.Add(l.config.Window)
		return false, &Info{
			Allowed:    false,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: reset.Sub(now),
		}
	}

	w.count++
	return true, &Info{
		Allowed:   true,
		Remaining: l.config.MaxRequests - w.count,
		ResetTime: w.start.Add(l.config.Window),
	}
}

// Stop ends the cleanup goroutine.
func (l *MemoryLimiter) Stop() {
	l.stop.Do(func() { close(l.stopCh) })
}

func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

func (l *MemoryLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-2 * l.config.Window)
	for id, w := range l.windows {
		if w.lastSeen.Before(cutoff) {
			delete(l.windows, id)
		}
	}
}

// GetClientIP extracts the client address, honoring proxy headers.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
