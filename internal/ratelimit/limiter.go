// Package ratelimit implements fixed-window request admission control.
// State is an injectable, mutex-guarded store rather than a package-level
// singleton so tests can supply a clock and isolate buckets.
package ratelimit

import (
	"sync"
	"time"
)

// Result of an admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window counter per client key. The read-check-increment
// sequence for a key is atomic with respect to concurrent requests.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter allowing limit requests per window per key.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit applies the fixed-window rule for key: past the window's resetAt
// (or on first sight) the window restarts with count 1; otherwise the
// request is denied once the count reaches the limit.
func (l *Limiter) Admit(key string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{count: 1, resetAt: now.Add(l.window)}
		l.buckets[key] = b
		return Result{Allowed: true, Remaining: l.limit - 1, ResetAt: b.resetAt}
	}
	if b.count >= l.limit {
		return Result{Allowed: false, Remaining: 0, ResetAt: b.resetAt}
	}
	b.count++
	return Result{Allowed: true, Remaining: l.limit - b.count, ResetAt: b.resetAt}
}

// Sweep removes buckets whose window has passed. Call periodically to keep
// the map bounded under many distinct client keys.
func (l *Limiter) Sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if now.After(b.resetAt) {
			delete(l.buckets, key)
		}
	}
}

// SweepLoop runs Sweep on the given interval until stop is closed.
func (l *Limiter) SweepLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-stop:
			return
		}
	}
}
