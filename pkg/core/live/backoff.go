// Package live keeps the banner integrations (Spotify, GitHub) fresh: pollers with
// adaptive intervals, a retry backoff and a cache shared by every reader.
package live

import (
	"sync"
	"time"
)

const (
	DefaultInitialDelay = time.Second
	DefaultMaxDelay     = 60 * time.Second
)

// Backoff doubles the retry delay on each consecutive failure up to Max.
// The first failure honors a server-provided Retry-After hint.
type Backoff struct {
	mu       sync.Mutex
	initial  time.Duration
	max      time.Duration
	current  time.Duration
	failures int
}

func NewBackoff(initial, maxDelay time.Duration) *Backoff {
	if initial <= 0 {
		initial = DefaultInitialDelay
	}
	if maxDelay < initial {
		maxDelay = initial
	}
	return &Backoff{initial: initial, max: maxDelay, current: initial}
}

// Failure records a failed attempt and returns how long to wait before the next one.
func (b *Backoff) Failure(retryAfter time.Duration) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.initial
	if b.failures > 0 {
		next = b.current * 2
	}
	if retryAfter > next {
		next = retryAfter
	}
	if next > b.max {
		next = b.max
	}
	b.current = next
	b.failures++
	return next
}

// Success resets the delay to its initial value.
func (b *Backoff) Success() {
	b.mu.Lock()
	b.current = b.initial
	b.failures = 0
	b.mu.Unlock()
}

func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Backoff) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
