package core

// write_limiter.go bounds the number of submissions writing to the store at
// once. A burst of sign-ups queues for a free slot instead of exhausting the
// connection pool; a request that waits longer than maxWait is turned away
// with ErrTooManySubmissions and the user is asked to resubmit.
//
// WaitForDrain lets shutdown hold until in-flight writes have finished.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManySubmissions is returned when no write slot frees up in time.
var ErrTooManySubmissions = errors.New("too many concurrent submissions, please try again later")

// Defaults for NewWriteLimiter.
const (
	DefaultMaxConcurrentWrites = 8
	DefaultMaxWriteWait        = 10 * time.Second
)

// WriteLimiter is a semaphore over store writes.
type WriteLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewWriteLimiter allows at most maxConcurrent writes at a time. Callers that
// cannot get a slot within maxWait receive ErrTooManySubmissions.
func NewWriteLimiter(maxConcurrent int, maxWait time.Duration) *WriteLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentWrites
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWriteWait
	}
	return &WriteLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a write slot. The caller must Release it.
func (l *WriteLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManySubmissions
	}
}

// Release frees a slot taken by Acquire.
func (l *WriteLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of writes in progress.
func (l *WriteLimiter) Active() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no write is in progress or ctx ends.
func (l *WriteLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WriteLimiterStatus is a point-in-time view of the limiter.
type WriteLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status reports current usage for the health endpoint.
func (l *WriteLimiter) Status() WriteLimiterStatus {
	active := l.Active()
	return WriteLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
