// Package pace provides the pacing hook a mower waits on before every move.
//
// Pacing only slows observation down; it never changes what an algorithm
// does. Every Pacer honours context cancellation so a long, slow run can be
// aborted between moves.
//
// Implementations:
//
//   - None:    returns immediately (headless runs, tests).
//   - Timer:   sleeps for the delay on a real timer.
//   - Limiter: spaces moves out with golang.org/x/time/rate.
//   - Virtual: advances a fake clock without sleeping (tests).
package pace

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks for up to delay before a move, or until ctx is done.
type Pacer interface {
	Wait(ctx context.Context, delay time.Duration) error
}

// None is a Pacer that never blocks. It still reports a cancelled context.
type None struct{}

// Wait implements Pacer.
func (None) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Timer sleeps for the full delay on a real timer.
type Timer struct{}

// Wait implements Pacer.
func (Timer) Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Limiter paces moves with a token bucket of burst 1, so consecutive moves
// are at least delay apart but time spent elsewhere counts towards the gap.
// The rate follows the most recent delay passed to Wait.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	delay   time.Duration
}

// NewLimiter returns a Limiter primed for the given delay.
func NewLimiter(delay time.Duration) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(limitFor(delay), 1), delay: delay}
}

// Wait implements Pacer.
func (l *Limiter) Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	l.mu.Lock()
	if delay != l.delay {
		l.limiter.SetLimit(limitFor(delay))
		l.delay = delay
	}
	lim := l.limiter
	l.mu.Unlock()

	return lim.Wait(ctx)
}

func limitFor(delay time.Duration) rate.Limit {
	if delay <= 0 {
		return rate.Inf
	}
	return rate.Every(delay)
}

// Virtual accumulates requested delays instead of sleeping.
// The zero value is ready to use.
type Virtual struct {
	mu    sync.Mutex
	now   time.Duration
	waits int
}

// Wait implements Pacer.
func (v *Virtual) Wait(ctx context.Context, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if delay > 0 {
		v.now += delay
	}
	v.waits++
	return nil
}

// Elapsed returns the virtual time spent waiting.
func (v *Virtual) Elapsed() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Waits returns how many times Wait was called.
func (v *Virtual) Waits() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.waits
}

// Mode names a Pacer for configuration.
type Mode string

const (
	ModeNone  Mode = "none"
	ModeTimer Mode = "timer"
	ModeRate  Mode = "rate"
)

// ForMode returns the Pacer for m. Unknown modes fall back to None.
func ForMode(m Mode, delay time.Duration) Pacer {
	switch m {
	case ModeTimer:
		return Timer{}
	case ModeRate:
		return NewLimiter(delay)
	default:
		return None{}
	}
}
