// Package payment covers what happens after checkout: the localhost
// listener that catches the return redirect and the bounded polling loop
// that waits for the access flag to flip.
package payment

import (
	"context"
	"sync"
	"time"
)

// PollPolicy is a fixed-interval, bounded-attempt schedule. It is pure data:
// the runner owns the timers, so the schedule is testable without delays.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultPollPolicy mirrors the checkout settlement window: 10 checks, 2s
// apart.
var DefaultPollPolicy = PollPolicy{
	Interval:    2 * time.Second,
	MaxAttempts: 10,
}

// Delay reports the wait before the next check, given how many checks have
// already run. ok is false once the attempt budget is spent.
func (p PollPolicy) Delay(attempts int) (time.Duration, bool) {
	if attempts >= p.MaxAttempts {
		return 0, false
	}
	return p.Interval, true
}

type PollResult int

const (
	// PollConfirmed means a check observed the condition.
	PollConfirmed PollResult = iota
	// PollExhausted means the attempt budget ran out first.
	PollExhausted
)

// CheckFunc performs one observation. done=true stops the loop as confirmed.
type CheckFunc func(ctx context.Context) (bool, error)

// Sleeper waits between checks. Tests substitute an instant one.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper: a timer cut short by ctx.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poll runs check until it confirms, errors, or the policy is exhausted.
// It returns the number of checks performed: a condition observed on
// attempt k means exactly k checks.
func Poll(ctx context.Context, policy PollPolicy, sleep Sleeper, check CheckFunc) (PollResult, int, error) {
	attempts := 0
	for {
		attempts++
		done, err := check(ctx)
		if err != nil {
			return PollExhausted, attempts, err
		}
		if done {
			return PollConfirmed, attempts, nil
		}

		delay, ok := policy.Delay(attempts)
		if !ok {
			return PollExhausted, attempts, nil
		}
		if err := sleep(ctx, delay); err != nil {
			return PollExhausted, attempts, err
		}
	}
}

// Celebration fires a success effect at most once, however many times the
// confirmed state is re-entered.
type Celebration struct {
	once sync.Once
}

func (c *Celebration) Fire(effect func()) {
	c.once.Do(effect)
}
