// Package retry runs an operation under an exponential backoff schedule
// with a fixed attempt ceiling.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const defaultMultiplier = 2

// Policy describes the backoff schedule. With Jitter at zero the delay
// before attempt n+1 is exactly InitialDelay * Multiplier^(n-1), capped at
// MaxDelay. A zero Multiplier means 2.
type Policy struct {
	MaxAttempts  uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64
}

// Permanent marks an error as not worth retrying; Do stops immediately and
// returns it.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a permanent error, the context is
// cancelled, or MaxAttempts attempts have failed. The 1-based attempt
// number is passed to op. notify, when non-nil, observes each failure
// together with the delay before the next attempt.
func Do(ctx context.Context, p Policy, op func(attempt uint) error, notify func(err error, next time.Duration)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.RandomizationFactor = p.Jitter
	b.Multiplier = p.Multiplier

	if b.Multiplier <= 0 {
		b.Multiplier = defaultMultiplier
	}

	var attempt uint

	operation := func() (struct{}, error) {
		attempt++

		return struct{}{}, op(attempt)
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.MaxAttempts),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(notify))
	}

	_, err := backoff.Retry(ctx, operation, opts...)

	return err
}
