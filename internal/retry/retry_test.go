package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestDo_ExponentialSchedule(t *testing.T) {
	policy := Policy{
		MaxAttempts:  4,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     40 * time.Millisecond,
		Multiplier:   2,
	}

	var attempts []uint

	var delays []time.Duration

	err := Do(context.Background(), policy,
		func(attempt uint) error {
			attempts = append(attempts, attempt)

			return errBoom
		},
		func(_ error, next time.Duration) {
			delays = append(delays, next)
		},
	)

	if !errors.Is(err, errBoom) {
		t.Fatalf("Do() error = %v, want %v", err, errBoom)
	}

	if len(attempts) != 4 {
		t.Fatalf("attempts = %v, want 4 attempts", attempts)
	}

	for i, attempt := range attempts {
		if attempt != uint(i+1) {
			t.Errorf("attempt %d reported as %d", i+1, attempt)
		}
	}

	// With zero jitter the schedule is 10ms, 20ms, then capped at 40ms.
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}

	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestDo_StopsOnSuccess(t *testing.T) {
	policy := Policy{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	var attempts uint

	err := Do(context.Background(), policy,
		func(attempt uint) error {
			attempts = attempt
			if attempt < 3 {
				return errBoom
			}

			return nil
		}, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDo_PermanentShortCircuits(t *testing.T) {
	policy := Policy{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	var attempts uint

	err := Do(context.Background(), policy,
		func(attempt uint) error {
			attempts = attempt

			return Permanent(errBoom)
		}, nil)

	if !errors.Is(err, errBoom) {
		t.Fatalf("Do() error = %v, want %v", err, errBoom)
	}

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	policy := Policy{MaxAttempts: 10, InitialDelay: 50 * time.Millisecond, MaxDelay: time.Second}

	ctx, cancel := context.WithCancel(context.Background())

	err := Do(ctx, policy,
		func(uint) error {
			cancel()

			return errBoom
		}, nil)
	if err == nil {
		t.Fatal("Do() should fail when the context is cancelled")
	}
}
