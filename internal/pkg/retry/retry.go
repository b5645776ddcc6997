package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retried operation.
type Policy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration
}

// DefaultPolicy is three attempts, 1s doubling to at most 5s, 30s per attempt.
var DefaultPolicy = Policy{
	MaxAttempts:    3,
	BaseDelay:      time.Second,
	MaxDelay:       5 * time.Second,
	AttemptTimeout: 30 * time.Second,
}

// Outcome is the result of a retried operation. Err holds the last failure
// when every attempt was used up or the failure was permanent.
type Outcome struct {
	Attempts int
	Err      error
}

// Exhausted reports whether the operation never succeeded.
func (o Outcome) Exhausted() bool {
	return o.Err != nil
}

// Retrier runs operations under a Policy.
type Retrier struct {
	policy   Policy
	newTimer func() backoff.Timer
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithTimer replaces the wall-clock timer used between attempts.
func WithTimer(fn func() backoff.Timer) Option {
	return func(r *Retrier) { r.newTimer = fn }
}

// New creates a Retrier. Zero policy fields fall back to DefaultPolicy.
func New(p Policy, opts ...Option) *Retrier {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultPolicy.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultPolicy.MaxDelay
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = DefaultPolicy.AttemptTimeout
	}
	r := &Retrier{policy: p}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the effective policy.
func (r *Retrier) Policy() Policy {
	return r.policy
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, fails permanently, the parent context ends,
// or MaxAttempts is reached. Each attempt gets its own AttemptTimeout.
func (r *Retrier) Do(ctx context.Context, name string, op func(ctx context.Context) error) Outcome {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.BaseDelay
	b.MaxInterval = r.policy.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.policy.MaxAttempts-1)), ctx)

	attempts := 0
	operation := func() error {
		attempts++
		actx, cancel := context.WithTimeout(ctx, r.policy.AttemptTimeout)
		defer cancel()

		err := op(actx)
		if err != nil {
			slog.WarnContext(ctx, "attempt failed",
				"operation", name,
				"attempt", attempts,
				"max_attempts", r.policy.MaxAttempts,
				"error", err,
			)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.DebugContext(ctx, "retrying", "operation", name, "wait", wait.String())
	}

	var timer backoff.Timer
	if r.newTimer != nil {
		timer = r.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(operation, policy, notify, timer)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	return Outcome{Attempts: attempts, Err: err}
}
