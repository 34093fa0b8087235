// Package retry provides exponential backoff with jitter for flaky calls to
// external quote sources.
package retry

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultFirstDelay = 500 * time.Millisecond
	defaultMaxDelay   = 10 * time.Second
	defaultFactor     = 2.0
	defaultAttempts   = 3
	defaultJitter     = 0.2
)

// Backoff retries a call with exponentially growing, jittered delays.
type Backoff struct {
	firstDelay time.Duration
	maxDelay   time.Duration
	factor     float64
	attempts   int
	jitter     float64
}

type Option func(*Backoff)

// WithFirstDelay sets the delay before the second attempt.
func WithFirstDelay(d time.Duration) Option {
	return func(b *Backoff) { b.firstDelay = d }
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(b *Backoff) { b.maxDelay = d }
}

// WithFactor sets the delay growth factor.
func WithFactor(f float64) Option {
	return func(b *Backoff) { b.factor = f }
}

// WithAttempts sets the total number of attempts, including the first.
func WithAttempts(n int) Option {
	return func(b *Backoff) { b.attempts = n }
}

// WithJitter sets the relative jitter applied to each delay, 0 to 1.
func WithJitter(j float64) Option {
	return func(b *Backoff) { b.jitter = j }
}

func New(opts ...Option) *Backoff {
	b := &Backoff{
		firstDelay: defaultFirstDelay,
		maxDelay:   defaultMaxDelay,
		factor:     defaultFactor,
		attempts:   defaultAttempts,
		jitter:     defaultJitter,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Do runs fn until it succeeds, attempts are exhausted or the context is
// cancelled. The last error is returned.
func (b *Backoff) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	delay := b.firstDelay

	for attempt := 0; attempt < b.attempts; attempt++ {
		if attempt > 0 {
			jittered := float64(delay) * (1 + (rand.Float64()*2-1)*b.jitter)
			if jittered < 0 {
				jittered = 0
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(jittered)):
			}

			delay = time.Duration(float64(delay) * b.factor)
			if delay > b.maxDelay {
				delay = b.maxDelay
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}

// DoWithData runs fn with retries and returns its value.
func DoWithData[T any](b *Backoff, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := b.Do(ctx, func(ctx context.Context) error {
		var ferr error
		out, ferr = fn(ctx)
		return ferr
	})
	return out, err
}
