package util

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
)

// Retrier retries a function with exponential backoff, using
// "github.com/cenkalti/backoff".ExponentialBackOff underneath.
type Retrier struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
	MaxElapsedTime      time.Duration
	// MaxTries caps the total number of calls, including the first one.
	// Zero or one means the function is called once.
	MaxTries int
	// ShouldRetry decides whether an error is transient. A nil ShouldRetry
	// retries every error.
	ShouldRetry func(err error) bool
	// Notify is called before each retry sleep.
	Notify func(err error, d time.Duration)
}

// NewRetrier returns a Retrier with defaults suited to short-lived
// inventory queries.
func NewRetrier() *Retrier {
	return &Retrier{
		InitialInterval:     time.Millisecond * 100,
		MaxInterval:         time.Second * 5,
		Multiplier:          2.0,
		RandomizationFactor: 0.5,
		MaxElapsedTime:      time.Minute,
		MaxTries:            4,
	}
}

// Retry calls f until it succeeds, returns a permanent error, the retry
// budget is spent, or ctx is done. The last error is returned.
func (r *Retrier) Retry(ctx context.Context, f func() error) error {
	b := backoff.WithContext(r.backoff(), ctx)
	return backoff.RetryNotify(func() error { return r.classify(f()) }, b, r.notify)
}

func (r *Retrier) notify(err error, d time.Duration) {
	if r.Notify != nil {
		r.Notify(err, d)
	}
}

func (r *Retrier) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case r.ShouldRetry != nil && !r.ShouldRetry(err):
		return backoff.Permanent(err)
	default:
		return err
	}
}

func (r *Retrier) backoff() backoff.BackOff {
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     r.InitialInterval,
		MaxInterval:         r.MaxInterval,
		Multiplier:          r.Multiplier,
		RandomizationFactor: r.RandomizationFactor,
		MaxElapsedTime:      r.MaxElapsedTime,
		Clock:               backoff.SystemClock,
	}

	// WithMaxRetries treats zero as unlimited.
	if r.MaxTries <= 1 {
		return &backoff.StopBackOff{}
	}
	return backoff.WithMaxRetries(exp, uint64(r.MaxTries-1))
}
