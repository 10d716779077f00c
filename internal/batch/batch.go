// Package batch runs independent analysis units on a bounded worker pool and
// retries units whose failure is marked transient.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/gtfs-tools/transitaccess/internal/logging"
)

type Options struct {
	// Workers bounds concurrent units. Zero means GOMAXPROCS.
	Workers int
	// MaxAttempts bounds tries per unit, including the first. Zero means 3.
	MaxAttempts int
	// InitialInterval is the first retry delay. Zero means 200ms.
	InitialInterval time.Duration
	Logger          *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 200 * time.Millisecond
	}
	return o
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Run applies fn to every unit and returns the results in input order. The
// first unit that fails for good cancels the context passed to the others.
func Run[U, R any](ctx context.Context, units []U, opts Options, fn func(context.Context, U) (R, error)) ([]R, error) {
	opts = opts.withDefaults()
	results := make([]R, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			r, err := runUnit(gctx, i, unit, opts, fn)
			if err != nil {
				return fmt.Errorf("batch unit %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runUnit[U, R any](ctx context.Context, index int, unit U, opts Options, fn func(context.Context, U) (R, error)) (R, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = opts.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(opts.MaxAttempts-1)), ctx)

	return backoff.RetryNotifyWithData(
		func() (R, error) {
			r, err := fn(ctx, unit)
			if err != nil && !IsTransient(err) {
				return r, backoff.Permanent(err)
			}
			return r, err
		},
		policy,
		func(err error, d time.Duration) {
			logging.LogError(opts.Logger, "retrying batch unit", err,
				slog.Int("unit", index),
				slog.Duration("backoff", d),
				slog.String("component", "batch"))
		},
	)
}
