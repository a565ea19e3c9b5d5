// Package poll drives bounded status polling of long-running provider jobs.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// ErrExhausted is returned when the job is still unfinished after the last attempt.
var ErrExhausted = errors.New("poll attempts exhausted")

// Policy bounds a polling loop: MaxAttempts checks spaced Interval apart, the
// first one after an initial Interval wait.
type Policy struct {
	Interval    time.Duration
	MaxAttempts int
}

// Ceiling is the longest a loop under p can run.
func (p Policy) Ceiling() time.Duration {
	return p.Interval * time.Duration(p.MaxAttempts)
}

// CheckFunc inspects the job once. attempt starts at 1. Returning done stops
// the loop; a Permanent error stops it with that error; any other error is
// retried within the attempt budget.
type CheckFunc[T any] func(ctx context.Context, attempt int) (value T, done bool, err error)

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth another attempt.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

type outcome[T any] struct {
	value T
	done  bool
}

// Until runs check until it reports done, fails permanently, the context ends
// or MaxAttempts is reached.
func Until[T any](ctx context.Context, p Policy, check CheckFunc[T]) (T, error) {
	var zero T
	if p.MaxAttempts <= 0 {
		return zero, fmt.Errorf("poll: max attempts must be positive")
	}
	if err := wait(ctx, p.Interval); err != nil {
		return zero, err
	}

	rp := retrypolicy.NewBuilder[outcome[T]]().
		WithDelay(p.Interval).
		WithMaxAttempts(p.MaxAttempts).
		HandleIf(func(o outcome[T], err error) bool {
			if err != nil {
				var perm permanentError
				return !errors.As(err, &perm)
			}
			return !o.done
		}).
		ReturnLastFailure().
		Build()

	attempt := 0
	got, err := failsafe.With[outcome[T]](rp).WithContext(ctx).Get(func() (outcome[T], error) {
		attempt++
		v, done, err := check(ctx, attempt)
		return outcome[T]{value: v, done: done}, err
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}
	if err != nil {
		var perm permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
		return zero, fmt.Errorf("%w after %d attempts: %v", ErrExhausted, attempt, err)
	}
	if !got.done {
		return zero, fmt.Errorf("%w after %d attempts", ErrExhausted, attempt)
	}
	return got.value, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
