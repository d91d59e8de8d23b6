package timeutil

import (
	"context"
	"time"
)

// Await runs task on its own goroutine and blocks the caller until the task
// reports a result, the timeout elapses, or ctx is done, whichever is first.
//
// The second return value is false when the wait ended without a result.
// The task's context is cancelled once Await returns, but the task is not
// forced to stop; a result delivered after that point is dropped and can
// never be observed by the caller.
//
// A non-positive timeout or an already finished ctx fails immediately
// without starting the task.
func Await[T any](ctx context.Context, timeout time.Duration, task func(ctx context.Context) T) (T, bool) {
	var zero T
	if timeout <= 0 {
		return zero, false
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if ctx.Err() != nil {
		return zero, false
	}

	// Capacity 1 so a late send never blocks the abandoned goroutine.
	done := make(chan T, 1)
	go func() {
		done <- task(ctx)
	}()

	select {
	case v := <-done:
		return v, true
	case <-ctx.Done():
		return zero, false
	}
}
