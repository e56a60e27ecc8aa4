package worker

import (
	"context"
	"errors"
	"time"
)

// Worker worker interface
type Worker interface {
	Run(ctx context.Context) error
}

// ErrIdle returned by a tick handler when there was nothing to do, so the
// loop backs off to the full tick interval
var ErrIdle = errors.New("EOF")

// TickWorker runs a handler in a loop. A handler that did real work is
// re-invoked almost immediately to drain the backlog; an idle or failed
// one waits out the tick interval.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick tick loop, stops when ctx is done
func (w *TickWorker) StartTick(ctx context.Context, fn func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = 10 * time.Second
	}

	errDelay := w.ErrDelay
	if errDelay <= 0 {
		errDelay = delay
	}

	dur := time.Millisecond
	timer := time.NewTimer(dur)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			switch err := fn(ctx); err {
			case nil:
				dur = 200 * time.Millisecond
			case ErrIdle:
				dur = delay
			default:
				dur = errDelay
			}

			timer.Reset(dur)
		}
	}
}
