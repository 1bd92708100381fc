package app

import (
	"context"
	"time"
)

// countdown delivers one tick per interval until it is stopped.
// Stop is idempotent and safe to call while holding the session lock:
// it never waits for the tick goroutine.
type countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startCountdown(interval time.Duration, tick func()) *countdown {
	ctx, cancel := context.WithCancel(context.Background())
	c := &countdown{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick racing with stop is dropped here; one already past
				// this check is rejected by the session's status guard.
				if ctx.Err() != nil {
					return
				}
				tick()
			}
		}
	}()
	return c
}

func (c *countdown) stop() {
	if c != nil {
		c.cancel()
	}
}

// Done is closed once the tick goroutine has exited.
func (c *countdown) Done() <-chan struct{} {
	return c.done
}
