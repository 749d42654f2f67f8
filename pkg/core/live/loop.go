package live

import (
	"context"
	"time"
)

// run calls poll until ctx is cancelled, sleeping for whatever delay poll returns.
func run(ctx context.Context, poll func(context.Context) time.Duration) {
	for {
		delay := poll(ctx)
		if ctx.Err() != nil {
			return
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
