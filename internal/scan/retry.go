package scan

import (
	"context"
	"time"
)

// retryMaxDelay caps the exponential backoff. RPC range queries fail in
// bursts; once the delay reaches this, further doubling only slows the
// scan down.
const retryMaxDelay = 30 * time.Second

// withRetry runs fn up to maxRetries+1 times, doubling the delay between
// attempts up to retryMaxDelay. A context cancelled during a backoff
// wait ends the loop with ctx.Err; the last attempt's error is returned
// otherwise.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
}
