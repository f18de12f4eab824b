package service

import (
	"context"
	"time"
)

// Clock supplies the current time; swapped out in tests.
type Clock func() time.Time

// simulateLatency blocks for the configured artificial delay used by the
// stubbed external calls. It honors context cancellation.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
