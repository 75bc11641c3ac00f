package session

import (
	"context"
	"time"
)

// loginClaimGrace extends an in-flight login claim past the simulated latency.
const loginClaimGrace = 10 * time.Second

// waitFunc simulates the remote round trip of login and registration.
type waitFunc func(ctx context.Context, d time.Duration) error

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
