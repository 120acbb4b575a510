package base

import (
	"context"
	"time"
)

// CourtesyDelay sleeps between page or detail fetches. This is politeness
// toward the retailer, not backpressure: it does not adapt to response
// codes. The sleep is cut short when the run context is canceled.
func CourtesyDelay(ctx context.Context, base, jitter time.Duration) {
	d := base + Jitter(jitter)
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
