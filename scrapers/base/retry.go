package base

import (
	"math/rand"
	"time"
)

// RetryPolicy defines retry behavior for listing and detail fetches.
// Every call site shares the same policy instead of scattering ad-hoc
// sleeps through the retailer loops.
type RetryPolicy struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryPolicy is tuned for polite catalog crawling: a few attempts
// with exponential backoff, capped well below anti-bot ban thresholds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Delay calculates the exponential backoff delay before the given attempt.
// Attempt numbering starts at 1; the first attempt has no delay.
func (rp RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	d := float64(rp.InitialDelay)
	for i := 2; i < attempt; i++ {
		d *= rp.BackoffMultiplier
	}

	if rp.MaxDelay > 0 && time.Duration(d) > rp.MaxDelay {
		return rp.MaxDelay
	}
	return time.Duration(d)
}

// Jitter returns a random duration in [0, max), used to spread courtesy
// delays so page fetches don't land on a fixed cadence.
func Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}
