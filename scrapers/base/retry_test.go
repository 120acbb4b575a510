package base

import (
	"testing"
	"time"
)

func TestRetryPolicyDelay(t *testing.T) {
	rp := RetryPolicy{
		MaxAttempts:       5,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          2 * time.Second,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 0},
		{attempt: 2, want: 500 * time.Millisecond},
		{attempt: 3, want: time.Second},
		{attempt: 4, want: 2 * time.Second},
		{attempt: 5, want: 2 * time.Second}, // capped
	}

	for _, tt := range tests {
		if got := rp.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	rp := DefaultRetryPolicy()
	if rp.MaxAttempts < 1 {
		t.Errorf("MaxAttempts = %d, want at least 1", rp.MaxAttempts)
	}
	if rp.BackoffMultiplier < 1.0 {
		t.Errorf("BackoffMultiplier = %v, want >= 1.0", rp.BackoffMultiplier)
	}
}

func TestJitterStaysInBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Jitter(time.Second)
		if d < 0 || d > time.Second {
			t.Fatalf("Jitter(1s) = %v, out of [0, 1s]", d)
		}
	}
	if Jitter(0) != 0 {
		t.Errorf("Jitter(0) should be 0")
	}
}
