// Package retryx pins the backoff profile used around storage conflicts and
// flaky authorization-server calls: exponential from a 3s base with ±20%
// jitter, capped so an unbounded retry loop never sleeps for minutes.
package retryx

import (
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultBaseDelay is the first backoff interval.
	DefaultBaseDelay = 3 * time.Second

	// jitterPercent spreads concurrent retriers apart so two requests that
	// collided on an insert don't collide again on the next attempt.
	jitterPercent = 20

	// maxDelay caps the exponential growth of unbounded retry loops.
	maxDelay = 30 * time.Second
)

// Backoff returns an unbounded jittered exponential backoff starting at
// base. A base of zero selects DefaultBaseDelay.
func Backoff(base time.Duration) retry.Backoff {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	b := retry.NewExponential(base)
	b = retry.WithJitterPercent(jitterPercent, b)
	return retry.WithCappedDuration(maxDelay, b)
}

// BackoffMax is Backoff limited to at most maxRetries re-attempts.
func BackoffMax(base time.Duration, maxRetries uint64) retry.Backoff {
	return retry.WithMaxRetries(maxRetries, Backoff(base))
}
