package shipper

import (
	"logshipper/internal/retry"
	"time"
)

// Clock used by the circuit breaker
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		opts.clock = now
	}
}

// Wait used between retry attempts
func WithRetryWait(wait retry.WaitFunc) Option {
	return func(opts *options) {
		opts.wait = wait
	}
}

// Wait used between shutdown drain rounds
func WithShutdownPause(pause retry.WaitFunc) Option {
	return func(opts *options) {
		opts.pause = pause
	}
}
