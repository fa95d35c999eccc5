package retry

import (
	"context"
	"logshipper/internal/calc"
	"logshipper/internal/record"
	"logshipper/internal/sink"
	"sync/atomic"
	"time"
)

type Config struct {
	Attempts       int           // Delivery attempts per batch
	BackoffInitial time.Duration // Wait after the first failure
	BackoffFactor  float64       // Growth per failed attempt
	BackoffMax     time.Duration // Upper bound for a single wait
	BackoffJitter  bool          // Randomize waits between initial and the computed value
}

// Outcome of one Send. Remainder is empty when the batch was delivered.
type Result struct {
	Remainder record.Batch
	Attempts  int
	Err       error // last delivery error (or cancellation) when Remainder is non-empty
}

// Blocks for d or until ctx is done
type WaitFunc func(ctx context.Context, d time.Duration) (err error)

// Sink call durations kept for the trimmed latency metric
const latencySamples int = 256

type Engine struct {
	Namespace []string
	sink      sink.Sink
	cfg       Config
	wait      WaitFunc
	latencies *calc.Window
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Attempts      atomic.Uint64 // every sink call
	Delivered     atomic.Uint64 // batches delivered
	DeliveredRecs atomic.Uint64 // records delivered
	Failures      atomic.Uint64 // failed sink calls
	Exhausted     atomic.Uint64 // batches returned as remainder
	BackoffTime   atomic.Uint64 // total ns spent waiting
	SinkLatency   atomic.Uint64 // total ns spent in sink calls
}
