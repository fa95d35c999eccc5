package retry

import (
	"context"
	"errors"
	"logshipper/internal/record"
	"sync"
	"time"
)

var errSinkDown = errors.New("sink unavailable")

// Fails the first failFor calls, then succeeds
type flakySink struct {
	mu      sync.Mutex
	failFor int
	calls   []time.Time
	batches []record.Batch
}

func (s *flakySink) Deliver(ctx context.Context, batch record.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, time.Now())
	if len(s.calls) <= s.failFor {
		return errSinkDown
	}
	s.batches = append(s.batches, batch)
	return nil
}

func (s *flakySink) Close() error { return nil }
func (s *flakySink) Name() string { return "flaky" }

func (s *flakySink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Records requested waits without sleeping
type waitRecorder struct {
	waits []time.Duration
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.waits = append(w.waits, d)
	return ctx.Err()
}

func defaultConfig() Config {
	return Config{
		Attempts:       5,
		BackoffInitial: time.Second,
		BackoffFactor:  2,
		BackoffMax:     30 * time.Second,
	}
}

func testBatch(n int) (batch record.Batch) {
	for i := 0; i < n; i++ {
		batch = append(batch, record.Record{Message: "msg", Severity: record.Info})
	}
	return
}
