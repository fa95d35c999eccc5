package shipper

import (
	"context"
	"errors"
	"logshipper/internal/record"
	"sync"
	"testing"
	"time"
)

var errSinkDown = errors.New("sink unavailable")

// Sink whose behaviour per call is decided by a script function (nil script always succeeds)
type scriptedSink struct {
	mu      sync.Mutex
	script  func(call int, batch record.Batch) error
	calls   int
	batches []record.Batch
	closes  int
}

func (s *scriptedSink) Deliver(ctx context.Context, batch record.Batch) error {
	s.mu.Lock()
	s.calls++
	call := s.calls
	script := s.script
	s.mu.Unlock()

	if script != nil {
		if err := script(call, batch); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.batches = append(s.batches, append(record.Batch(nil), batch...))
	s.mu.Unlock()
	return nil
}

func (s *scriptedSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *scriptedSink) Name() string { return "scripted" }

func (s *scriptedSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *scriptedSink) delivered() (batches []record.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batches = append(batches, s.batches...)
	return
}

func (s *scriptedSink) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func alwaysFail(call int, batch record.Batch) error { return errSinkDown }

func failFirst(n int) func(int, record.Batch) error {
	return func(call int, batch record.Batch) error {
		if call <= n {
			return errSinkDown
		}
		return nil
	}
}

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(d)
}

// Returns immediately unless ctx is already done
func noWait(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

// Blocks until ctx is done
func blockingWait(ctx context.Context, d time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}

// Records shutdown pauses without sleeping
type pauseRecorder struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (p *pauseRecorder) pause(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses = append(p.pauses, d)
	return ctx.Err()
}

func (p *pauseRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pauses)
}

func testPipeline() (cfg Pipeline) {
	cfg = DefaultPipeline()
	return
}

func newTestShipper(t *testing.T, cfg Pipeline, s *scriptedSink, opts ...Option) (shipper *Shipper) {
	t.Helper()
	shipper, err := New(context.Background(), cfg, s, opts...)
	if err != nil {
		t.Fatalf("failed to create shipper: %v", err)
	}
	return
}

func rec(msg string, severity record.Severity) record.Record {
	return record.Record{Message: msg, Severity: severity, Timestamp: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func messages(batch record.Batch) (msgs []string) {
	for _, r := range batch {
		msgs = append(msgs, r.Message)
	}
	return
}
