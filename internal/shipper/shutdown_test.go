package shipper

import (
	"context"
	"fmt"
	"logshipper/internal/breaker"
	"logshipper/internal/record"
	"testing"
	"time"
)

func TestShutdown_DrainsQueue(t *testing.T) {
	s := &scriptedSink{}
	pauses := &pauseRecorder{}
	shipper := newTestShipper(t, testPipeline(), s, WithShutdownPause(pauses.pause))

	for i := 0; i < 120; i++ {
		shipper.Enqueue(rec(fmt.Sprintf("m%d", i), record.Info))
	}

	shipper.Shutdown(context.Background())

	if shipper.QueueDepth() != 0 {
		t.Fatalf("expected drained queue, got %d", shipper.QueueDepth())
	}
	var delivered int
	for _, batch := range s.delivered() {
		delivered += len(batch)
	}
	if delivered != 120 {
		t.Fatalf("expected 120 delivered, got %d", delivered)
	}
	if pauses.count() != 0 {
		t.Fatalf("expected no pauses for a healthy sink, got %d", pauses.count())
	}
	if s.closeCount() != 1 {
		t.Fatalf("expected sink closed once, got %d", s.closeCount())
	}
}

func TestShutdown_BoundedRounds(t *testing.T) {
	tests := []struct {
		name           string
		maxRounds      int
		expectedPauses int
	}{
		{name: "single round", maxRounds: 1, expectedPauses: 0},
		{name: "three rounds", maxRounds: 3, expectedPauses: 2},
		{name: "default rounds", maxRounds: 20, expectedPauses: 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testPipeline()
			cfg.ShutdownMaxRounds = tt.maxRounds
			s := &scriptedSink{script: alwaysFail}
			pauses := &pauseRecorder{}
			shipper := newTestShipper(t, cfg, s, WithRetryWait(noWait), WithShutdownPause(pauses.pause))

			shipper.Enqueue(rec("stuck1", record.Error))
			shipper.Enqueue(rec("stuck2", record.Error))

			done := make(chan struct{})
			go func() {
				shipper.Shutdown(context.Background())
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatalf("shutdown did not finish")
			}

			if pauses.count() != tt.expectedPauses {
				t.Fatalf("expected %d pauses, got %d", tt.expectedPauses, pauses.count())
			}
			for _, d := range pauses.pauses {
				if d != cfg.ShutdownPause {
					t.Fatalf("expected pause %s, got %s", cfg.ShutdownPause, d)
				}
			}
			if got := shipper.Metrics.ShutdownRounds.Load(); got != uint64(tt.maxRounds) {
				t.Fatalf("expected %d failed rounds, got %d", tt.maxRounds, got)
			}
			if shipper.QueueDepth() != 2 {
				t.Fatalf("expected undelivered records kept, got %d", shipper.QueueDepth())
			}
			if s.closeCount() != 1 {
				t.Fatalf("expected sink closed after exhausted drain, got %d", s.closeCount())
			}
		})
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	s := &scriptedSink{}
	shipper := newTestShipper(t, testPipeline(), s)
	shipper.Start()

	shipper.Shutdown(context.Background())
	shipper.Shutdown(context.Background())

	if s.closeCount() != 1 {
		t.Fatalf("expected sink closed once, got %d", s.closeCount())
	}
}

func TestEnqueue_RejectedAfterShutdown(t *testing.T) {
	s := &scriptedSink{}
	shipper := newTestShipper(t, testPipeline(), s)

	if !shipper.Enqueue(rec("before", record.Info)) {
		t.Fatalf("expected enqueue before shutdown to succeed")
	}
	shipper.Shutdown(context.Background())

	if shipper.Enqueue(rec("after", record.Info)) {
		t.Fatalf("expected enqueue after shutdown to be rejected")
	}
	if shipper.Metrics.RejectedClosed.Load() != 1 {
		t.Fatalf("expected 1 rejected record, got %d", shipper.Metrics.RejectedClosed.Load())
	}
	if len(s.delivered()) != 1 {
		t.Fatalf("expected only the record from before shutdown delivered, got %d batches", len(s.delivered()))
	}
}

func TestShutdown_InterruptsBackoff(t *testing.T) {
	cfg := testPipeline()
	cfg.ShutdownMaxRounds = 1
	s := &scriptedSink{script: alwaysFail}
	shipper := newTestShipper(t, cfg, s, WithRetryWait(blockingWait), WithShutdownPause(noWait))

	shipper.Enqueue(rec("r", record.Warn))
	shipper.Start()

	// Worker is now parked in a retry wait
	deadline := time.Now().Add(2 * time.Second)
	for s.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("worker never called the sink")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	shipper.Shutdown(ctx)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}

	select {
	case <-shipper.driver.Done():
	default:
		t.Fatalf("expected worker to have exited")
	}
	if shipper.QueueDepth() != 1 {
		t.Fatalf("expected undelivered record kept, got %d", shipper.QueueDepth())
	}
	if s.closeCount() != 1 {
		t.Fatalf("expected sink closed, got %d", s.closeCount())
	}
}

func TestShutdown_FinishesWithActiveProducer(t *testing.T) {
	s := &scriptedSink{script: func(call int, batch record.Batch) error {
		time.Sleep(time.Millisecond)
		return nil
	}}
	shipper := newTestShipper(t, testPipeline(), s, WithShutdownPause(noWait))
	shipper.Start()

	stop := make(chan struct{})
	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			shipper.Enqueue(rec(fmt.Sprintf("m%d", i), record.Info))
			time.Sleep(50 * time.Microsecond)
		}
	}()
	defer func() {
		close(stop)
		<-producerDone
	}()

	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		shipper.Shutdown(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("shutdown did not finish while a producer kept enqueueing")
	}

	if s.closeCount() != 1 {
		t.Fatalf("expected sink closed once, got %d", s.closeCount())
	}
	if len(s.delivered()) == 0 {
		t.Fatalf("expected records delivered before shutdown finished")
	}

	// Producer is still running, so late records must be turned away
	deadline := time.Now().Add(2 * time.Second)
	for shipper.Metrics.RejectedClosed.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected records enqueued during shutdown to be rejected")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestShutdown_CancelledRetryKeepsBreakerClosed(t *testing.T) {
	cfg := testPipeline()
	cfg.BreakerThreshold = 1
	cfg.ShutdownMaxRounds = 2
	s := &scriptedSink{script: failFirst(1)}
	shipper := newTestShipper(t, cfg, s, WithRetryWait(blockingWait), WithShutdownPause(noWait))

	shipper.Enqueue(rec("r", record.Error))
	shipper.Start()

	// Worker fails once and parks in the retry wait
	deadline := time.Now().Add(2 * time.Second)
	for s.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("worker never called the sink")
		}
		time.Sleep(5 * time.Millisecond)
	}

	shipper.Shutdown(context.Background())

	if shipper.BreakerState() != breaker.Closed {
		t.Fatalf("expected breaker closed after cancelled retry, got %s", shipper.BreakerState())
	}
	if shipper.QueueDepth() != 0 {
		t.Fatalf("expected record delivered during drain, got %d queued", shipper.QueueDepth())
	}
	if got := len(s.delivered()); got != 1 {
		t.Fatalf("expected 1 delivered batch, got %d", got)
	}
	if shipper.Metrics.ShutdownRounds.Load() != 0 {
		t.Fatalf("expected no failed drain rounds, got %d", shipper.Metrics.ShutdownRounds.Load())
	}
}
