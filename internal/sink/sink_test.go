package sink

import (
	"context"
	"errors"
	"logshipper/internal/record"
	"testing"
)

func TestMemory(t *testing.T) {
	mem := &Memory{}
	batch := record.Batch{{Message: "a", Severity: record.Info}}

	if err := mem.Deliver(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	batch[0].Message = "mutated"

	got := mem.Batches()
	if len(got) != 1 || got[0][0].Message != "a" {
		t.Fatalf("expected stored copy of batch, got %+v", got)
	}
	if mem.Closed() {
		t.Fatalf("expected memory sink open")
	}
	mem.Close()
	if !mem.Closed() {
		t.Fatalf("expected memory sink closed")
	}
}

func TestFuncAndDiscard(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	var s Sink = Func(func(ctx context.Context, batch record.Batch) error {
		calls++
		return boom
	})
	if err := s.Deliver(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	s = Discard{}
	if err := s.Deliver(context.Background(), record.Batch{{Message: "x"}}); err != nil {
		t.Fatalf("expected discard to succeed, got %v", err)
	}
	if s.Name() != "discard" {
		t.Fatalf("expected name discard, got %q", s.Name())
	}
}
