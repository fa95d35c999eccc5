// Delivery endpoints for record batches
package sink

import (
	"context"
	"logshipper/internal/record"
	"sync"
)

// Delivers one single-severity batch. A returned error means nothing in the batch counts as delivered.
type Sink interface {
	Deliver(ctx context.Context, batch record.Batch) (err error)
	Close() (err error)
	Name() (name string)
}

// Accepts and forgets every batch
type Discard struct{}

func (Discard) Deliver(ctx context.Context, batch record.Batch) (err error) { return }
func (Discard) Close() (err error)                                          { return }
func (Discard) Name() (name string)                                         { return "discard" }

// Adapts a function into a Sink
type Func func(ctx context.Context, batch record.Batch) (err error)

func (fn Func) Deliver(ctx context.Context, batch record.Batch) (err error) {
	err = fn(ctx, batch)
	return
}
func (fn Func) Close() (err error)  { return }
func (fn Func) Name() (name string) { return "func" }

// Keeps delivered batches in memory
type Memory struct {
	mu      sync.Mutex
	batches []record.Batch
	closed  bool
}

func (mem *Memory) Deliver(ctx context.Context, batch record.Batch) (err error) {
	mem.mu.Lock()
	defer mem.mu.Unlock()
	mem.batches = append(mem.batches, append(record.Batch(nil), batch...))
	return
}

func (mem *Memory) Close() (err error) {
	mem.mu.Lock()
	defer mem.mu.Unlock()
	mem.closed = true
	return
}

func (mem *Memory) Name() (name string) { return "memory" }

// Copy of delivered batches in delivery order
func (mem *Memory) Batches() (batches []record.Batch) {
	mem.mu.Lock()
	defer mem.mu.Unlock()
	batches = append(batches, mem.batches...)
	return
}

// Reports whether Close was called
func (mem *Memory) Closed() (closed bool) {
	mem.mu.Lock()
	defer mem.mu.Unlock()
	closed = mem.closed
	return
}
