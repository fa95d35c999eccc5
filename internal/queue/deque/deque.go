// Bounded deque with head re-insertion for ordered redelivery
package deque

import (
	"context"
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"logshipper/internal/record"

	"github.com/pbnjay/memory"
)

// Rough per-record footprint used for the memory headroom check (message + bookkeeping)
const estimatedRecordBytes uint64 = 512

// Creates a new queue
func New(ctx context.Context, capacity int) (new *Deque, err error) {
	if capacity < 1 {
		err = fmt.Errorf("capacity must be greater than or equal to 1")
		return
	}

	new = &Deque{
		Namespace: append(logctx.GetTagList(ctx), global.NSQueue),
		buf:       make([]record.Record, capacity),
		Metrics:   &MetricStorage{},
	}

	// Warn only, the queue never grows past capacity so this is an estimate of the worst case
	availMem := memory.FreeMemory()
	expectedMax := uint64(capacity) * estimatedRecordBytes
	if availMem > 0 && expectedMax > availMem {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"Queue capacity %d may need ~%d bytes when full, only %d bytes of memory are free\n",
			capacity, expectedMax, availMem)
	}
	return
}

// Maximum number of records held
func (queue *Deque) Capacity() (capacity int) {
	capacity = len(queue.buf)
	return
}

// Current number of records held
func (queue *Deque) Len() (length int) {
	queue.mu.Lock()
	length = queue.size
	queue.mu.Unlock()
	return
}

// Attempts to append a record at the tail (non success = queue full, record dropped)
func (queue *Deque) Push(rec record.Record) (success bool) {
	queue.Metrics.PushAttempts.Add(1)

	queue.mu.Lock()
	if queue.size == len(queue.buf) {
		queue.mu.Unlock()
		queue.Metrics.PushDropped.Add(1)
		return
	}
	queue.buf[queue.index(queue.size)] = rec
	queue.size++
	queue.bytes += len(rec.Message)
	queue.mu.Unlock()

	queue.Metrics.PushSuccess.Add(1)
	success = true
	return
}

// Removes and returns the oldest record
func (queue *Deque) PopHead() (rec record.Record, success bool) {
	queue.mu.Lock()
	if queue.size == 0 {
		queue.mu.Unlock()
		return
	}
	rec = queue.buf[queue.head]
	queue.buf[queue.head] = record.Record{} // release message for GC
	queue.head = queue.index(1)
	queue.size--
	queue.bytes -= len(rec.Message)
	queue.mu.Unlock()

	queue.Metrics.PopSuccess.Add(1)
	success = true
	return
}

// Returns the oldest record without removing it
func (queue *Deque) PeekHead() (rec record.Record, success bool) {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.size == 0 {
		return
	}
	rec = queue.buf[queue.head]
	success = true
	return
}

// Re-inserts records at the front in one step, recs[0] becomes the new head.
// When the records no longer fit, the newest tail records are evicted to make room
// (requeued records are always older than anything behind them).
// Records beyond capacity in recs itself are discarded from its end.
func (queue *Deque) RequeueAtHead(recs []record.Record) (accepted int, evicted int) {
	if len(recs) == 0 {
		return
	}

	capacity := len(queue.buf)
	if len(recs) > capacity {
		evicted += len(recs) - capacity
		recs = recs[:capacity]
	}

	queue.mu.Lock()
	overflow := queue.size + len(recs) - capacity
	for i := 0; i < overflow; i++ {
		tail := queue.index(queue.size - 1)
		queue.bytes -= len(queue.buf[tail].Message)
		queue.buf[tail] = record.Record{}
		queue.size--
		evicted++
	}

	// Insert in reverse so the original relative order is kept
	for i := len(recs) - 1; i >= 0; i-- {
		queue.head = queue.index(-1)
		queue.buf[queue.head] = recs[i]
		queue.size++
		queue.bytes += len(recs[i].Message)
	}
	queue.mu.Unlock()

	accepted = len(recs)
	queue.Metrics.Requeued.Add(uint64(accepted))
	queue.Metrics.RequeueEvicted.Add(uint64(evicted))
	return
}

// Physical slot for a logical offset from head. Caller holds the lock.
func (queue *Deque) index(offset int) (slot int) {
	capacity := len(queue.buf)
	slot = ((queue.head+offset)%capacity + capacity) % capacity
	return
}
