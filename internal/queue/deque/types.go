package deque

import (
	"logshipper/internal/record"
	"sync"
	"sync/atomic"
)

// Bounded double-ended queue of pending records.
// Producers append at the tail, the single flush worker removes and re-inserts at the head.
type Deque struct {
	Namespace []string
	mu        sync.Mutex      // guards slot manipulation only, never held across sink I/O
	buf       []record.Record // ring storage, len(buf) == capacity
	head      int             // index of oldest record
	size      int
	bytes     int // message byte sum of held records
	Metrics   *MetricStorage
}

type MetricStorage struct {
	PushAttempts   atomic.Uint64 // every Push call
	PushSuccess    atomic.Uint64 // accepted at tail
	PushDropped    atomic.Uint64 // rejected because queue was full
	PopSuccess     atomic.Uint64 // removed from head
	Requeued       atomic.Uint64 // re-inserted at head
	RequeueEvicted atomic.Uint64 // records discarded by a requeue that did not fit
}
