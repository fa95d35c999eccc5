package shipper

import (
	"context"
	"logshipper/internal/breaker"
	"logshipper/internal/queue/deque"
	"logshipper/internal/retry"
	"logshipper/internal/schedule"
	"logshipper/internal/sink"
	"sync"
	"sync/atomic"
	"time"
)

// Pipeline settings, fixed at construction
type Pipeline struct {
	BatchSize         int
	FlushInterval     time.Duration
	QueueCapacity     int
	BreakerThreshold  int
	BreakerCooldown   time.Duration
	Retry             retry.Config
	ShutdownMaxRounds int
	ShutdownPause     time.Duration
	SchedulerStopWait time.Duration
}

// Asynchronous log shipper: producers enqueue, one flush worker delivers batches to the sink
type Shipper struct {
	Namespace []string
	ID        string
	cfg       Pipeline
	ctx       context.Context // logging context

	queue   *deque.Deque
	breaker *breaker.Breaker // owned by whichever goroutine is flushing (worker, then shutdown drain)
	engine  *retry.Engine
	sink    sink.Sink
	driver  *schedule.Periodic
	pause   retry.WaitFunc

	startOnce    sync.Once
	shutdownOnce sync.Once
	closed       atomic.Bool
	Metrics      *MetricStorage
}

type MetricStorage struct {
	FlushCycles        atomic.Uint64 // FlushBatch calls
	FlushedRecords     atomic.Uint64 // records delivered by flush cycles
	BreakerSkips       atomic.Uint64 // cycles refused by an open breaker
	FailedCycles       atomic.Uint64 // cycles ending with a requeued remainder
	UnexpectedFailures atomic.Uint64 // recovered panics in flush cycles
	RejectedClosed     atomic.Uint64 // enqueues after shutdown
	ShutdownRounds     atomic.Uint64 // failed drain rounds during shutdown
}

type options struct {
	clock func() time.Time
	wait  retry.WaitFunc
	pause retry.WaitFunc
}

type Option func(*options)
