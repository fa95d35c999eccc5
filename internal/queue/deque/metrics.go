package deque

import (
	"logshipper/internal/metrics"
	"time"
)

// Snapshot of gauges and per-interval counters (counters reset on collection)
func (queue *Deque) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	queue.mu.Lock()
	depth := queue.size
	byteSum := queue.bytes
	queue.mu.Unlock()

	c := metrics.NewCollection(queue.Namespace, interval)
	c.Gauge("depth", uint64(depth), "count", "Current number of records in the queue")
	c.Gauge("byte_sum", uint64(byteSum), "bytes", "Message byte sum of all records in the queue")
	c.Gauge("capacity", uint64(len(queue.buf)), "count", "Maximum number of records the queue holds")
	c.Counter("push_attempts", queue.Metrics.PushAttempts.Swap(0), "count", "Total push attempts in the interval")
	c.Counter("push_success", queue.Metrics.PushSuccess.Swap(0), "count", "Total push attempts that succeeded in the interval")
	c.Counter("push_dropped", queue.Metrics.PushDropped.Swap(0), "count", "Records dropped because the queue was full in the interval")
	c.Counter("pop_success", queue.Metrics.PopSuccess.Swap(0), "count", "Records removed from the head in the interval")
	c.Counter("requeued", queue.Metrics.Requeued.Swap(0), "count", "Records re-inserted at the head in the interval")
	c.Counter("requeue_evicted", queue.Metrics.RequeueEvicted.Swap(0), "count", "Records discarded by requeues in the interval")

	collection = c.Metrics
	return
}
