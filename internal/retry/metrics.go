package retry

import (
	"logshipper/internal/metrics"
	"time"
)

func (engine *Engine) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	attempts := engine.Metrics.Attempts.Swap(0)
	latency := engine.Metrics.SinkLatency.Swap(0)

	var avgLatency uint64
	if attempts > 0 {
		avgLatency = latency / attempts
	}

	trimmedLatency, _ := engine.latencies.Drain(0.10)

	c := metrics.NewCollection(engine.Namespace, interval)
	c.Counter("attempts", attempts, "count", "Sink calls in the interval")
	c.Counter("delivered_batches", engine.Metrics.Delivered.Swap(0), "count", "Batches delivered in the interval")
	c.Counter("delivered_records", engine.Metrics.DeliveredRecs.Swap(0), "count", "Records delivered in the interval")
	c.Counter("failures", engine.Metrics.Failures.Swap(0), "count", "Failed sink calls in the interval")
	c.Counter("exhausted", engine.Metrics.Exhausted.Swap(0), "count", "Batches returned undelivered in the interval")
	c.Counter("backoff_time", engine.Metrics.BackoffTime.Swap(0), "ns", "Time spent waiting between attempts in the interval")
	c.Gauge("avg_sink_latency", avgLatency, "ns", "Average sink call duration in the interval")
	c.Gauge("trimmed_sink_latency", trimmedLatency, "ns", "Sink call duration in the interval, excluding the slowest and fastest 10%")
	collection = c.Metrics
	return
}
