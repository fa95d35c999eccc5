package shipper

import (
	"logshipper/internal/metrics"
	"time"
)

func (shipper *Shipper) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	c := metrics.NewCollection(shipper.Namespace, interval)
	c.Counter("flush_cycles", shipper.Metrics.FlushCycles.Swap(0), "count", "Flush cycles run in the interval")
	c.Counter("flushed_records", shipper.Metrics.FlushedRecords.Swap(0), "count", "Records delivered by flush cycles in the interval")
	c.Counter("breaker_skips", shipper.Metrics.BreakerSkips.Swap(0), "count", "Flush cycles skipped by an open circuit breaker in the interval")
	c.Counter("failed_cycles", shipper.Metrics.FailedCycles.Swap(0), "count", "Flush cycles that requeued an undelivered batch in the interval")
	c.Counter("unexpected_failures", shipper.Metrics.UnexpectedFailures.Swap(0), "count", "Recovered flush cycle panics in the interval")
	c.Counter("rejected_closed", shipper.Metrics.RejectedClosed.Swap(0), "count", "Records rejected after shutdown in the interval")
	c.Gauge("flush_interval", shipper.cfg.FlushInterval.Milliseconds(), "ms", "Configured time between flush cycles")
	c.Gauge("sink", shipper.sink.Name(), "name", "Sink records are delivered to")
	collection = c.Metrics
	return
}

// Every component with metrics, for a gatherer
func (shipper *Shipper) Collectors() (collectors []metrics.Collector) {
	collectors = []metrics.Collector{
		shipper,
		shipper.queue,
		shipper.breaker,
		shipper.engine,
	}
	return
}
