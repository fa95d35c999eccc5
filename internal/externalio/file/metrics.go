package file

import (
	"logshipper/internal/metrics"
	"time"
)

func (mod *InModule) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	c := metrics.NewCollection(mod.Namespace, interval)
	c.Counter("lines_read", mod.metrics.LinesRead.Swap(0), "count", "Total lines read from source in the interval")
	c.Counter("accepted", mod.metrics.Accepted.Swap(0), "count", "Lines accepted by the pipeline in the interval")
	c.Counter("dropped", mod.metrics.Dropped.Swap(0), "count", "Lines dropped because the pipeline was full in the interval")
	collection = c.Metrics
	return
}
