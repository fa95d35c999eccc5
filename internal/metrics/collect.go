package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Starts a collection for one component namespace
func NewCollection(namespace []string, interval time.Duration) (collection *Collection) {
	collection = &Collection{
		Namespace: namespace,
		Interval:  interval,
		Recorded:  time.Now(),
	}
	return
}

func (collection *Collection) add(name string, raw any, unit string, metricType MetricType, description string) {
	collection.Metrics = append(collection.Metrics, Metric{
		Name:        name,
		Description: description,
		Namespace:   collection.Namespace,
		Type:        metricType,
		Timestamp:   collection.Recorded,
		Value: MetricValue{
			Raw:      raw,
			Unit:     unit,
			Interval: collection.Interval,
		},
	})
}

// Records a point-in-time value
func (collection *Collection) Gauge(name string, raw any, unit string, description string) {
	collection.add(name, raw, unit, Gauge, description)
}

// Records a per-interval count
func (collection *Collection) Counter(name string, raw any, unit string, description string) {
	collection.add(name, raw, unit, Counter, description)
}

// Converts internal metric type to export (JSON) metric
func (inMetric Metric) Convert() (outMetric JMetric) {
	outMetric.Name = inMetric.Name
	outMetric.Description = inMetric.Description
	outMetric.Value.Unit = inMetric.Value.Unit

	outMetric.Namespace = strings.Join(inMetric.Namespace, "/")
	outMetric.Type = string(inMetric.Type)
	outMetric.Value.Interval = inMetric.Value.Interval.String()

	outMetric.Timestamp = inMetric.Timestamp.Format(time.RFC3339Nano)
	outMetric.Value.Raw = fmt.Sprintf("%v", inMetric.Value.Raw)
	return
}
