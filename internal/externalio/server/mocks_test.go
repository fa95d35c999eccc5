package server

import (
	"logshipper/internal/metrics"
	"time"
)

func mockDataSearcher(results []metrics.Metric) DataSearcher {
	return func(name string, ns []string, start, end time.Time) []metrics.Metric {
		return results
	}
}

func mockLatestSearcher(results []metrics.Metric, gotNamespace *[]string) LatestSearcher {
	return func(ns []string) []metrics.Metric {
		if gotNamespace != nil {
			*gotNamespace = ns
		}
		return results
	}
}

func mockHealth(status string) HealthReporter {
	return func() Health {
		return Health{Status: status, Sink: "memory", Breaker: "closed", QueueDepth: 3, QueueCap: 10}
	}
}
