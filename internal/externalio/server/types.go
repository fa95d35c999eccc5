package server

import (
	"context"
	"logshipper/internal/metrics"
	"time"
)

type httpLogWriter struct {
	ctx context.Context
}

type Jerror struct {
	Msg string `json:"error"`
}

// Pipeline health snapshot served on the health path
type Health struct {
	Status     string `json:"status"` // ok, degraded
	Shipper    string `json:"shipper"`
	Sink       string `json:"sink"`
	Breaker    string `json:"breaker"`
	QueueDepth int    `json:"queueDepth"`
	QueueCap   int    `json:"queueCapacity"`
}

type DataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metrics.Metric
type LatestSearcher func(namespacePrefix []string) []metrics.Metric
type HealthReporter func() (report Health)
