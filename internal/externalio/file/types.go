package file

import (
	"io"
	"logshipper/internal/record"
	"sync"
	"sync/atomic"
)

// Append-only line file sink
type OutModule struct {
	mu   sync.Mutex
	path string
	sink io.WriteCloser
}

// Line source feeding the pipeline
type InModule struct {
	Namespace       []string
	path            string
	source          io.ReadCloser
	defaultSeverity record.Severity
	outbox          func(record.Record) bool
	metrics         MetricStorage
}

type MetricStorage struct {
	LinesRead atomic.Uint64 // number of lines read from source
	Accepted  atomic.Uint64 // lines accepted by the pipeline
	Dropped   atomic.Uint64 // lines the pipeline refused (queue full)
}
