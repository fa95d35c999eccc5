package slogship

import (
	"context"
	"log/slog"
	"logshipper/internal/record"
	"sync"
	"testing"
	"time"
)

type mockEnqueuer struct {
	mu      sync.Mutex
	records []record.Record
	reject  bool
}

func (mock *mockEnqueuer) Enqueue(rec record.Record) bool {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.reject {
		return false
	}
	mock.records = append(mock.records, rec)
	return true
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name     string
		level    slog.Level
		expected record.Severity
	}{
		{name: "below debug", level: slog.LevelDebug - 4, expected: record.Trace},
		{name: "debug", level: slog.LevelDebug, expected: record.Debug},
		{name: "info", level: slog.LevelInfo, expected: record.Info},
		{name: "between info and warn", level: slog.LevelInfo + 2, expected: record.Info},
		{name: "warn", level: slog.LevelWarn, expected: record.Warn},
		{name: "error", level: slog.LevelError, expected: record.Error},
		{name: "above error", level: slog.LevelError + 4, expected: record.Fatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Severity(tt.level); got != tt.expected {
				t.Fatalf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		log      func(logger *slog.Logger)
		expected string
		severity record.Severity
	}{
		{
			name:     "plain message",
			log:      func(logger *slog.Logger) { logger.Info("started") },
			expected: "started",
			severity: record.Info,
		},
		{
			name:     "attributes",
			log:      func(logger *slog.Logger) { logger.Warn("slow", "ms", 250, "path", "/x y") },
			expected: `slow ms=250 path="/x y"`,
			severity: record.Warn,
		},
		{
			name:     "with attrs and group",
			log:      func(logger *slog.Logger) { logger.With("svc", "api").WithGroup("req").Error("failed", "id", 7) },
			expected: "failed svc=api req.id=7",
			severity: record.Error,
		},
		{
			name:     "nested group attr",
			log:      func(logger *slog.Logger) { logger.Info("done", slog.Group("db", "rows", 3)) },
			expected: "done db.rows=3",
			severity: record.Info,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockEnqueuer{}
			logger := slog.New(NewHandler(mock, nil))

			tt.log(logger)

			if len(mock.records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(mock.records))
			}
			got := mock.records[0]
			if got.Message != tt.expected {
				t.Fatalf("expected message %q, got %q", tt.expected, got.Message)
			}
			if got.Severity != tt.severity {
				t.Fatalf("expected severity %s, got %s", tt.severity, got.Severity)
			}
			if got.Timestamp.IsZero() {
				t.Fatalf("expected timestamp to be set")
			}
		})
	}
}

func TestHandler_LevelFilter(t *testing.T) {
	mock := &mockEnqueuer{}
	logger := slog.New(NewHandler(mock, &Options{Level: slog.LevelWarn}))

	logger.Info("ignored")
	logger.Debug("ignored")
	logger.Warn("kept")

	if len(mock.records) != 1 || mock.records[0].Message != "kept" {
		t.Fatalf("expected only the warn record, got %+v", mock.records)
	}
}

func TestHandler_DroppedCount(t *testing.T) {
	mock := &mockEnqueuer{reject: true}
	handler := NewHandler(mock, nil)
	logger := slog.New(handler).With("k", "v")

	logger.Info("one")
	logger.Info("two")

	if got := handler.Dropped(); got != 2 {
		t.Fatalf("expected 2 dropped, got %d", got)
	}
}

func TestHandler_KeepsEventTime(t *testing.T) {
	mock := &mockEnqueuer{}
	handler := NewHandler(mock, nil)

	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelError, "boom", 0)
	if err := handler.Handle(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.records[0].Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp %v, got %v", ts, mock.records[0].Timestamp)
	}
}
