package server

import (
	"context"
	"encoding/json"
	"logshipper/internal/global"
	"logshipper/internal/metrics"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandleData(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "data default times", path: global.DataPath + "?name=test", wantStatus: http.StatusOK},
		{name: "data invalid starttime", path: global.DataPath + "?starttime=badtime", wantStatus: http.StatusBadRequest},
		{name: "data invalid triggers default relative start time", path: global.DataPath + "?starttime=-5w", wantStatus: http.StatusOK},
		{name: "data invalid relative end time", path: global.DataPath + "?endtime=+2y", wantStatus: http.StatusBadRequest},
		{name: "data relative start time past", path: global.DataPath + "?starttime=-5m", wantStatus: http.StatusOK},
		{name: "data relative start time future", path: global.DataPath + "?starttime=%2B15m", wantStatus: http.StatusBadRequest},
		{name: "data absolute start time", path: global.DataPath + "?starttime=2001-01-02T01:02:03.001Z", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			handleData(ctx, mockDataSearcher(nil), rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		query         string
		expectedStart time.Time
		expectedEnd   time.Time
		expectedErr   bool
	}{
		{name: "defaults", query: "", expectedStart: now.Add(-time.Minute), expectedEnd: now},
		{name: "relative past", query: "starttime=-10m", expectedStart: now.Add(-10 * time.Minute), expectedEnd: now},
		{name: "unparsable relative falls back", query: "starttime=-5w", expectedStart: now.Add(-time.Minute), expectedEnd: now},
		{name: "future relative", query: "starttime=%2B1m", expectedErr: true},
		{
			name:          "absolute range",
			query:         "starttime=2026-01-01T10:00:00Z&endtime=2026-01-01T11:00:00Z",
			expectedStart: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC),
		},
		{name: "bad end", query: "endtime=yesterday", expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, global.DataPath+"?"+tt.query, nil)
			start, end, err := parseTimeRange(req, now)
			if err != nil && !tt.expectedErr {
				t.Fatalf("expected no error, but got '%v'", err)
			}
			if err == nil && tt.expectedErr {
				t.Fatalf("expected error, but got no error")
			}
			if tt.expectedErr {
				return
			}
			if !start.Equal(tt.expectedStart) {
				t.Fatalf("expected start %v, got %v", tt.expectedStart, start)
			}
			if !end.Equal(tt.expectedEnd) {
				t.Fatalf("expected end %v, got %v", tt.expectedEnd, end)
			}
		})
	}
}

func TestHandleLatest(t *testing.T) {
	ctx := context.Background()
	results := []metrics.Metric{
		{
			Name:      "depth",
			Namespace: []string{"Shipper", "Queue"},
			Value:     metrics.MetricValue{Raw: uint64(4), Unit: "count", Interval: time.Second},
			Type:      metrics.Gauge,
			Timestamp: time.Now(),
		},
	}

	var gotNamespace []string
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, global.LatestPath+"Shipper/Queue", nil)
	handleLatest(ctx, mockLatestSearcher(results, &gotNamespace), rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if len(gotNamespace) != 2 || gotNamespace[0] != "Shipper" || gotNamespace[1] != "Queue" {
		t.Fatalf("expected namespace [Shipper Queue], got %v", gotNamespace)
	}

	var decoded []metrics.JMetric
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "depth" {
		t.Fatalf("expected one depth metric, got %+v", decoded)
	}
}

func TestRequestNamespace(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "root", path: global.DataPath, expected: nil},
		{name: "single", path: global.DataPath + "Shipper", expected: []string{"Shipper"}},
		{name: "trailing slash", path: global.DataPath + "Shipper/Queue/", expected: []string{"Shipper", "Queue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := requestNamespace(tt.path, global.DataPath)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}
