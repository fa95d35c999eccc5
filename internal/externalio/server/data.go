package server

import (
	"context"
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/metrics"
	"net/http"
	"strings"
	"time"
)

// Handles metric search requests based on time for data
func handleData(baseCtx context.Context, search DataSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := requestNamespace(clientRequest.URL.Path, global.DataPath)
	reqName := clientRequest.FormValue("name")

	reqStartTime, reqEndTime, err := parseTimeRange(clientRequest, time.Now())
	if err != nil {
		serverResponder.WriteHeader(http.StatusBadRequest)
		jResp(baseCtx, serverResponder, Jerror{Msg: err.Error()})
		return
	}

	// Query internal metric registry
	rawResults := search(reqName, reqNamespace, reqStartTime, reqEndTime)
	respondMetrics(baseCtx, serverResponder, rawResults)
}

// Handles requests for the most recent value of each metric under a namespace
func handleLatest(baseCtx context.Context, latest LatestSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := requestNamespace(clientRequest.URL.Path, global.LatestPath)
	respondMetrics(baseCtx, serverResponder, latest(reqNamespace))
}

func respondMetrics(ctx context.Context, serverResponder http.ResponseWriter, rawResults []metrics.Metric) {
	var results []metrics.JMetric
	for _, rawResult := range rawResults {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(ctx, serverResponder, Jerror{Msg: "Search returned no results"})
	} else {
		jResp(ctx, serverResponder, results)
	}
}

// Namespace elements following the handler path. Empty path means all namespaces.
func requestNamespace(urlPath string, handlerPath string) (namespace []string) {
	raw := strings.Trim(strings.TrimPrefix(urlPath, handlerPath), "/")
	if raw == "" {
		return
	}
	namespace = strings.Split(raw, "/")
	return
}

// Reads starttime/endtime query values.
// Start: RFC3339 or a past relative duration (-5m), default last minute; an unparsable relative value falls back to the default.
// End: RFC3339 or "now" (default).
func parseTimeRange(clientRequest *http.Request, now time.Time) (start, end time.Time, err error) {
	start = now.Add(-1 * time.Minute)
	end = now

	rawStartTime := clientRequest.FormValue("starttime")
	switch {
	case rawStartTime == "":
	case rawStartTime[0] == '-' || rawStartTime[0] == '+':
		dur, perr := time.ParseDuration(rawStartTime)
		if perr != nil {
			break
		}
		if dur > 0 {
			err = fmt.Errorf("start time cannot be in the future")
			return
		}
		start = now.Add(dur)
	default:
		start, err = time.Parse(time.RFC3339Nano, rawStartTime)
		if err != nil {
			err = fmt.Errorf("invalid start time: %w", err)
			return
		}
	}

	rawEndTime := clientRequest.FormValue("endtime")
	if rawEndTime != "now" && rawEndTime != "" {
		end, err = time.Parse(time.RFC3339Nano, rawEndTime)
		if err != nil {
			err = fmt.Errorf("invalid end time: %w", err)
			return
		}
	}
	return
}
