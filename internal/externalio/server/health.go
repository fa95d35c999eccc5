package server

import (
	"context"
	"net/http"
)

// Reports pipeline health; degraded (503) while the breaker is not closed
func handleHealth(baseCtx context.Context, health HealthReporter, serverResponder http.ResponseWriter) {
	report := health()
	if report.Status != "ok" {
		serverResponder.Header().Set("Content-Type", "application/json")
		serverResponder.WriteHeader(http.StatusServiceUnavailable)
	}
	jResp(baseCtx, serverResponder, report)
}
