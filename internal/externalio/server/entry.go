// HTTP server to expose querying of metric data and pipeline health to other programs only on the local system
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"logshipper/internal/network"
	"net/http"
	"strconv"
	"strings"
)

type endpointIndex struct {
	Data   string `json:"data"`
	Latest string `json:"latest"`
	Health string `json:"health"`
}

// Sets up HTTP listener configuration for metric querying
func SetupListener(ctx context.Context, port int, search DataSearcher, latest LatestSearcher, health HealthReporter) (server *http.Server) {
	requestMultiplexer := http.NewServeMux()

	// Root endpoint list
	requestMultiplexer.HandleFunc("/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if clientRequest.URL.Path != "/" {
			serverResponder.WriteHeader(http.StatusNotFound)
			return
		}
		jResp(ctx, serverResponder, endpointIndex{
			Data:   global.DataPath + "<namespace>?name=&starttime=&endtime=",
			Latest: global.LatestPath + "<namespace>",
			Health: global.HealthPath,
		})
	})

	// Metric Data Requests
	requestMultiplexer.HandleFunc(global.DataPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleData(ctx, search, serverResponder, clientRequest)
	})

	// Latest Metric Requests
	requestMultiplexer.HandleFunc(global.LatestPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleLatest(ctx, latest, serverResponder, clientRequest)
	})

	// Health Requests
	requestMultiplexer.HandleFunc(global.HealthPath, func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleHealth(ctx, health, serverResponder)
	})

	// Server configuration
	server = &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      requestMultiplexer,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     log.New(httpLogWriter{ctx: ctx}, "", 0),
	}
	return
}

// Starts the metric HTTP server and waits for requests
func Start(ctx context.Context, server *http.Server) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Metric query server starting on %s (http://%s/)\n",
		server.Addr,
		server.Addr,
	)
	listener, err := network.ListenReusable(ctx, server.Addr)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Metric query server failed to start: %v\n", err)
		return
	}
	err = server.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Metric query server failed to start: %v\n", err)
	}
}

// Encodes JSON and sends as response body. Status defaults to 200 unless already written.
func jResp(ctx context.Context, serverResponder http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(content); err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling metric results: %v\n", err)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.Write(buf.Bytes())
}

// Logs HTTP server errors to internal program buffer (via context logger)
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return
	}
	logctx.LogEvent(
		logWriter.ctx,
		global.VerbosityStandard,
		global.ErrorLog,
		"%s\n", strings.TrimSpace(string(p)),
	)
	return
}
