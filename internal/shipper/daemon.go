package shipper

import (
	"context"
	"fmt"
	"logshipper/internal/externalio/file"
	"logshipper/internal/externalio/server"
	"logshipper/internal/global"
	"logshipper/internal/lifecycle"
	"logshipper/internal/logctx"
	"logshipper/internal/metrics"
	"logshipper/internal/record"
	"logshipper/internal/sink"
	"net/http"
	"os"
	"sync"
	"time"
)

// Long running process: line inputs feed one shipper, metrics are gathered and optionally served
type Daemon struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	wg         sync.WaitGroup
	inputWg    sync.WaitGroup
	inputsDone chan struct{}

	Shipper          *Shipper
	Inputs           []*file.InModule
	metricsCollector *metrics.Gatherer
	MetricServer     *http.Server

	shutdownOnce sync.Once
}

// Create new daemon instance
func NewDaemon(cfg Config) (new *Daemon) {
	ctx, cancel := context.WithCancel(context.Background())
	new = &Daemon{
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		inputsDone: make(chan struct{}),
	}
	return
}

// Starts the shipper, inputs, and metric workers in background. Uses the configured sink unless out is given.
// Gracefully shuts down if a startup error is encountered.
func (daemon *Daemon) Start(globalCtx context.Context, out sink.Sink) (err error) {
	// Daemon context from NewDaemon carries the caller's logger from here on
	daemon.ctx = logctx.WithLogger(daemon.ctx, logctx.GetLogger(globalCtx))
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.NSShip)

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	daemon.cfg.setDefaults()

	global.Hostname, err = os.Hostname()
	if err != nil {
		err = fmt.Errorf("failed to determine local hostname: %w", err)
		return
	}
	global.PID = os.Getpid()

	defaultSeverity, err := record.ParseSeverity(daemon.cfg.DefaultSeverity)
	if err != nil {
		err = fmt.Errorf("invalid default severity: %w", err)
		return
	}

	if out == nil {
		out, err = NewSink(daemon.cfg.Sink)
		if err != nil {
			return
		}
	}

	// Not tied to the daemon context; the worker stops in Shipper.Shutdown
	shipperCtx := logctx.WithLogger(context.Background(), logctx.GetLogger(globalCtx))
	daemon.Shipper, err = New(shipperCtx, daemon.cfg.Pipeline, out)
	if err != nil {
		out.Close()
		err = fmt.Errorf("failed to create shipper: %w", err)
		return
	}
	daemon.Shipper.Start()

	// Line inputs
	for _, path := range daemon.cfg.InputPaths {
		var input *file.InModule
		input, err = file.NewInput(logctx.GetTagList(daemon.ctx), path, defaultSeverity, daemon.Shipper.Enqueue)
		if err != nil {
			err = fmt.Errorf("failed adding input '%s': %w", path, err)
			daemon.Shutdown()
			return
		}
		daemon.Inputs = append(daemon.Inputs, input)
	}
	for _, input := range daemon.Inputs {
		inputCtx := logctx.OverwriteCtxTag(daemon.ctx, input.Namespace)
		daemon.inputWg.Add(1)
		go func(input *file.InModule) {
			defer daemon.inputWg.Done()
			rerr := input.Run(inputCtx)
			if rerr != nil {
				logctx.LogEvent(inputCtx, global.VerbosityStandard, global.ErrorLog, "input stopped: %v\n", rerr)
			}
		}(input)
	}
	go func() {
		daemon.inputWg.Wait()
		close(daemon.inputsDone)
	}()

	// Metrics Collector
	collectors := daemon.Shipper.Collectors()
	for _, input := range daemon.Inputs {
		collectors = append(collectors, input)
	}
	daemon.metricsCollector = metrics.NewGatherer(collectors,
		daemon.cfg.MetricCollectionInterval,
		daemon.cfg.MetricMaxAge)
	workerCtx := daemon.ctx
	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		daemon.metricsCollector.Run(workerCtx)
	}()

	// Metric Server
	if daemon.cfg.MetricQueryServerEnabled {
		serverCtx := logctx.AppendCtxTag(daemon.ctx, global.NSMetric)
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetricSrv)

		daemon.MetricServer = server.SetupListener(serverCtx,
			daemon.cfg.MetricQueryServerPort,
			daemon.metricsCollector.Registry.Search,
			daemon.metricsCollector.Registry.Latest,
			daemon.Health)
		daemon.wg.Add(1)
		go func() {
			defer daemon.wg.Done()
			server.Start(serverCtx, daemon.MetricServer)
		}()
	}

	err = lifecycle.NotifyReady(daemon.ctx)
	if err != nil {
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog, "systemd notify ready failed: %v\n", err)
		err = nil
	}

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Startup complete.\n")
	return
}

// Blocks until shutdown, or until every configured input reached its end
func (daemon *Daemon) Run() {
	if len(daemon.Inputs) == 0 {
		<-daemon.ctx.Done()
		return
	}
	select {
	case <-daemon.ctx.Done():
	case <-daemon.inputsDone:
		logctx.LogEvent(daemon.ctx, global.VerbosityProgress, global.InfoLog, "all inputs finished\n")
	}
}

// Current pipeline health for the query server
func (daemon *Daemon) Health() (report server.Health) {
	report = server.Health{
		Status:     "ok",
		Shipper:    daemon.Shipper.ID,
		Sink:       daemon.Shipper.SinkName(),
		Breaker:    daemon.Shipper.BreakerState().String(),
		QueueDepth: daemon.Shipper.QueueDepth(),
		QueueCap:   daemon.cfg.Pipeline.QueueCapacity,
	}
	if report.Breaker != "closed" {
		report.Status = "degraded"
	}
	return
}

// Gracefully stops inputs, drains the shipper, then stops metric workers
func (daemon *Daemon) Shutdown() {
	daemon.shutdownOnce.Do(daemon.shutdown)
}

func (daemon *Daemon) shutdown() {
	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Daemon shutdown started...\n")

	err := lifecycle.NotifyStopping(daemon.ctx)
	if err != nil {
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog, "systemd notify stopping failed: %v\n", err)
	}

	// Stop metric server
	if daemon.MetricServer != nil {
		serverCtx, cancel := context.WithTimeout(context.Background(), global.HTTPWriteTimeout)
		err := daemon.MetricServer.Shutdown(serverCtx)
		cancel()
		if err != nil && err != http.ErrServerClosed {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"metric HTTP server did not shutdown gracefully: %v\n", err)
		}
	}

	// Stop inputs (daemon context ends their reads) before draining so the queue stops growing
	daemon.cancel()
	inputsStopped := make(chan struct{})
	go func() {
		daemon.inputWg.Wait()
		close(inputsStopped)
	}()
	select {
	case <-inputsStopped:
	case <-time.After(global.DefaultSchedulerStopWait):
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"inputs did not stop within %s\n", global.DefaultSchedulerStopWait)
	}

	// Drain is bounded by the pipeline settings
	if daemon.Shipper != nil {
		daemon.Shipper.Shutdown(logctx.WithLogger(context.Background(), logctx.GetLogger(daemon.ctx)))
	}

	// Wait for metric workers
	done := make(chan struct{})
	go func() {
		daemon.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
			"Daemon shutdown completed successfully\n")
	case <-time.After(global.DefaultSchedulerStopWait):
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"Timeout: daemon workers did not stop within %s\n", global.DefaultSchedulerStopWait)
	}
}
