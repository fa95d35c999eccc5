package lifecycle

import (
	"context"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

type DaemonLike interface {
	Shutdown()
}

// Signals that start a graceful shutdown
var shutdownSignals = []os.Signal{unix.SIGINT, unix.SIGQUIT, unix.SIGTERM, unix.SIGHUP}

// Handles incoming signals from external sources.
// The first shutdown signal drains and stops the daemon; the handler returns once shutdown completes
// or when ctx is done.
func SignalHandler(ctx context.Context, daemonManager DaemonLike) {
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, shutdownSignals...)
	defer signal.Stop(sigChan)

	var sig os.Signal
	select {
	case <-ctx.Done():
		return
	case sig = <-sigChan:
	}
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "Received signal: %v\n", sig)

	// Repeated signals during the drain are only reported
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		for {
			select {
			case <-finished:
				return
			case <-ctx.Done():
				return
			case again := <-sigChan:
				logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
					"Received signal %v while shutting down, still draining queue\n", again)
			}
		}
	}()

	err := NotifyStatus(ctx, "Draining log queue")
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify status failed: %v\n", err)
	}

	// Initiate daemon shutdown
	daemonManager.Shutdown()

	logger := logctx.GetLogger(ctx)
	if logger != nil {
		logger.Wake()
	}
}
