package shipper

import (
	"context"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
)

// Stops the flush worker, drains the queue in bounded rounds, then closes the sink.
// Safe to call more than once; only the first call does anything.
// Cancelling ctx abandons the drain early.
func (shipper *Shipper) Shutdown(ctx context.Context) {
	shipper.shutdownOnce.Do(func() {
		shipper.shutdown(ctx)
	})
}

func (shipper *Shipper) shutdown(ctx context.Context) {
	// Keep the caller's cancellation, log under our own tags
	ctx = logctx.WithLogger(ctx, logctx.GetLogger(shipper.ctx))
	ctx = logctx.OverwriteCtxTag(ctx, append(logctx.GetTagList(shipper.ctx), global.NSLifecycle))

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"shutdown started (%d record(s) queued)\n", shipper.queue.Len())

	// Queue only shrinks from here, so every drain round ends
	shipper.closed.Store(true)

	// Cancelling the worker context interrupts any retry backoff in progress
	drain := true
	if !shipper.driver.Stop(shipper.cfg.SchedulerStopWait) {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"flush worker still running after %s, waiting for it to finish\n", shipper.cfg.SchedulerStopWait)
		select {
		case <-shipper.driver.Done():
		case <-ctx.Done():
			// Never drain concurrently with the worker
			drain = false
		}
	}

	if drain {
		shipper.drain(ctx)
	}

	if remaining := shipper.queue.Len(); remaining > 0 {
		logctx.LogEvent(ctx, global.VerbosityNone, global.ErrorLog,
			"queue not fully drained, potential log loss: %d record(s) remaining\n", remaining)
	}

	err := shipper.sink.Close()
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"failed to close sink %s: %v\n", shipper.sink.Name(), err)
	}

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "shutdown complete\n")
}

// Flushes until a cycle delivers nothing, pausing between rounds that leave records queued.
// Stops after the configured number of failed rounds.
func (shipper *Shipper) drain(ctx context.Context) {
	var failedRounds int
	for shipper.queue.Len() > 0 && failedRounds < shipper.cfg.ShutdownMaxRounds {
		for shipper.FlushBatch(ctx) > 0 {
		}

		if shipper.queue.Len() == 0 {
			break
		}
		failedRounds++
		shipper.Metrics.ShutdownRounds.Add(1)
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"drain round %d/%d left %d record(s) queued\n", failedRounds, shipper.cfg.ShutdownMaxRounds, shipper.queue.Len())

		if failedRounds == shipper.cfg.ShutdownMaxRounds {
			break
		}
		err := shipper.pause(ctx, shipper.cfg.ShutdownPause)
		if err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "drain abandoned: %v\n", err)
			return
		}
	}
}
