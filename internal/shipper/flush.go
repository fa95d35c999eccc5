package shipper

import (
	"context"
	"fmt"
	"logshipper/internal/batcher"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"logshipper/internal/record"
	"runtime/debug"
	"time"
)

// Prefix of the record injected after a recovered flush failure
const diagnosticPrefix string = "[LOGSHIPPER-ERROR]"

// Runs one flush cycle and returns the number of records delivered.
// Only one goroutine may flush at a time (the periodic worker, later the shutdown drain).
func (shipper *Shipper) FlushBatch(ctx context.Context) (flushed int) {
	ctx = logctx.AppendCtxTag(ctx, global.NSFlush)
	shipper.Metrics.FlushCycles.Add(1)

	if !shipper.breaker.CanSend() {
		shipper.Metrics.BreakerSkips.Add(1)
		logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
			"circuit breaker open until %s, skipping flush (%d queued)\n",
			shipper.breaker.OpenUntil().Format(time.RFC3339), shipper.queue.Len())
		return
	}

	// Records drained in the current iteration and not yet delivered or requeued
	var inFlight record.Batch

	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in flush cycle: %v\n%s", fatalError, stack)
			shipper.recoverFlush(ctx, inFlight, fatalError)
		}
		shipper.Metrics.FlushedRecords.Add(uint64(flushed))
	}()

	ok := true
	for shipper.breaker.CanSend() && shipper.queue.Len() > 0 && ok && flushed < shipper.cfg.BatchSize {
		inFlight = batcher.DrainHomogeneous(shipper.queue, shipper.cfg.BatchSize)
		if len(inFlight) == 0 {
			return
		}

		result := shipper.engine.Send(ctx, inFlight)
		if len(result.Remainder) == 0 {
			shipper.breaker.OnSuccess()
			flushed += len(inFlight)
			inFlight = nil
			continue
		}

		shipper.requeue(ctx, result.Remainder)
		inFlight = nil
		shipper.Metrics.FailedCycles.Add(1)
		ok = false

		// Cancelled mid-retry: the sink was not judged, breaker unchanged
		if ctx.Err() != nil {
			logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
				"flush cancelled during retry, %d record(s) requeued\n", len(result.Remainder))
			break
		}
		if shipper.breaker.OnFailure() {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"circuit breaker opened after %d consecutive failures, pausing delivery until %s\n",
				shipper.breaker.Failures(), shipper.breaker.OpenUntil().Format(time.RFC3339))
		}
	}

	if flushed > 0 {
		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"flushed %d record(s), %d still queued\n", flushed, shipper.queue.Len())
	}
	return
}

// Puts records back at the head of the queue
func (shipper *Shipper) requeue(ctx context.Context, recs record.Batch) {
	_, evicted := shipper.queue.RequeueAtHead(recs)
	if evicted > 0 {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"queue full while requeueing %d record(s): dropped %d newer record(s)\n", len(recs), evicted)
	}
}

// Unexpected failure path: requeue in-flight records, inject a diagnostic record ahead of them, count a breaker failure
func (shipper *Shipper) recoverFlush(ctx context.Context, inFlight record.Batch, fatalError any) {
	shipper.Metrics.UnexpectedFailures.Add(1)

	if len(inFlight) > 0 {
		shipper.requeue(ctx, inFlight)
	}

	diagnostic := record.New(diagnosticMessage(fatalError), record.Error, time.Now())
	shipper.requeue(ctx, record.Batch{diagnostic})

	if shipper.breaker.OnFailure() {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"circuit breaker opened after unexpected flush failure\n")
	}
}

func diagnosticMessage(fatalError any) (msg string) {
	msg = fmt.Sprintf("%s exception occurred during flush %T %v this may cause duplicated messages",
		diagnosticPrefix, fatalError, fatalError)
	return
}
