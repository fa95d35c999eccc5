// Bounded delivery attempts with exponential backoff
package retry

import (
	"context"
	"fmt"
	"logshipper/internal/calc"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"logshipper/internal/record"
	"logshipper/internal/sink"
	"time"

	"github.com/jpillora/backoff"
)

type Option func(*Engine)

// Replaces the backoff sleep (tests)
func WithWait(wait WaitFunc) Option {
	return func(engine *Engine) {
		engine.wait = wait
	}
}

// Creates new retry engine delivering to s
func New(namespace []string, s sink.Sink, cfg Config, opts ...Option) (new *Engine) {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = global.DefaultBackoffFactor
	}
	if cfg.BackoffMax < cfg.BackoffInitial {
		cfg.BackoffMax = cfg.BackoffInitial
	}

	new = &Engine{
		Namespace: append(namespace, global.NSRetry),
		sink:      s,
		cfg:       cfg,
		wait:      sleep,
		latencies: calc.NewWindow(latencySamples),
		Metrics:   &MetricStorage{},
	}
	for _, opt := range opts {
		opt(new)
	}
	return
}

// Fresh schedule per batch
func (engine *Engine) newBackoff() (b *backoff.Backoff) {
	b = &backoff.Backoff{
		Min:    engine.cfg.BackoffInitial,
		Max:    engine.cfg.BackoffMax,
		Factor: engine.cfg.BackoffFactor,
		Jitter: engine.cfg.BackoffJitter,
	}
	return
}

// Delivers batch, retrying failures with backoff. The whole batch is returned as remainder
// when every attempt failed or ctx was cancelled during a wait.
func (engine *Engine) Send(ctx context.Context, batch record.Batch) (result Result) {
	if len(batch) == 0 {
		return
	}

	ctx = logctx.AppendCtxTag(ctx, global.NSRetry)
	schedule := engine.newBackoff()

	for attempt := 1; attempt <= engine.cfg.Attempts; attempt++ {
		result.Attempts = attempt
		engine.Metrics.Attempts.Add(1)

		start := time.Now()
		err := engine.sink.Deliver(ctx, batch)
		elapsed := uint64(time.Since(start).Nanoseconds())
		engine.Metrics.SinkLatency.Add(elapsed)
		engine.latencies.Add(elapsed)
		if err == nil {
			engine.Metrics.Delivered.Add(1)
			engine.Metrics.DeliveredRecs.Add(uint64(len(batch)))
			logctx.LogEvent(ctx, global.VerbosityDebug, global.InfoLog,
				"delivered %d %s record(s) to %s on attempt %d\n", len(batch), batch.Severity(), engine.sink.Name(), attempt)
			result.Remainder = nil
			result.Err = nil
			return
		}

		engine.Metrics.Failures.Add(1)
		result.Err = fmt.Errorf("failed delivery to %s: %w", engine.sink.Name(), err)

		if attempt == engine.cfg.Attempts {
			break
		}

		delay := schedule.Duration()
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"attempt %d/%d: %v (retrying in %s)\n", attempt, engine.cfg.Attempts, result.Err, delay)

		waitStart := time.Now()
		waitErr := engine.wait(ctx, delay)
		engine.Metrics.BackoffTime.Add(uint64(time.Since(waitStart).Nanoseconds()))
		if waitErr != nil {
			result.Err = fmt.Errorf("retry wait interrupted after attempt %d: %w", attempt, waitErr)
			break
		}
	}

	engine.Metrics.Exhausted.Add(1)
	logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
		"giving up on batch of %d %s record(s) after %d attempt(s): %v\n",
		len(batch), batch.Severity(), result.Attempts, result.Err)
	result.Remainder = batch
	return
}

// Context aware sleep
func sleep(ctx context.Context, d time.Duration) (err error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
	}
	return
}
