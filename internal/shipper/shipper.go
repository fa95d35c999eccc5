// Bounded asynchronous log shipping pipeline with batching, retry, and circuit breaking
package shipper

import (
	"context"
	"fmt"
	"logshipper/internal/breaker"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"logshipper/internal/queue/deque"
	"logshipper/internal/record"
	"logshipper/internal/retry"
	"logshipper/internal/schedule"
	"logshipper/internal/sink"
	"time"

	"github.com/google/uuid"
)

// Creates new shipper delivering to s. Nothing is flushed until Start.
func New(ctx context.Context, cfg Pipeline, s sink.Sink, opts ...Option) (new *Shipper, err error) {
	if s == nil {
		err = fmt.Errorf("sink is required")
		return
	}
	err = cfg.Validate()
	if err != nil {
		return
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx = logctx.AppendCtxTag(ctx, global.NSShip)

	new = &Shipper{
		Namespace: logctx.GetTagList(ctx),
		ID:        uuid.NewString(),
		cfg:       cfg,
		ctx:       ctx,
		sink:      s,
		pause:     o.pause,
		Metrics:   &MetricStorage{},
	}

	new.queue, err = deque.New(ctx, cfg.QueueCapacity)
	if err != nil {
		err = fmt.Errorf("failed to create queue: %w", err)
		return
	}

	var breakerOpts []breaker.Option
	if o.clock != nil {
		breakerOpts = append(breakerOpts, breaker.WithClock(o.clock))
	}
	new.breaker = breaker.New(append(logctx.GetTagList(ctx), global.NSBreaker),
		cfg.BreakerThreshold, cfg.BreakerCooldown, breakerOpts...)

	var retryOpts []retry.Option
	if o.wait != nil {
		retryOpts = append(retryOpts, retry.WithWait(o.wait))
	}
	new.engine = retry.New(logctx.GetTagList(ctx), s, cfg.Retry, retryOpts...)

	if new.pause == nil {
		new.pause = pauseFor
	}

	new.driver = schedule.NewPeriodic(cfg.FlushInterval, func(workerCtx context.Context) {
		new.FlushBatch(workerCtx)
	})

	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"created shipper %s (sink %s, capacity %d, batch size %d, interval %s)\n",
		new.ID, s.Name(), cfg.QueueCapacity, cfg.BatchSize, cfg.FlushInterval)
	return
}

// Adds a record for delivery. Never blocks; returns false when the record was dropped.
func (shipper *Shipper) Enqueue(rec record.Record) (accepted bool) {
	if shipper.closed.Load() {
		shipper.Metrics.RejectedClosed.Add(1)
		return
	}
	accepted = shipper.queue.Push(rec)
	return
}

// Convenience wrapper building the record
func (shipper *Shipper) Log(message string, severity record.Severity, timestamp time.Time) (accepted bool) {
	accepted = shipper.Enqueue(record.New(message, severity, timestamp))
	return
}

// Starts the periodic flush worker. First flush runs immediately.
func (shipper *Shipper) Start() {
	shipper.startOnce.Do(func() {
		logctx.LogEvent(shipper.ctx, global.VerbosityStandard, global.InfoLog,
			"flush worker starting (every %s)\n", shipper.cfg.FlushInterval)
		shipper.driver.Start(logctx.AppendCtxTag(shipper.ctx, global.NSWorker))
	})
}

// Records currently queued
func (shipper *Shipper) QueueDepth() (depth int) {
	depth = shipper.queue.Len()
	return
}

// Configured interval between flush cycles
func (shipper *Shipper) FlushInterval() (interval time.Duration) {
	interval = shipper.cfg.FlushInterval
	return
}

// Current circuit breaker state
func (shipper *Shipper) BreakerState() (state breaker.State) {
	state = shipper.breaker.State()
	return
}

// Name of the sink records are delivered to
func (shipper *Shipper) SinkName() (name string) {
	name = shipper.sink.Name()
	return
}

// Context aware sleep
func pauseFor(ctx context.Context, d time.Duration) (err error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
	}
	return
}
