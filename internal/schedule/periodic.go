// Single-goroutine fixed-rate task driver
package schedule

import (
	"context"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"runtime/debug"
	"sync"
	"time"
)

// Runs a task on a fixed interval from one goroutine. Runs never overlap;
// a run that overshoots the interval delays the next one instead of stacking.
type Periodic struct {
	interval time.Duration
	task     func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool
	runs    uint64
}

// Creates new driver for task every interval
func NewPeriodic(interval time.Duration, task func(ctx context.Context)) (new *Periodic) {
	new = &Periodic{
		interval: interval,
		task:     task,
		done:     make(chan struct{}),
	}
	return
}

func (periodic *Periodic) Interval() (interval time.Duration) {
	interval = periodic.interval
	return
}

// Launches the worker goroutine. First run happens immediately. Later calls are no-ops.
func (periodic *Periodic) Start(ctx context.Context) {
	periodic.mu.Lock()
	defer periodic.mu.Unlock()
	if periodic.started || periodic.stopped {
		return
	}
	periodic.started = true

	ctx, periodic.cancel = context.WithCancel(ctx)
	go periodic.run(ctx)
}

func (periodic *Periodic) run(ctx context.Context) {
	defer close(periodic.done)

	ticker := time.NewTicker(periodic.interval)
	defer ticker.Stop()

	for {
		periodic.invoke(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// Both may be ready, cancellation wins
		if ctx.Err() != nil {
			return
		}
	}
}

// Runs task once, recording panics so the driver keeps its schedule
func (periodic *Periodic) invoke(ctx context.Context) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in periodic worker thread: %v\n%s", fatalError, stack)
		}
	}()

	periodic.mu.Lock()
	periodic.runs++
	periodic.mu.Unlock()

	periodic.task(ctx)
}

// Closed once the worker goroutine has exited
func (periodic *Periodic) Done() (done <-chan struct{}) {
	done = periodic.done
	return
}

// Number of task invocations so far
func (periodic *Periodic) Runs() (runs uint64) {
	periodic.mu.Lock()
	defer periodic.mu.Unlock()
	runs = periodic.runs
	return
}

// Cancels the driver context (interrupting an in-flight run that honours it)
// and waits up to wait for the worker to exit. Reports whether it exited in time.
func (periodic *Periodic) Stop(wait time.Duration) (exited bool) {
	periodic.mu.Lock()
	periodic.stopped = true
	started := periodic.started
	if periodic.cancel != nil {
		periodic.cancel()
	}
	periodic.mu.Unlock()

	if !started {
		exited = true
		return
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-periodic.done:
		exited = true
	case <-timer.C:
	}
	return
}
