package metrics

import (
	"context"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"runtime/debug"
	"time"
)

// Anything reporting its metrics for one interval
type Collector interface {
	CollectMetrics(interval time.Duration) []Metric
}

// Periodically saves collector output to a registry
type Gatherer struct {
	Registry   *Registry
	Collectors []Collector
	Interval   time.Duration
	Retention  time.Duration
}

func NewGatherer(collectors []Collector, interval time.Duration, maximumMetricAge time.Duration) (new *Gatherer) {
	new = &Gatherer{
		Registry:   New(),
		Collectors: collectors,
		Interval:   interval,
		Retention:  maximumMetricAge,
	}
	return
}

func (gatherer *Gatherer) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetric)

	lastRun := time.Now()

	ticker := time.NewTicker(gatherer.Interval / 2) // Use polling interval half of desired record interval
	defer ticker.Stop()

	// Ticks since last prune
	var tickCount int

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastRun) >= gatherer.Interval {
				lastRun = now
				gatherer.Collect(ctx, now)
			}

			tickCount++
			if tickCount >= 30 {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0
			}
		}
	}
}

// Collects every component into the time slice for now
func (gatherer *Gatherer) Collect(ctx context.Context, now time.Time) {
	// Record panics and continue on next interval
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in metric collector thread: %v\n%s", fatalError, stack)
		}
	}()

	timeSlice := gatherer.Registry.NewTimeSlice(now, gatherer.Interval)
	for _, collector := range gatherer.Collectors {
		if collector == nil {
			continue
		}
		gatherer.Registry.Add(timeSlice, collector.CollectMetrics(gatherer.Interval))
	}
}
