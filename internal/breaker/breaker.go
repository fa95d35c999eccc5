// Fail-fast guard suppressing sink delivery after repeated failures
//
// A Breaker is owned by the single flush worker. CanSend, OnSuccess, and OnFailure
// must only be called from that goroutine; they take no lock. Other goroutines may
// only read the atomic mirrors through State, Failures, and CollectMetrics.
package breaker

import (
	"logshipper/internal/metrics"
	"sync/atomic"
	"time"
)

type State int32

const (
	Closed State = iota
	Open
	HalfOpen
)

func (state State) String() string {
	switch state {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Breaker struct {
	Namespace []string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	// Single-owner state
	state     State
	failures  int
	openUntil time.Time

	// Read-only mirrors for other goroutines
	stateMirror    atomic.Int32
	failuresMirror atomic.Int64
	trips          atomic.Uint64
}

type Option func(*Breaker)

// Replaces the wall clock (tests)
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// Creates new closed breaker opening after threshold consecutive failures for cooldown
func New(namespace []string, threshold int, cooldown time.Duration, opts ...Option) (new *Breaker) {
	if threshold < 1 {
		threshold = 1
	}
	new = &Breaker{
		Namespace: namespace,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
		state:     Closed,
	}
	for _, opt := range opts {
		opt(new)
	}
	return
}

// Reports whether a delivery may be attempted. An expired open breaker moves to half-open and permits one probe.
func (b *Breaker) CanSend() (permitted bool) {
	if b.state == Open && !b.now().Before(b.openUntil) {
		b.setState(HalfOpen)
	}
	permitted = b.state != Open
	return
}

// Resets failure count and closes breaker
func (b *Breaker) OnSuccess() {
	b.failures = 0
	b.failuresMirror.Store(0)
	b.setState(Closed)
}

// Counts a failure and opens breaker once threshold is reached
func (b *Breaker) OnFailure() (opened bool) {
	b.failures++
	b.failuresMirror.Store(int64(b.failures))
	if b.failures >= b.threshold {
		b.openUntil = b.now().Add(b.cooldown)
		b.setState(Open)
		b.trips.Add(1)
		opened = true
	}
	return
}

// Time the current open period ends (zero when never opened)
func (b *Breaker) OpenUntil() (until time.Time) {
	until = b.openUntil
	return
}

func (b *Breaker) setState(state State) {
	b.state = state
	b.stateMirror.Store(int32(state))
}

// Current state, safe from any goroutine
func (b *Breaker) State() (state State) {
	state = State(b.stateMirror.Load())
	return
}

// Consecutive failure count, safe from any goroutine
func (b *Breaker) Failures() (count int) {
	count = int(b.failuresMirror.Load())
	return
}

func (b *Breaker) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	c := metrics.NewCollection(b.Namespace, interval)
	c.Gauge("state", b.State().String(), "state", "Current circuit breaker state")
	c.Gauge("consecutive_failures", uint64(b.failuresMirror.Load()), "count", "Consecutive failed flush attempts")
	c.Counter("trips", b.trips.Swap(0), "count", "Times the breaker opened in the interval")
	collection = c.Metrics
	return
}
