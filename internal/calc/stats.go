// Basic calculation functions
package calc

import (
	"slices"
	"sync"
)

type number interface {
	~uint64 | ~int64 | ~float64
}

// Calculates mean of supplied values after removing percentage of extreme values from each end (post-sort)
func TrimmedMean[T number](values []T, trimPercent float64) (mean T) {
	if trimPercent < 0 {
		trimPercent = 0
	}

	n := len(values)
	if n == 0 {
		return
	}

	nums := slices.Clone(values)
	slices.Sort(nums)

	// How many values to drop from each end
	trimCount := int(float64(n) * trimPercent)
	if trimCount*2 >= n {
		trimCount = (n - 1) / 2
	}
	kept := nums[trimCount : n-trimCount]

	var sum T
	for _, v := range kept {
		sum += v
	}
	mean = sum / T(len(kept))
	return
}

// Fixed size sample buffer. Once full, new samples overwrite the oldest.
type Window struct {
	mu      sync.Mutex
	samples []uint64
	next    int
	full    bool
}

func NewWindow(size int) (new *Window) {
	if size < 1 {
		size = 1
	}
	new = &Window{samples: make([]uint64, size)}
	return
}

func (window *Window) Add(sample uint64) {
	window.mu.Lock()
	defer window.mu.Unlock()

	window.samples[window.next] = sample
	window.next++
	if window.next == len(window.samples) {
		window.next = 0
		window.full = true
	}
}

// Trimmed mean of the buffered samples; empties the window
func (window *Window) Drain(trimPercent float64) (mean uint64, count int) {
	window.mu.Lock()
	count = window.next
	if window.full {
		count = len(window.samples)
	}
	current := slices.Clone(window.samples[:count])
	window.next = 0
	window.full = false
	window.mu.Unlock()

	mean = TrimmedMean(current, trimPercent)
	return
}
