// Central registry for storing time-based metrics and their associated data
package metrics

import (
	"sort"
	"strings"
	"time"
)

// Creates new metric registry storage
func New() (new *Registry) {
	new = &Registry{
		metrics: make(map[time.Time]map[string]map[string]Metric),
	}
	return
}

// Setup metrics map for this collection interval
func (registry *Registry) NewTimeSlice(now time.Time, interval time.Duration) (timeSlice time.Time) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	timeSlice = now
	if interval > 0 {
		// Round down for this interval
		timeSlice = now.Truncate(interval)
	}
	if registry.metrics[timeSlice] == nil {
		registry.metrics[timeSlice] = make(map[string]map[string]Metric)
	}
	return
}

// Adds batch of metrics to a time slice
func (registry *Registry) Add(timeSlice time.Time, metrics []Metric) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.metrics[timeSlice] == nil {
		return
	}

	for _, metric := range metrics {
		namespace := strings.Join(metric.Namespace, "/")
		if registry.metrics[timeSlice][namespace] == nil {
			registry.metrics[timeSlice][namespace] = make(map[string]Metric)
		}
		registry.metrics[timeSlice][namespace][metric.Name] = metric
	}
}

// Deletes metrics in registry older than max allowed metric age based on supplied current time
func (registry *Registry) Prune(currentTime time.Time, maxAge time.Duration) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for timeSlice := range registry.metrics {
		if currentTime.Sub(timeSlice) > maxAge {
			delete(registry.metrics, timeSlice)
		}
	}
}

// Supports exact match or prefix match. Empty query (or a single empty element) matches all.
func matchesNamespace(metricNS, queryNS []string) (matches bool) {
	if len(queryNS) == 0 || (len(queryNS) == 1 && queryNS[0] == "") {
		matches = true
		return
	}
	if len(metricNS) < len(queryNS) {
		return
	}
	for i := 0; i < len(queryNS); i++ {
		if queryNS[i] == "" {
			continue
		}
		if metricNS[i] != queryNS[i] {
			return
		}
	}
	matches = true
	return
}

// Returns all metrics matching given name and namespace prefix, oldest slice first.
// Empty name matches all names; zero start/end leaves that side of the window open.
func (registry *Registry) Search(name string, namespacePrefix []string, start, end time.Time) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	var timestamps []time.Time
	for ts := range registry.metrics {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})

	for _, ts := range timestamps {
		nsMap := registry.metrics[ts]

		// Stable order within one slice
		namespaces := make([]string, 0, len(nsMap))
		for nsStr := range nsMap {
			namespaces = append(namespaces, nsStr)
		}
		sort.Strings(namespaces)

		for _, nsStr := range namespaces {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}
			names := make([]string, 0, len(nsMap[nsStr]))
			for metricName := range nsMap[nsStr] {
				names = append(names, metricName)
			}
			sort.Strings(names)

			for _, metricName := range names {
				if name == "" || metricName == name {
					results = append(results, nsMap[nsStr][metricName])
				}
			}
		}
	}
	return
}

// Returns the most recent value of every metric matching the namespace prefix
func (registry *Registry) Latest(namespacePrefix []string) (results []Metric) {
	newest := make(map[string]Metric)
	for _, metric := range registry.Search("", namespacePrefix, time.Time{}, time.Time{}) {
		// Search output is oldest first, later slices overwrite
		newest[strings.Join(metric.Namespace, "/")+"|"+metric.Name] = metric
	}

	keys := make([]string, 0, len(newest))
	for key := range newest {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results = make([]Metric, 0, len(keys))
	for _, key := range keys {
		results = append(results, newest[key])
	}
	return
}
