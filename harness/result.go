// Package harness registers named benchmarks, runs their cases and reduces
// the measured timings to one reported figure per benchmark.
package harness

// Result holds the outcome of running one benchmark.
type Result struct {
	Name       string  `json:"name"`
	Durations  []int64 `json:"durations_ms"`
	ReportedMs int64   `json:"reported_ms"`
}
