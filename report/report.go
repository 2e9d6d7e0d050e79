// Package report formats benchmark results into summary tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/weiihann/tbench/harness"
)

// Generate writes a markdown summary table for the given results.
func Generate(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fastestMs := findFastest(results)

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	// Table header.
	fmt.Fprintln(w, "| Benchmark | Cases | Case Times | Reported | Relative |")
	fmt.Fprintln(w, "|-----------|-------|------------|----------|----------|")

	for _, r := range results {
		relative := "-"
		if fastestMs > 0 && r.ReportedMs > 0 {
			relative = fmt.Sprintf("%.2fx",
				float64(r.ReportedMs)/float64(fastestMs))
		}

		fmt.Fprintf(w, "| %s | %d | %s | %s | %s |\n",
			r.Name,
			len(r.Durations),
			formatCases(r.Durations),
			formatMs(r.ReportedMs),
			relative,
		)
	}

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

func findFastest(results []harness.Result) int64 {
	fastest := int64(math.MaxInt64)
	for _, r := range results {
		if r.ReportedMs > 0 && r.ReportedMs < fastest {
			fastest = r.ReportedMs
		}
	}

	if fastest == math.MaxInt64 {
		return 0
	}

	return fastest
}

func formatCases(durations []int64) string {
	if len(durations) == 0 {
		return "-"
	}

	parts := make([]string, len(durations))
	for i, d := range durations {
		parts[i] = formatMs(d)
	}

	return strings.Join(parts, ", ")
}

func formatMs(ms int64) string {
	if ms > -1000 && ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}

	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}
