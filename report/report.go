// Package report formats benchmark records into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/weiihann/taipan/harness"
	"github.com/weiihann/taipan/workload"
)

// Entry is one row of the benchmark history: the running average of every
// record seen for a CPU model and kind.
type Entry struct {
	CPUModel        string        `json:"cpu_model"`
	OSInfo          string        `json:"os_info"`
	Kind            workload.Kind `json:"kind"`
	Workers         int           `json:"workers"`
	WorkloadSize    int64         `json:"workload_size"`
	Runs            int           `json:"runs"`
	SingleCoreTime  float64       `json:"single_core_time"`
	MultiCoreTime   float64       `json:"multi_core_time"`
	SingleCoreScore int64         `json:"single_core_score"`
	MultiCoreScore  int64         `json:"multi_core_score"`
	Speedup         float64       `json:"speedup"`
	Efficiency      float64       `json:"efficiency"`
	CPUUtilization  float64       `json:"cpu_utilization"`
	LastRun         time.Time     `json:"last_run"`
}

// Generate writes a markdown comparison table for the given results.
func Generate(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fastest := findFastest(results)

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "CPU: %s\n", results[0].CPUModel)
	fmt.Fprintf(w, "OS: %s\n", results[0].OSInfo)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Kind | Size | Workers | Single | Multi "+
		"| Single Score | Multi Score | Speedup | Efficiency | CPU Util |")
	fmt.Fprintln(w, "|------|------|---------|--------|-------"+
		"|--------------|-------------|---------|------------|----------|")

	for _, r := range results {
		fmt.Fprintf(w, "| %s | %s | %d | %s | %s | %d | %d | %.2fx | %.2f | %.1f%% |\n",
			r.Kind,
			formatCount(r.WorkloadSize),
			r.Workers,
			formatSeconds(r.SingleCoreTime),
			formatSeconds(r.MultiCoreTime),
			r.SingleCoreScore,
			r.MultiCoreScore,
			r.Speedup,
			r.Efficiency,
			r.CPUUtilization,
		)
	}

	fmt.Fprintln(w)

	if fastest != "" {
		fmt.Fprintf(w, "Best scaling: **%s**\n", fastest)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "| Kind | Value | Key |")
	fmt.Fprintln(w, "|------|-------|-----|")

	for _, r := range results {
		fmt.Fprintf(w, "| %s | %s | %s |\n", r.Kind, formatValue(r.Value), r.Key)
	}

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// GenerateHistory writes a markdown table of history entries.
func GenerateHistory(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no history to report")
	}

	fmt.Fprintln(w, "## Benchmark History")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| CPU | Kind | Runs | Workers | Single | Multi "+
		"| Single Score | Multi Score | Speedup | Last Run |")
	fmt.Fprintln(w, "|-----|------|------|---------|--------|-------"+
		"|--------------|-------------|---------|----------|")

	for _, e := range entries {
		fmt.Fprintf(w, "| %s | %s | %d | %d | %s | %s | %d | %d | %.2fx | %s |\n",
			e.CPUModel,
			e.Kind,
			e.Runs,
			e.Workers,
			formatSeconds(e.SingleCoreTime),
			formatSeconds(e.MultiCoreTime),
			e.SingleCoreScore,
			e.MultiCoreScore,
			e.Speedup,
			e.LastRun.Format(time.DateTime),
		)
	}

	return nil
}

// findFastest returns the kind with the highest speedup.
func findFastest(results []harness.Result) workload.Kind {
	if len(results) < 2 {
		return ""
	}

	var (
		best    workload.Kind
		speedup = math.Inf(-1)
	)

	for _, r := range results {
		if r.Speedup > speedup {
			best, speedup = r.Kind, r.Speedup
		}
	}

	return best
}

func formatSeconds(s float64) string {
	if s < 1 {
		return fmt.Sprintf("%.1fms", s*1000)
	}

	return fmt.Sprintf("%.2fs", s)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}

	return fmt.Sprintf("%.6f", v)
}

func formatCount(n int64) string {
	if n == 0 {
		return "0"
	}

	units := []string{"", "K", "M", "G", "T"}
	size := float64(n)
	unit := 0

	for size >= 1000 && unit < len(units)-1 {
		size /= 1000
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + units[unit]
}
