package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/weiihann/taipan/harness"
	"github.com/weiihann/taipan/workload"
)

func TestGenerate(t *testing.T) {
	results := []harness.Result{
		{
			Kind:            workload.KindSort,
			WorkloadSize:    20_000_000,
			Workers:         8,
			SingleCoreTime:  2.5,
			MultiCoreTime:   0.5,
			SingleCoreScore: 2529,
			MultiCoreScore:  12646,
			Speedup:         5,
			Efficiency:      0.6,
			CPUUtilization:  80,
			Value:           20_000_000,
			CPUModel:        "Test CPU @ 3.00GHz",
			OSInfo:          "testos 1.0",
			Key:             "ABC123",
		},
		{
			Kind:            workload.KindSeries,
			WorkloadSize:    400_000_000,
			Workers:         8,
			SingleCoreTime:  4,
			MultiCoreTime:   2,
			SingleCoreScore: 206,
			MultiCoreScore:  412,
			Speedup:         2,
			Efficiency:      0.25,
			CPUUtilization:  50,
			Value:           2.718281828459045,
			CPUModel:        "Test CPU @ 3.00GHz",
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"Test CPU @ 3.00GHz",
		"| sort | 20M | 8 | 2.50s | 500.0ms | 2529 | 12646 | 5.00x | 0.60 | 80.0% |",
		"| series | 400M |",
		"Best scaling: **sort**",
		"| sort | 20000000 | ABC123 |",
		"2.718282",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestGenerateSingleResultHasNoBest(t *testing.T) {
	results := []harness.Result{
		{Kind: workload.KindPrime, Speedup: 3},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if strings.Contains(buf.String(), "Best scaling") {
		t.Error("did not expect a best scaling line for one result")
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&buf, nil)
	if err == nil {
		t.Error("expected error for empty results")
	}
}

func TestGenerateJSON(t *testing.T) {
	results := []harness.Result{
		{Kind: workload.KindCount, WorkloadSize: 1000, MultiCoreScore: 42},
	}

	var buf bytes.Buffer
	if err := GenerateJSON(&buf, results); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var parsed []harness.Result
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed) != 1 {
		t.Fatalf("expected 1 result, got %d", len(parsed))
	}
	if parsed[0].Kind != workload.KindCount {
		t.Errorf("kind = %q, want count", parsed[0].Kind)
	}
	if !strings.Contains(buf.String(), `"multi_core_score": 42`) {
		t.Errorf("expected snake_case field names, got %s", buf.String())
	}
}

func TestGenerateHistory(t *testing.T) {
	entries := []Entry{
		{
			CPUModel:        "Test CPU",
			Kind:            workload.KindMonteCarlo,
			Runs:            3,
			Workers:         4,
			SingleCoreTime:  1.5,
			MultiCoreTime:   0.4,
			SingleCoreScore: 40000,
			MultiCoreScore:  150000,
			Speedup:         3.75,
			LastRun:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := GenerateHistory(&buf, entries); err != nil {
		t.Fatalf("GenerateHistory failed: %v", err)
	}

	want := "| Test CPU | montecarlo | 3 | 4 | 1.50s | 400.0ms | 40000 | 150000 " +
		"| 3.75x | 2026-03-01 12:00:00 |"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("expected %q in output:\n%s", want, buf.String())
	}

	if err := GenerateHistory(&buf, nil); err == nil {
		t.Error("expected error for empty history")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{512, "512"},
		{1000, "1K"},
		{1500, "1.5K"},
		{20_000_000, "20M"},
		{2_000_000_000, "2G"},
	}

	for _, tt := range tests {
		got := formatCount(tt.input)
		if got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.0ms"},
		{0.0005, "0.5ms"},
		{0.25, "250.0ms"},
		{1, "1.00s"},
		{60, "60.00s"},
	}

	for _, tt := range tests {
		got := formatSeconds(tt.input)
		if got != tt.want {
			t.Errorf("formatSeconds(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
