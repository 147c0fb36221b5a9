package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/weiihann/taipan/harness"
	"github.com/weiihann/taipan/report"
)

// File keeps a JSON history of benchmark records. Records sharing a CPU
// model and kind are folded into one entry holding the running average
// of every field and the number of runs it covers.
type File struct {
	Path string

	mu sync.Mutex
}

// NewFile creates a File sink backed by path.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Send(_ context.Context, r harness.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := Load(f.Path)
	if err != nil {
		return err
	}

	entries = Fold(entries, r)

	return write(f.Path, entries)
}

// Load reads the history at path. A missing file is an empty history.
func Load(path string) ([]report.Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var entries []report.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", path, err)
	}

	return entries, nil
}

// Fold merges r into entries: the matching (cpu model, kind) entry is
// averaged with r, otherwise a new entry is appended.
func Fold(entries []report.Entry, r harness.Result) []report.Entry {
	for i := range entries {
		e := &entries[i]
		if e.CPUModel != r.CPUModel || e.Kind != r.Kind {
			continue
		}

		n := float64(e.Runs)
		avg := func(old, cur float64) float64 { return (n*old + cur) / (n + 1) }
		avgInt := func(old, cur int64) int64 {
			return int64(math.Round(avg(float64(old), float64(cur))))
		}

		e.SingleCoreTime = avg(e.SingleCoreTime, r.SingleCoreTime)
		e.MultiCoreTime = avg(e.MultiCoreTime, r.MultiCoreTime)
		e.SingleCoreScore = avgInt(e.SingleCoreScore, r.SingleCoreScore)
		e.MultiCoreScore = avgInt(e.MultiCoreScore, r.MultiCoreScore)
		e.Speedup = avg(e.Speedup, r.Speedup)
		e.Efficiency = avg(e.Efficiency, r.Efficiency)
		e.CPUUtilization = avg(e.CPUUtilization, r.CPUUtilization)
		e.Runs++
		e.OSInfo = r.OSInfo
		e.Workers = r.Workers
		e.WorkloadSize = r.WorkloadSize
		e.LastRun = r.Time

		return entries
	}

	return append(entries, report.Entry{
		CPUModel:        r.CPUModel,
		OSInfo:          r.OSInfo,
		Kind:            r.Kind,
		Workers:         r.Workers,
		WorkloadSize:    r.WorkloadSize,
		Runs:            1,
		SingleCoreTime:  r.SingleCoreTime,
		MultiCoreTime:   r.MultiCoreTime,
		SingleCoreScore: r.SingleCoreScore,
		MultiCoreScore:  r.MultiCoreScore,
		Speedup:         r.Speedup,
		Efficiency:      r.Efficiency,
		CPUUtilization:  r.CPUUtilization,
		LastRun:         r.Time,
	})
}

// write replaces the history at path via a temp file and rename.
func write(path string, entries []report.Entry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace history %s: %w", path, err)
	}

	return nil
}
