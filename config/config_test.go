package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/workload"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "taipan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefaultCoversEveryKind(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	for _, k := range workload.Kinds() {
		assert.Positive(t, cfg.Size(k), "size for %s", k)
		assert.Greater(t, cfg.Divisor(k), 1.0, "divisor for %s", k)
	}

	assert.InDelta(t, 3163.5, cfg.Divisor(workload.KindSort), 1e-9)
	assert.InDelta(t, 666.0, cfg.Divisor(workload.KindPrime), 1e-9)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
workers: 6
timeout: 90s
sizes:
  prime: 1000
calibration:
  sort: 1500
sinks:
  enabled: [stdout, file]
  history_file: /tmp/history.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, 1000, cfg.Size(workload.KindPrime))
	assert.Equal(t, Default().Size(workload.KindSort), cfg.Size(workload.KindSort))
	assert.InDelta(t, 1500.0, cfg.Divisor(workload.KindSort), 1e-9)
	assert.InDelta(t, 666.0, cfg.Divisor(workload.KindPrime), 1e-9)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Sinks.Enabled)
	assert.Equal(t, "/tmp/history.json", cfg.Sinks.HistoryFile)
	assert.Equal(t, "taipan_benchmarks", cfg.Sinks.MongoDatabase)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative workers", "workers: -2\n"},
		{"zero divisor", "calibration:\n  prime: 0\n"},
		{"unknown kind", "sizes:\n  fibonacci: 10\n"},
		{"negative size", "sizes:\n  sort: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, fault.Is(err, fault.InvalidArgument), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "workers: [1, 2\n"))
	assert.Error(t, err)
}

func TestDivisorFallback(t *testing.T) {
	cfg := Config{}
	assert.InDelta(t, 1.0, cfg.Divisor(workload.KindPrime), 1e-9)
}
