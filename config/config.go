// Package config holds the tunables of a benchmark session: calibration
// divisors, workload sizes, worker count and report sinks. Values come from
// Default, optionally overlaid by a YAML file and then by CLI flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/taipan/fault"
	"github.com/weiihann/taipan/workload"
)

// Config is the full session configuration.
type Config struct {
	// Workers is the multi-core worker count. Zero means one per online CPU.
	Workers int   `yaml:"workers"`
	Seed    int64 `yaml:"seed"`
	// Timeout bounds one single+multi run. Zero disables the deadline.
	Timeout time.Duration `yaml:"timeout"`

	Sizes       map[workload.Kind]int     `yaml:"sizes"`
	Calibration map[workload.Kind]float64 `yaml:"calibration"`

	Sinks Sinks `yaml:"sinks"`
}

// Sinks selects and configures report destinations.
type Sinks struct {
	Enabled []string `yaml:"enabled"`

	HistoryFile string `yaml:"history_file"`

	HTTPURL     string        `yaml:"http_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`

	SQLitePath string `yaml:"sqlite_path"`

	PrometheusFile string `yaml:"prometheus_file"`
}

// Default returns the built-in configuration. The calibration divisors
// are the constants the reference programs shipped with.
func Default() Config {
	return Config{
		Timeout: 30 * time.Minute,
		Sizes: map[workload.Kind]int{
			workload.KindSort:       20_000_000,
			workload.KindPrime:      5_000_000,
			workload.KindSeries:     400_000_000,
			workload.KindCount:      2_000_000_000,
			workload.KindMonteCarlo: 200_000_000,
		},
		Calibration: map[workload.Kind]float64{
			workload.KindSort:       666 * 4.75,
			workload.KindPrime:      666,
			workload.KindSeries:     666 * 377 * 1.95,
			workload.KindCount:      666666 / 1.213,
			workload.KindMonteCarlo: 3333,
		},
		Sinks: Sinks{
			Enabled:         []string{"stdout"},
			HistoryFile:     "taipan_benchmarks.json",
			HTTPURL:         "https://taipan-benchmarks.vercel.app/api/cpu-benchmarks",
			HTTPTimeout:     30 * time.Second,
			MongoDatabase:   "taipan_benchmarks",
			MongoCollection: "cpu_benchmarks",
			SQLitePath:      "taipan_benchmarks.db",
			PrometheusFile:  "taipan.prom",
		},
	}
}

// Load returns Default overlaid with the YAML file at path. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects values no run could use.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fault.Newf(fault.InvalidArgument, "validate config",
			"workers %d must not be negative", c.Workers)
	}

	for kind, size := range c.Sizes {
		if _, err := workload.ParseKind(string(kind)); err != nil {
			return err
		}

		if size < 0 {
			return fault.Newf(fault.InvalidArgument, "validate config",
				"%s size %d must not be negative", kind, size)
		}
	}

	for kind, div := range c.Calibration {
		if _, err := workload.ParseKind(string(kind)); err != nil {
			return err
		}

		if div <= 0 {
			return fault.Newf(fault.InvalidArgument, "validate config",
				"%s divisor %g must be positive", kind, div)
		}
	}

	return nil
}

// Divisor returns the score calibration divisor for kind.
func (c Config) Divisor(kind workload.Kind) float64 {
	if d, ok := c.Calibration[kind]; ok && d > 0 {
		return d
	}

	return 1
}

// Size returns the workload size for kind.
func (c Config) Size(kind workload.Kind) int {
	return c.Sizes[kind]
}
