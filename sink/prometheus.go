package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weiihann/taipan/harness"
)

// Prometheus exposes the latest record per kind as gauges in a
// node-exporter textfile collector file.
type Prometheus struct {
	Path string

	mu       sync.Mutex
	registry *prometheus.Registry
	seconds  *prometheus.GaugeVec
	scores   *prometheus.GaugeVec
	speedup  *prometheus.GaugeVec
	effic    *prometheus.GaugeVec
	workers  *prometheus.GaugeVec
}

// NewPrometheus creates a Prometheus sink writing to path.
func NewPrometheus(path string) *Prometheus {
	p := &Prometheus{
		Path:     path,
		registry: prometheus.NewRegistry(),
		seconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "taipan",
			Name:      "run_seconds",
			Help:      "Wall-clock duration of the last benchmark run.",
		}, []string{"kind", "mode", "cpu_model"}),
		scores: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "taipan",
			Name:      "score",
			Help:      "Calibrated score of the last benchmark run.",
		}, []string{"kind", "mode", "cpu_model"}),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "taipan",
			Name:      "speedup_ratio",
			Help:      "Single-core time over multi-core time.",
		}, []string{"kind", "cpu_model"}),
		effic: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "taipan",
			Name:      "efficiency_ratio",
			Help:      "Speedup divided by worker count.",
		}, []string{"kind", "cpu_model"}),
		workers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "taipan",
			Name:      "workers",
			Help:      "Worker count of the multi-core run.",
		}, []string{"kind", "cpu_model"}),
	}

	p.registry.MustRegister(p.seconds, p.scores, p.speedup, p.effic, p.workers)

	return p
}

func (p *Prometheus) Send(_ context.Context, r harness.Result) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	kind := string(r.Kind)

	p.seconds.WithLabelValues(kind, "single", r.CPUModel).Set(r.SingleCoreTime)
	p.seconds.WithLabelValues(kind, "multi", r.CPUModel).Set(r.MultiCoreTime)
	p.scores.WithLabelValues(kind, "single", r.CPUModel).Set(float64(r.SingleCoreScore))
	p.scores.WithLabelValues(kind, "multi", r.CPUModel).Set(float64(r.MultiCoreScore))
	p.speedup.WithLabelValues(kind, r.CPUModel).Set(r.Speedup)
	p.effic.WithLabelValues(kind, r.CPUModel).Set(r.Efficiency)
	p.workers.WithLabelValues(kind, r.CPUModel).Set(float64(r.Workers))

	if err := prometheus.WriteToTextfile(p.Path, p.registry); err != nil {
		return fmt.Errorf("write textfile %s: %w", p.Path, err)
	}

	return nil
}
