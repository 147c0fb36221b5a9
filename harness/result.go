// Package harness runs benchmark kinds through their single-core and
// multi-core cycles and turns the timings into benchmark records.
package harness

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weiihann/taipan/workload"
)

// Result is the record produced by one completed single+multi run.
type Result struct {
	Kind            workload.Kind `json:"kind"              bson:"kind"`
	WorkloadSize    int64         `json:"workload_size"     bson:"workload_size"`
	Workers         int           `json:"workers"           bson:"workers"`
	SingleCoreTime  float64       `json:"single_core_time"  bson:"single_core_time"`
	MultiCoreTime   float64       `json:"multi_core_time"   bson:"multi_core_time"`
	SingleCoreScore int64         `json:"single_core_score" bson:"single_core_score"`
	MultiCoreScore  int64         `json:"multi_core_score"  bson:"multi_core_score"`
	Speedup         float64       `json:"speedup"           bson:"speedup"`
	Efficiency      float64       `json:"efficiency"        bson:"efficiency"`
	CPUUtilization  float64       `json:"cpu_utilization"   bson:"cpu_utilization"`
	// Value is the kernel's merged output: element count, prime count,
	// the e or pi estimate, or the final counter.
	Value float64 `json:"value" bson:"value"`

	CPUModel string    `json:"cpu_model" bson:"cpu_model"`
	OSInfo   string    `json:"os_info"   bson:"os_info"`
	Hostname string    `json:"hostname"  bson:"hostname"`
	Key      string    `json:"key"       bson:"key"`
	Time     time.Time `json:"time"      bson:"time"`
}

// NewKey returns a random 32 digit upper-case hex key that lets the
// submitter claim a published result.
func NewKey() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
