package harness

// State is a step of a benchmark run.
type State int

const (
	Idle State = iota
	GeneratingWorkload
	RunningSingleCore
	RunningMultiCore
	ComputingMetrics
	Reporting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GeneratingWorkload:
		return "generating_workload"
	case RunningSingleCore:
		return "running_single_core"
	case RunningMultiCore:
		return "running_multi_core"
	case ComputingMetrics:
		return "computing_metrics"
	case Reporting:
		return "reporting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
