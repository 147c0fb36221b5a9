package sink

import (
	"context"
	"io"
	"sync"

	"github.com/weiihann/taipan/harness"
	"github.com/weiihann/taipan/report"
)

// Stdout prints each record as a markdown table, or as a one-element JSON
// array when JSON is set.
type Stdout struct {
	W    io.Writer
	JSON bool

	mu sync.Mutex
}

// NewStdout creates a Stdout sink writing to w.
func NewStdout(w io.Writer, asJSON bool) *Stdout {
	return &Stdout{W: w, JSON: asJSON}
}

func (s *Stdout) Send(_ context.Context, r harness.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := []harness.Result{r}

	if s.JSON {
		return report.GenerateJSON(s.W, results)
	}

	if err := report.Generate(s.W, results); err != nil {
		return err
	}

	_, err := io.WriteString(s.W, "\n")

	return err
}
