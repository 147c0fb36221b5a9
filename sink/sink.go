// Package sink delivers benchmark records to terminals, files, databases
// and remote APIs. Every sink satisfies harness.Sink.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/weiihann/taipan/harness"
)

// Multi fans a record out to every sink and joins their errors. One sink
// failing does not stop delivery to the rest.
type Multi []harness.Sink

func (m Multi) Send(ctx context.Context, r harness.Result) error {
	errs := make([]error, 0, len(m))

	for _, s := range m {
		if err := s.Send(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}

	return errors.Join(errs...)
}

// Discard accepts and drops every record.
type Discard struct{}

func (Discard) Send(context.Context, harness.Result) error { return nil }
