// Package fault classifies benchmark failures into the kinds the runner
// uses to decide between aborting a run and logging and moving on.
package fault

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies a class of benchmark failure.
type Kind int

const (
	Unknown Kind = iota
	InvalidArgument
	AllocationFailure
	WorkerFault
	Timeout
	SinkFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case AllocationFailure:
		return "allocation failure"
	case WorkerFault:
		return "worker fault"
	case Timeout:
		return "timeout"
	case SinkFailure:
		return "sink failure"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}

	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error with a stack trace attached to the cause.
func New(kind Kind, op string, err error) error {
	if err != nil {
		err = pkgerrors.WithStack(err)
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: pkgerrors.Errorf(format, args...)}
}

// KindOf reports the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Fatal reports whether a failure of this kind must abort the run.
func Fatal(err error) bool {
	return err != nil && KindOf(err) != SinkFailure
}
