package stream

import (
	"errors"
	"fmt"

	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

var ErrReadInput = errors.New("read input")

type FailureKind string

const (
	FailureParse  FailureKind = "parse"
	FailureSchema FailureKind = "schema"
)

// Failure is the terminal condition of a strict-mode stream.
type Failure struct {
	Kind       FailureKind
	Line       int
	Record     []byte
	Reason     error
	Violations []domain.Violation
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureParse:
		return fmt.Sprintf("Error parsing JSON on line %d: %v", f.Line, f.Reason)
	default:
		return fmt.Sprintf("Validation error on line %d: %d violation(s)", f.Line, len(f.Violations))
	}
}

func (f *Failure) Unwrap() error {
	return f.Reason
}

// Summary is a one-line reason suitable for reports.
func (f *Failure) Summary() string {
	if f.Kind == FailureParse {
		return fmt.Sprintf("invalid JSON: %v", f.Reason)
	}
	if len(f.Violations) == 0 {
		return "schema violation"
	}
	first := f.Violations[0]
	return fmt.Sprintf("%s: %s", first.Pointer(), first.Message)
}
