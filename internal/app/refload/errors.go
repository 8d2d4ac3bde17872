package refload

import (
	"errors"
	"fmt"
)

var ErrAccessDenied = errors.New("access denied")
var ErrReferenceNotFound = errors.New("Referenced schema not found")
var ErrReferenceParse = errors.New("Failed to parse referenced schema")
var ErrUnsupportedScheme = errors.New("unsupported reference scheme")

// AccessDeniedError reports a reference whose resolved target lies outside the
// sandbox. Its message always begins with "Access denied"; tooling greps for it.
type AccessDeniedError struct {
	Reference string
	Path      string
	Base      string
	Reason    error
}

func (e *AccessDeniedError) Error() string {
	msg := fmt.Sprintf("Access denied: %s resolves outside base directory %s (from %s)", e.Path, e.Base, e.Reference)
	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}
	return msg
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

func (e *AccessDeniedError) Unwrap() error {
	return e.Reason
}
