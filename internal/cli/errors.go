package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/refload"
	runapp "github.com/osvaldoandrade/jsonlvalidate/internal/app/run"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/sandbox"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/stream"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/sqlitereport"
)

type ErrorKind string

const (
	KindInternal     ErrorKind = "internal"
	KindStartup      ErrorKind = "startup"
	KindAccessDenied ErrorKind = "access_denied"
	KindParse        ErrorKind = "parse"
	KindValidation   ErrorKind = "validation"
	KindNoData       ErrorKind = "no_data"
	KindNotFound     ErrorKind = "not_found"
)

const (
	ExitInternal = 1
	ExitInvalid  = 1
	ExitNoData   = 2
)

var ErrReportDBRequired = errors.New("--report-db or JSONLVALIDATE_REPORT_DB is required")

type ExitError struct {
	Code       int
	Kind       ErrorKind
	Message    string
	Line       int
	Record     string
	Violations []domain.Violation
	Err        error
}

func (e ExitError) Error() string {
	return errorMessage(e)
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func NormalizeError(err error) ExitError {
	if err == nil {
		return ExitError{Code: 0}
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == 0 {
			exitErr.Code = ExitInternal
		}
		return exitErr
	}

	var failure *stream.Failure
	if errors.As(err, &failure) {
		kind := KindValidation
		if failure.Kind == stream.FailureParse {
			kind = KindParse
		}
		return ExitError{
			Code:       ExitInvalid,
			Kind:       kind,
			Line:       failure.Line,
			Record:     string(failure.Record),
			Violations: failure.Violations,
			Err:        err,
		}
	}

	switch {
	case errors.Is(err, refload.ErrAccessDenied):
		return ExitError{Code: ExitInvalid, Kind: KindAccessDenied, Err: err}
	case errors.Is(err, domain.ErrNoData):
		return ExitError{Code: ExitNoData, Kind: KindNoData, Err: err}
	case errors.Is(err, sqlitereport.ErrRunNotFound):
		return ExitError{Code: ExitInvalid, Kind: KindNotFound, Err: err}
	case errors.Is(err, domain.ErrSchemaPathRequired),
		errors.Is(err, runapp.ErrSchemaNotFound),
		errors.Is(err, runapp.ErrSchemaParse),
		errors.Is(err, runapp.ErrSchemaCompile),
		errors.Is(err, runapp.ErrSchemaPatch),
		errors.Is(err, runapp.ErrBaseDirConflict),
		errors.Is(err, runapp.ErrRepoBaseUnresolved),
		errors.Is(err, sandbox.ErrBaseDirRequired),
		errors.Is(err, sandbox.ErrBaseDirInvalid),
		errors.Is(err, refload.ErrReferenceNotFound),
		errors.Is(err, refload.ErrReferenceParse),
		errors.Is(err, refload.ErrUnsupportedScheme),
		errors.Is(err, ErrReportDBRequired):
		return ExitError{Code: ExitInvalid, Kind: KindStartup, Err: err}
	default:
		return ExitError{Code: ExitInternal, Kind: KindInternal, Err: err}
	}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return NormalizeError(err).Code
}

type violationOutput struct {
	Line     int    `json:"line"`
	Instance string `json:"instance"`
	Keyword  string `json:"keyword,omitempty"`
	Message  string `json:"message"`
}

func writeCLIError(w io.Writer, exitErr ExitError, asJSON bool) error {
	if exitErr.Code == 0 {
		return nil
	}
	message := errorMessage(exitErr)
	if asJSON {
		payload := struct {
			Code       int               `json:"code"`
			Kind       string            `json:"kind"`
			Message    string            `json:"message"`
			Line       int               `json:"line,omitzero"`
			Record     string            `json:"record,omitempty"`
			Violations []violationOutput `json:"violations,omitempty"`
		}{
			Code:    exitErr.Code,
			Kind:    string(exitErr.Kind),
			Message: message,
			Line:    exitErr.Line,
			Record:  exitErr.Record,
		}
		for _, v := range exitErr.Violations {
			payload.Violations = append(payload.Violations, violationOutput{
				Line:     exitErr.Line,
				Instance: v.Pointer(),
				Keyword:  v.KeywordLocation,
				Message:  v.Message,
			})
		}
		data, err := json.Marshal(payload, json.Deterministic(true))
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}

	ui := newRenderer(w, false)
	prefix := "Error"
	if exitErr.Kind != "" {
		prefix = fmt.Sprintf("Error (%s)", exitErr.Kind)
	}
	prefix = ui.err(prefix)
	if _, err := fmt.Fprintf(w, "%s: %s\n", prefix, message); err != nil {
		return err
	}
	if exitErr.Record != "" {
		if _, err := fmt.Fprintf(w, "  %s %s\n", ui.key("record:"), exitErr.Record); err != nil {
			return err
		}
	}
	for _, v := range exitErr.Violations {
		line := fmt.Sprintf("line %d: %s: %s", exitErr.Line, ui.key(v.Pointer()), v.Message)
		if v.KeywordLocation != "" {
			line += " " + ui.dim("("+v.KeywordLocation+")")
		}
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	return nil
}

func errorMessage(exitErr ExitError) string {
	if exitErr.Message != "" {
		return exitErr.Message
	}
	if exitErr.Err != nil {
		return exitErr.Err.Error()
	}
	return "unknown error"
}
