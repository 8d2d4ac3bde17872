package jsonlvalidate

import (
	"errors"

	"github.com/osvaldoandrade/jsonlvalidate/internal/app/refload"
	"github.com/osvaldoandrade/jsonlvalidate/internal/cli"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

var (
	ErrSchemaPathRequired = errors.New("jsonlvalidate: schema path required")
	ErrBaseDirConflict    = errors.New("jsonlvalidate: BaseDir and RepoBase are mutually exclusive")
	ErrClosed             = errors.New("jsonlvalidate: validator is closed")

	// ErrAccessDenied matches errors caused by a $ref that resolves outside
	// the base directory.
	ErrAccessDenied = refload.ErrAccessDenied
	// ErrNoData is returned by ValidateStream when the input holds no records.
	ErrNoData = domain.ErrNoData
)

// ExitCode maps an error returned by this package to the CLI exit status:
// 0 for nil, 2 for ErrNoData and 1 for everything else.
func ExitCode(err error) int {
	return cli.ExitCode(err)
}
