package jsonlvalidate

import "github.com/osvaldoandrade/jsonlvalidate/internal/cli"

// Execute runs the validate CLI entrypoint and returns the process exit code.
func Execute() int {
	return cli.Execute()
}
