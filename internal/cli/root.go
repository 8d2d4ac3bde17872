package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/osvaldoandrade/jsonlvalidate/internal/platform"
	"github.com/spf13/cobra"
)

const validateLong = `Reads newline-delimited JSON from stdin and validates every record against the schema.
External $ref targets are only loaded from inside base-dir (default: the schema's directory).
Exit status: 0 all records valid, 1 invalid input or startup failure, 2 no records.`

type RootOptions struct {
	JSONOutput  bool
	LogLevel    string
	LogFormat   string
	RepoBase    bool
	SchemaPatch string
	ReportDB    string
	ReportFast  bool
	ListRuns    bool
	ShowRun     string
	RunLimit    int
}

// queryMode reports whether the invocation reads run history instead of
// validating stdin.
func (o *RootOptions) queryMode() bool {
	return o.ListRuns || o.ShowRun != ""
}

func newRootCmd() *cobra.Command {
	opts := &RootOptions{
		LogLevel:   envDefault("JSONLVALIDATE_LOG_LEVEL", "warn"),
		LogFormat:  envDefault("JSONLVALIDATE_LOG_FORMAT", "text"),
		RepoBase:   envBoolDefault("JSONLVALIDATE_REPO_BASE", false),
		ReportDB:   envDefault("JSONLVALIDATE_REPORT_DB", ""),
		ReportFast: envBoolDefault("JSONLVALIDATE_REPORT_FAST", true),
	}
	cmd := &cobra.Command{
		Use:           "validate <schema-path> [base-dir]",
		Short:         "Validate NDJSON records from stdin against a JSON Schema",
		Long:          validateLong,
		Args:          validateArgs(opts),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := platform.ConfigureLogger(opts.LogLevel, opts.LogFormat, cmd.ErrOrStderr())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.queryMode() {
				return runQuery(cmd, opts)
			}
			baseDir := ""
			if len(args) == 2 {
				baseDir = args[1]
			}
			return runValidate(cmd, opts, args[0], baseDir)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "Emit diagnostics as JSON")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error, off)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format (text, json)")
	cmd.PersistentFlags().StringVar(&opts.ReportDB, "report-db", opts.ReportDB, "Record runs in this SQLite database")
	cmd.PersistentFlags().BoolVar(&opts.ReportFast, "report-fast", opts.ReportFast, "Relax SQLite durability for the report database")
	cmd.Flags().BoolVar(&opts.RepoBase, "repo-base", opts.RepoBase, "Use the schema's git work tree root as base-dir")
	cmd.Flags().StringVar(&opts.SchemaPatch, "schema-patch", "", "JSON Patch or merge patch applied to the root schema")
	cmd.Flags().BoolVar(&opts.ListRuns, "list-runs", false, "List recorded validation runs instead of validating stdin")
	cmd.Flags().StringVar(&opts.ShowRun, "show-run", "", "Show one recorded validation run instead of validating stdin")
	cmd.Flags().IntVar(&opts.RunLimit, "limit", 20, "Maximum number of runs listed by --list-runs")
	cmd.MarkFlagsMutuallyExclusive("list-runs", "show-run")

	// Positional arguments are schema paths. The root stays free of
	// subcommands so names like "help" or "completion" are never claimed.
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

func validateArgs(opts *RootOptions) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		check := cobra.RangeArgs(1, 2)
		if opts.queryMode() {
			check = cobra.NoArgs
		}
		if err := check(cmd, args); err != nil {
			return ExitError{Code: ExitInvalid, Kind: KindStartup, Err: err}
		}
		return nil
	}
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBoolDefault(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
