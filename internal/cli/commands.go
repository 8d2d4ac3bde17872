package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	runapp "github.com/osvaldoandrade/jsonlvalidate/internal/app/run"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/canonicaljson"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/filesystem"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/gitrepo"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/ident"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/jsondoc"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/jsonpatch"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/schema"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/sqlitereport"
	"github.com/osvaldoandrade/jsonlvalidate/internal/platform"
	"github.com/spf13/cobra"
)

func runValidate(cmd *cobra.Command, opts *RootOptions, schemaPath, baseDir string) error {
	ctx := cmd.Context()

	var reports runapp.ReportStore
	if strings.TrimSpace(opts.ReportDB) != "" {
		store, err := openReportStore(opts)
		if err != nil {
			return err
		}
		defer store.Close()
		reports = store
	}

	service := runapp.NewService(newRunDependencies(reports))
	session, err := service.Prepare(ctx, runapp.Options{
		SchemaPath: schemaPath,
		BaseDir:    baseDir,
		RepoBase:   opts.RepoBase,
		PatchPath:  opts.SchemaPatch,
	})
	if err != nil {
		return err
	}

	_, err = session.Validate(ctx, cmd.InOrStdin())
	return err
}

func newRunDependencies(reports runapp.ReportStore) runapp.Dependencies {
	return runapp.Dependencies{
		Source:        filesystem.SchemaSource{},
		Parser:        jsondoc.Parser{},
		Decoder:       jsondoc.Decoder{},
		Resolver:      filesystem.Resolver{},
		Compiler:      schema.NewEngine(),
		Patcher:       jsonpatch.Patcher{},
		Fingerprinter: canonicaljson.Canonicalizer{},
		Locator:       gitrepo.Locator{},
		Reports:       reports,
		Clock:         platform.RealClock{},
		IDs:           ident.NewULIDGenerator(),
	}
}

func openReportStore(opts *RootOptions) (*sqlitereport.Store, error) {
	if strings.TrimSpace(opts.ReportDB) == "" {
		return nil, ErrReportDBRequired
	}
	return sqlitereport.OpenWithOptions(opts.ReportDB, sqlitereport.OpenOptions{Fast: opts.ReportFast})
}

// runQuery answers --list-runs and --show-run from the report database.
func runQuery(cmd *cobra.Command, opts *RootOptions) error {
	store, err := openReportStore(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.ShowRun != "" {
		report, err := store.GetRun(cmd.Context(), opts.ShowRun)
		if err != nil {
			return err
		}
		return writeRunReport(cmd, report, opts.JSONOutput)
	}

	reports, err := store.ListRuns(cmd.Context(), opts.RunLimit)
	if err != nil {
		return err
	}
	return writeRunList(cmd, reports, opts.JSONOutput)
}

type runOutput struct {
	RunID         string            `json:"run_id"`
	StartedAt     string            `json:"started_at"`
	FinishedAt    string            `json:"finished_at,omitempty"`
	SchemaPath    string            `json:"schema_path"`
	SchemaDigest  string            `json:"schema_digest,omitempty"`
	SchemaCommit  string            `json:"schema_commit,omitempty"`
	BaseDir       string            `json:"base_dir"`
	Outcome       string            `json:"outcome"`
	ExitCode      int               `json:"exit_code"`
	Lines         int               `json:"lines"`
	Records       int               `json:"records"`
	FailureLine   int               `json:"failure_line,omitzero"`
	FailureReason string            `json:"failure_reason,omitempty"`
	FailureRecord string            `json:"failure_record,omitempty"`
	Violations    []violationOutput `json:"violations,omitempty"`
}

func toRunOutput(report domain.RunReport) runOutput {
	output := runOutput{
		RunID:         report.RunID,
		StartedAt:     formatTime(report.StartedAt),
		FinishedAt:    formatTime(report.FinishedAt),
		SchemaPath:    report.SchemaPath,
		SchemaDigest:  report.SchemaDigest,
		SchemaCommit:  report.SchemaCommit,
		BaseDir:       report.BaseDir,
		Outcome:       string(report.Outcome),
		ExitCode:      report.ExitCode(),
		Lines:         report.Lines,
		Records:       report.Records,
		FailureLine:   report.FailureLine,
		FailureReason: report.FailureReason,
		FailureRecord: report.FailureRecord,
	}
	for _, v := range report.Violations {
		output.Violations = append(output.Violations, violationOutput{
			Line:     report.FailureLine,
			Instance: v.Pointer(),
			Keyword:  v.KeywordLocation,
			Message:  v.Message,
		})
	}
	return output
}

func writeRunReport(cmd *cobra.Command, report domain.RunReport, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, toRunOutput(report))
	}

	ui := newRenderer(out, asJSON)
	fields := []struct {
		key   string
		value string
	}{
		{"Run", report.RunID},
		{"Outcome", colorOutcome(ui, report.Outcome)},
		{"Started", formatTime(report.StartedAt)},
		{"Finished", formatTime(report.FinishedAt)},
		{"Schema", report.SchemaPath},
		{"Digest", valueOrNone(ui, report.SchemaDigest)},
		{"Commit", valueOrNone(ui, report.SchemaCommit)},
		{"Base", report.BaseDir},
		{"Lines", strconv.Itoa(report.Lines)},
		{"Records", strconv.Itoa(report.Records)},
	}
	for _, field := range fields {
		if err := writeKV(out, ui, field.key, field.value); err != nil {
			return err
		}
	}
	if report.FailureLine > 0 {
		if err := writeKV(out, ui, "Failure", fmt.Sprintf("line %d: %s", report.FailureLine, report.FailureReason)); err != nil {
			return err
		}
	}
	if report.FailureRecord != "" {
		if err := writeKV(out, ui, "Record", report.FailureRecord); err != nil {
			return err
		}
	}
	for _, v := range report.Violations {
		if _, err := fmt.Fprintf(out, "  line %d: %s: %s\n", report.FailureLine, ui.key(v.Pointer()), v.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeRunList(cmd *cobra.Command, reports []domain.RunReport, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		outputs := make([]runOutput, 0, len(reports))
		for _, report := range reports {
			outputs = append(outputs, toRunOutput(report))
		}
		return writeJSON(out, outputs)
	}

	ui := newRenderer(out, asJSON)
	if len(reports) == 0 {
		_, err := fmt.Fprintln(out, ui.dim("(no runs recorded)"))
		return err
	}
	for _, report := range reports {
		if _, err := fmt.Fprintf(out, "%s  %s  %s  records=%d  %s\n",
			ui.key(report.RunID),
			formatTime(report.StartedAt),
			colorOutcome(ui, report.Outcome),
			report.Records,
			report.SchemaPath,
		); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, value any) error {
	data, err := json.Marshal(value, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}

func writeKV(out io.Writer, ui renderer, key, value string) error {
	_, err := fmt.Fprintf(out, "%s: %s\n", ui.key(key), value)
	return err
}

func colorOutcome(ui renderer, outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeValid:
		return ui.ok(string(outcome))
	case domain.OutcomeNoData:
		return ui.warn(string(outcome))
	default:
		return ui.err(string(outcome))
	}
}

func valueOrNone(ui renderer, value string) string {
	if value == "" {
		return ui.dim("(none)")
	}
	return value
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339Nano)
}
