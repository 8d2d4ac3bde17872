package jsonlvalidate

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	runapp "github.com/osvaldoandrade/jsonlvalidate/internal/app/run"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/stream"
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
)

// Outcome is the aggregate result of one stream.
type Outcome string

const (
	OutcomeValid   Outcome = Outcome(domain.OutcomeValid)
	OutcomeInvalid Outcome = Outcome(domain.OutcomeInvalid)
	OutcomeNoData  Outcome = Outcome(domain.OutcomeNoData)
)

// Violation is a single schema keyword failure for a record.
type Violation struct {
	InstanceLocation string
	KeywordLocation  string
	Message          string
}

// Report summarizes one ValidateStream call.
type Report struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	SchemaPath    string
	SchemaDigest  string
	SchemaCommit  string
	BaseDir       string
	Outcome       Outcome
	ExitCode      int
	Lines         int
	Records       int
	FailureLine   int
	FailureReason string
	FailureRecord string
	Violations    []Violation
}

// Validator holds a compiled schema. Every external reference was loaded and
// checked against the base directory when the Validator was opened, so
// validating streams performs no schema file access. It is safe for
// concurrent use.
type Validator struct {
	cfg     Config
	session *runapp.Session
	reports *sqlitereport.Store

	mu     sync.RWMutex
	closed bool
}

// Open loads and compiles the schema described by cfg. A $ref that resolves
// outside the base directory fails with an error matching ErrAccessDenied.
func Open(ctx context.Context, cfg Config) (*Validator, error) {
	normalized, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	v := &Validator{cfg: normalized}
	deps := runapp.Dependencies{
		Source:        filesystem.SchemaSource{},
		Parser:        jsondoc.Parser{},
		Decoder:       jsondoc.Decoder{},
		Resolver:      filesystem.Resolver{},
		Compiler:      schema.Engine{Compiler: schema.Compiler{AssertFormat: normalized.AssertFormat}},
		Patcher:       jsonpatch.Patcher{},
		Fingerprinter: canonicaljson.Canonicalizer{},
		Locator:       gitrepo.Locator{},
		Clock:         platform.RealClock{},
		IDs:           ident.NewULIDGenerator(),
	}
	if normalized.Reports.DBPath != "" {
		store, err := sqlitereport.OpenWithOptions(normalized.Reports.DBPath, sqlitereport.OpenOptions{Fast: normalized.Reports.Fast})
		if err != nil {
			return nil, err
		}
		v.reports = store
		deps.Reports = store
	}

	session, err := runapp.NewService(deps).Prepare(ctx, runapp.Options{
		SchemaPath: normalized.SchemaPath,
		BaseDir:    normalized.BaseDir,
		RepoBase:   normalized.RepoBase,
		PatchPath:  normalized.SchemaPatch,
	})
	if err != nil {
		_ = v.reports.Close()
		return nil, err
	}
	v.session = session
	return v, nil
}

// BaseDir returns the canonical directory external references are confined to.
func (v *Validator) BaseDir() string {
	return v.session.BaseDir()
}

// ValidateStream reads newline-delimited JSON from r and stops at the first
// invalid record. The returned error is nil only when at least one record was
// read and every record is valid; an empty stream returns ErrNoData. The
// report is populated in every case.
func (v *Validator) ValidateStream(ctx context.Context, r io.Reader) (Report, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return Report{}, ErrClosed
	}

	report, err := v.session.Validate(ctx, r)
	return toReport(report), err
}

// Close releases the report database. Further ValidateStream calls fail with
// ErrClosed.
func (v *Validator) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	return v.reports.Close()
}

// FailureLine returns the 1-based input line of a record failure, or 0 when
// err is not a record failure.
func FailureLine(err error) int {
	var failure *stream.Failure
	if errors.As(err, &failure) {
		return failure.Line
	}
	return 0
}

func toReport(report domain.RunReport) Report {
	out := Report{
		RunID:         report.RunID,
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		SchemaPath:    report.SchemaPath,
		SchemaDigest:  report.SchemaDigest,
		SchemaCommit:  report.SchemaCommit,
		BaseDir:       report.BaseDir,
		Outcome:       Outcome(report.Outcome),
		ExitCode:      report.ExitCode(),
		Lines:         report.Lines,
		Records:       report.Records,
		FailureLine:   report.FailureLine,
		FailureReason: report.FailureReason,
		FailureRecord: report.FailureRecord,
	}
	for _, violation := range report.Violations {
		out.Violations = append(out.Violations, Violation{
			InstanceLocation: violation.InstanceLocation,
			KeywordLocation:  violation.KeywordLocation,
			Message:          violation.Message,
		})
	}
	return out
}
