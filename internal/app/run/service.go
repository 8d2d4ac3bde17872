package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/osvaldoandrade/jsonlvalidate/internal/app/paths"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/refload"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/sandbox"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/stream"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

type Options struct {
	SchemaPath string
	BaseDir    string
	RepoBase   bool
	PatchPath  string
}

type Service struct {
	deps Dependencies
}

func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// Session is a compiled schema bound to its sandbox. All reference loading
// has completed by the time Prepare returns one.
type Session struct {
	stream  *stream.Service
	reports ReportStore
	clock   Clock
	ids     IDGenerator

	schemaPath string
	baseDir    string
	digest     string
	commit     string
}

func (s *Session) BaseDir() string {
	return s.baseDir
}

func (s *Session) SchemaPath() string {
	return s.schemaPath
}

func (s *Session) SchemaDigest() string {
	return s.digest
}

func (s *Service) Prepare(ctx context.Context, opts Options) (*Session, error) {
	schemaPath, err := paths.NormalizeSchemaPath(opts.SchemaPath)
	if err != nil {
		return nil, err
	}
	baseArg := strings.TrimSpace(opts.BaseDir)
	if opts.RepoBase && baseArg != "" {
		return nil, ErrBaseDirConflict
	}

	data, err := s.deps.Source.ReadSchema(ctx, schemaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, schemaPath)
		}
		return nil, err
	}
	raw, err := s.deps.Parser.Parse(schemaPath, data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrSchemaParse, schemaPath, err)
	}

	if patchPath := strings.TrimSpace(opts.PatchPath); patchPath != "" {
		raw, err = s.applyPatch(ctx, raw, patchPath)
		if err != nil {
			return nil, err
		}
	}

	worktree, err := s.locate(ctx, schemaPath, opts.RepoBase)
	if err != nil {
		return nil, err
	}

	baseDir := baseArg
	switch {
	case opts.RepoBase:
		baseDir = worktree.Root
	case baseDir == "":
		baseDir = paths.DefaultBaseDir(schemaPath)
	}

	guard, err := sandbox.NewGuard(s.deps.Resolver, baseDir)
	if err != nil {
		return nil, err
	}
	loader := refload.NewLoader(guard, s.deps.Source, s.deps.Parser)

	root := domain.SchemaDocument{Location: schemaPath, Raw: raw}
	rootURL := refload.FileURL(filepath.Join(guard.Base(), filepath.Base(schemaPath)))
	validator, err := s.deps.Compiler.Compile(ctx, rootURL, root, loader)
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrSchemaCompile, schemaPath, err)
	}

	digest := s.digest(ctx, raw)
	slog.Info("schema compiled", "schema", schemaPath, "base_dir", guard.Base(), "digest", digest, "commit", worktree.Head)

	return &Session{
		stream:     stream.NewService(s.deps.Decoder, validator),
		reports:    s.deps.Reports,
		clock:      s.deps.Clock,
		ids:        s.deps.IDs,
		schemaPath: schemaPath,
		baseDir:    guard.Base(),
		digest:     digest,
		commit:     worktree.Head,
	}, nil
}

func (s *Service) applyPatch(ctx context.Context, raw []byte, patchPath string) ([]byte, error) {
	if s.deps.Patcher == nil {
		return nil, fmt.Errorf("%w: patching not configured", ErrSchemaPatch)
	}
	patch, err := s.deps.Source.ReadSchema(ctx, patchPath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSchemaPatch, patchPath, err)
	}
	patched, err := s.deps.Patcher.Apply(ctx, raw, patch)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSchemaPatch, patchPath, err)
	}
	slog.Debug("schema patch applied", "patch", patchPath, "bytes", len(patched))
	return patched, nil
}

// locate finds the enclosing work tree. Outside --repo-base mode it is only
// used to stamp the schema commit, so failures are ignored.
func (s *Service) locate(ctx context.Context, schemaPath string, required bool) (domain.Worktree, error) {
	if s.deps.Locator == nil {
		if required {
			return domain.Worktree{}, fmt.Errorf("%w: git support not configured", ErrRepoBaseUnresolved)
		}
		return domain.Worktree{}, nil
	}
	worktree, err := s.deps.Locator.Locate(ctx, filepath.Dir(schemaPath))
	if err != nil {
		if required {
			return domain.Worktree{}, fmt.Errorf("%w: %w", ErrRepoBaseUnresolved, err)
		}
		slog.Debug("schema not in a git work tree", "schema", schemaPath, "err", err)
		return domain.Worktree{}, nil
	}
	return worktree, nil
}

func (s *Service) digest(ctx context.Context, raw []byte) string {
	if s.deps.Fingerprinter == nil {
		return ""
	}
	digest, err := s.deps.Fingerprinter.Digest(ctx, raw)
	if err != nil {
		slog.Debug("schema digest unavailable", "err", err)
		return ""
	}
	return digest
}

// Validate runs the stream loop over r. The report reflects the state the
// loop reached and is returned alongside the loop's error.
func (s *Session) Validate(ctx context.Context, r io.Reader) (domain.RunReport, error) {
	started := s.now()
	report := domain.RunReport{
		StartedAt:    started,
		SchemaPath:   s.schemaPath,
		SchemaDigest: s.digest,
		SchemaCommit: s.commit,
		BaseDir:      s.baseDir,
	}
	if s.ids != nil {
		id, err := s.ids.NewRunID(started)
		if err != nil {
			return report, err
		}
		report.RunID = id
	}
	logger := slog.With("run_id", report.RunID)
	logger.Debug("stream started", "schema", s.schemaPath)

	state, runErr := s.stream.Run(ctx, r)
	report.FinishedAt = s.now()
	report.Lines = state.Lines
	report.Records = state.Records
	report.Outcome = state.Outcome()

	var failure *stream.Failure
	switch {
	case errors.As(runErr, &failure):
		report.FailureLine = failure.Line
		report.FailureReason = failure.Summary()
		report.FailureRecord = string(failure.Record)
		report.Violations = failure.Violations
	case runErr != nil && !errors.Is(runErr, domain.ErrNoData):
		report.Outcome = domain.OutcomeInvalid
		report.FailureLine = state.Lines
		report.FailureReason = runErr.Error()
	}

	logger.Info("stream finished", "outcome", report.Outcome, "lines", report.Lines, "records", report.Records)

	if s.reports != nil {
		if err := s.reports.RecordRun(ctx, report); err != nil {
			logger.Warn("record run failed", "err", err)
		}
	}
	return report, runErr
}

func (s *Session) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now()
}
