package sqlitereport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/reportcodec"
	_ "modernc.org/sqlite"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

type OpenOptions struct {
	Fast bool
}

func Open(path string) (*Store, error) {
	return OpenWithOptions(path, OpenOptions{})
}

func OpenWithOptions(path string, opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path required")
	}

	if shouldCreateDir(path) {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.applyPragmas(context.Background(), opts); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) RecordRun(ctx context.Context, report domain.RunReport) error {
	violations, err := reportcodec.EncodeViolations(report.Violations)
	if err != nil {
		return fmt.Errorf("encode run violations: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO validation_runs (
			run_id, started_at, finished_at, schema_path, schema_digest, schema_commit,
			base_dir, outcome, exit_code, lines, records, failure_line, failure_reason, failure_record, violations
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.RunID,
		report.StartedAt.UTC().UnixNano(),
		report.FinishedAt.UTC().UnixNano(),
		report.SchemaPath,
		report.SchemaDigest,
		report.SchemaCommit,
		report.BaseDir,
		string(report.Outcome),
		report.ExitCode(),
		report.Lines,
		report.Records,
		report.FailureLine,
		report.FailureReason,
		report.FailureRecord,
		violations,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, runID string) (domain.RunReport, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE run_id = ?", runID)
	report, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RunReport{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return domain.RunReport{}, err
	}
	return report, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY started_at DESC, run_id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var reports []domain.RunReport
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return reports, nil
}

const selectRuns = `
	SELECT run_id, started_at, finished_at, schema_path, schema_digest, schema_commit,
		base_dir, outcome, lines, records, failure_line, failure_reason, failure_record, violations
	FROM validation_runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (domain.RunReport, error) {
	var report domain.RunReport
	var startedAt, finishedAt int64
	var outcome string
	var violations []byte
	if err := row.Scan(
		&report.RunID,
		&startedAt,
		&finishedAt,
		&report.SchemaPath,
		&report.SchemaDigest,
		&report.SchemaCommit,
		&report.BaseDir,
		&outcome,
		&report.Lines,
		&report.Records,
		&report.FailureLine,
		&report.FailureReason,
		&report.FailureRecord,
		&violations,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RunReport{}, err
		}
		return domain.RunReport{}, fmt.Errorf("scan run: %w", err)
	}

	parsed, err := domain.ParseOutcome(outcome)
	if err != nil {
		return domain.RunReport{}, err
	}
	report.Outcome = parsed
	report.StartedAt = time.Unix(0, startedAt).UTC()
	report.FinishedAt = time.Unix(0, finishedAt).UTC()

	report.Violations, err = reportcodec.DecodeViolations(violations)
	if err != nil {
		return domain.RunReport{}, err
	}
	return report, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS validation_runs (
			run_id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			schema_path TEXT NOT NULL,
			schema_digest TEXT NOT NULL DEFAULT '',
			base_dir TEXT NOT NULL,
			outcome TEXT NOT NULL CHECK (outcome IN ('valid', 'invalid', 'no_data')),
			exit_code INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			records INTEGER NOT NULL,
			failure_line INTEGER NOT NULL DEFAULT 0,
			failure_reason TEXT NOT NULL DEFAULT '',
			violations BLOB
		)
	`); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	if err := s.ensureRunColumns(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS validation_runs_started_at ON validation_runs (started_at)
	`); err != nil {
		return fmt.Errorf("create runs index: %w", err)
	}
	return nil
}

// runColumnUpgrades are columns added after the first release of the table.
var runColumnUpgrades = []struct {
	name string
	ddl  string
}{
	{name: "schema_commit", ddl: "ALTER TABLE validation_runs ADD COLUMN schema_commit TEXT NOT NULL DEFAULT ''"},
	{name: "failure_record", ddl: "ALTER TABLE validation_runs ADD COLUMN failure_record TEXT NOT NULL DEFAULT ''"},
}

// ensureRunColumns upgrades report databases created by older versions.
func (s *Store) ensureRunColumns(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info(validation_runs)")
	if err != nil {
		return fmt.Errorf("read runs table info: %w", err)
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var colType string
		var notNull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scan runs table info: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate runs table info: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close runs table info: %w", err)
	}

	for _, column := range runColumnUpgrades {
		if existing[column.name] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, column.ddl); err != nil {
			return fmt.Errorf("add %s column: %w", column.name, err)
		}
	}
	return nil
}

func (s *Store) applyPragmas(ctx context.Context, opts OpenOptions) error {
	if !opts.Fast {
		return nil
	}
	var mode string
	if err := s.db.QueryRowContext(ctx, "PRAGMA journal_mode = WAL").Scan(&mode); err != nil {
		return fmt.Errorf("set journal_mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA synchronous = NORMAL"); err != nil {
		return fmt.Errorf("set synchronous: %w", err)
	}
	return nil
}

func shouldCreateDir(path string) bool {
	if path == ":memory:" {
		return false
	}
	if strings.HasPrefix(path, "file:") {
		return false
	}
	return true
}
