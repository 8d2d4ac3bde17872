package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/refload"
	runapp "github.com/osvaldoandrade/jsonlvalidate/internal/app/run"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/sandbox"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/stream"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
	"github.com/osvaldoandrade/jsonlvalidate/internal/infra/sqlitereport"
)

func TestNormalizeError(t *testing.T) {
	denied := &refload.AccessDeniedError{Reference: "../outside.json", Path: "/srv/outside.json", Base: "/srv/base"}
	tests := []struct {
		err      error
		wantCode int
		wantKind ErrorKind
	}{
		{err: denied, wantCode: ExitInvalid, wantKind: KindAccessDenied},
		{err: fmt.Errorf("%w (root.json): %w", runapp.ErrSchemaCompile, denied), wantCode: ExitInvalid, wantKind: KindAccessDenied},
		{err: domain.ErrNoData, wantCode: ExitNoData, wantKind: KindNoData},
		{err: &stream.Failure{Kind: stream.FailureParse, Line: 3, Reason: errors.New("bad")}, wantCode: ExitInvalid, wantKind: KindParse},
		{err: &stream.Failure{Kind: stream.FailureSchema, Line: 1}, wantCode: ExitInvalid, wantKind: KindValidation},
		{err: runapp.ErrSchemaNotFound, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: runapp.ErrSchemaParse, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: runapp.ErrSchemaCompile, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: runapp.ErrBaseDirConflict, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: sandbox.ErrBaseDirInvalid, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: refload.ErrReferenceNotFound, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: domain.ErrSchemaPathRequired, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: ErrReportDBRequired, wantCode: ExitInvalid, wantKind: KindStartup},
		{err: sqlitereport.ErrRunNotFound, wantCode: ExitInvalid, wantKind: KindNotFound},
		{err: stream.ErrReadInput, wantCode: ExitInternal, wantKind: KindInternal},
		{err: errors.New("boom"), wantCode: ExitInternal, wantKind: KindInternal},
	}

	for _, tt := range tests {
		got := NormalizeError(tt.err)
		if got.Code != tt.wantCode {
			t.Fatalf("expected code %d, got %d for %v", tt.wantCode, got.Code, tt.err)
		}
		if got.Kind != tt.wantKind {
			t.Fatalf("expected kind %s, got %s for %v", tt.wantKind, got.Kind, tt.err)
		}
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("expected ExitCode(nil) == 0")
	}

	custom := ExitError{Code: 9, Kind: KindInternal, Message: "custom"}
	if ExitCode(custom) != 9 {
		t.Fatalf("expected ExitCode(custom) == 9")
	}
	if ExitCode(domain.ErrNoData) != 2 {
		t.Fatalf("expected no data to exit 2")
	}
}

func TestWriteCLIErrorTextListsViolations(t *testing.T) {
	failure := &stream.Failure{
		Kind:   stream.FailureSchema,
		Line:   4,
		Record: []byte(`{"foo":1}`),
		Violations: []domain.Violation{
			{InstanceLocation: "/foo", KeywordLocation: "/properties/foo/type", Message: "expected string, but got number"},
			{KeywordLocation: "/required", Message: "missing properties: 'bar'"},
		},
	}

	var buf bytes.Buffer
	if err := writeCLIError(&buf, NormalizeError(failure), false); err != nil {
		t.Fatalf("writeCLIError returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", buf.String())
	}
	if lines[0] != "Error (validation): Validation error on line 4: 2 violation(s)" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `  record: {"foo":1}` {
		t.Fatalf("unexpected record line %q", lines[1])
	}
	if !strings.Contains(lines[2], "line 4: /foo: expected string") {
		t.Fatalf("unexpected violation line %q", lines[2])
	}
	if !strings.Contains(lines[3], "line 4: (root): missing properties") {
		t.Fatalf("unexpected violation line %q", lines[3])
	}
}

func TestWriteCLIErrorJSON(t *testing.T) {
	failure := &stream.Failure{
		Kind:       stream.FailureSchema,
		Line:       2,
		Record:     []byte(`{"foo":1}`),
		Violations: []domain.Violation{{InstanceLocation: "/foo", Message: "expected string"}},
	}

	var buf bytes.Buffer
	if err := writeCLIError(&buf, NormalizeError(failure), true); err != nil {
		t.Fatalf("writeCLIError returned error: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected one JSON line, got %q", buf.String())
	}

	var payload struct {
		Code       int    `json:"code"`
		Kind       string `json:"kind"`
		Line       int    `json:"line"`
		Record     string `json:"record"`
		Violations []struct {
			Instance string `json:"instance"`
		} `json:"violations"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Code != 1 || payload.Kind != "validation" || payload.Line != 2 || payload.Record != `{"foo":1}` {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(payload.Violations) != 1 || payload.Violations[0].Instance != "/foo" {
		t.Fatalf("unexpected violations %+v", payload.Violations)
	}
}
