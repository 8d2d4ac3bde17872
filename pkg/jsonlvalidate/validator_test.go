package jsonlvalidate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func writeSchema(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func openScenario(t *testing.T, cfg Config) *Validator {
	t.Helper()
	v, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestValidateStream(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	writeSchema(t, schemaPath, `{"type":"object","required":["foo"],"properties":{"foo":{"type":"string"}}}`)
	v := openScenario(t, DefaultConfig(schemaPath))

	report, err := v.ValidateStream(context.Background(), strings.NewReader("{\"foo\":\"bar\"}\n"))
	if err != nil {
		t.Fatalf("ValidateStream returned error: %v", err)
	}
	if report.Outcome != OutcomeValid || report.ExitCode != 0 || report.Records != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.RunID == "" || report.SchemaDigest == "" {
		t.Fatalf("expected run id and digest, got %+v", report)
	}

	report, err = v.ValidateStream(context.Background(), strings.NewReader("{\"foo\":1}\n"))
	if ExitCode(err) != 1 || FailureLine(err) != 1 {
		t.Fatalf("expected failure on line 1, got %v", err)
	}
	if report.Outcome != OutcomeInvalid || len(report.Violations) == 0 || report.Violations[0].InstanceLocation != "/foo" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.FailureRecord != `{"foo":1}` {
		t.Fatalf("expected failing record in report, got %q", report.FailureRecord)
	}

	report, err = v.ValidateStream(context.Background(), strings.NewReader(""))
	if !errors.Is(err, ErrNoData) || ExitCode(err) != 2 {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if report.Outcome != OutcomeNoData {
		t.Fatalf("expected no_data outcome, got %s", report.Outcome)
	}
}

func TestOpenDeniesEscapingReference(t *testing.T) {
	root := t.TempDir()
	writeSchema(t, filepath.Join(root, "outside.json"), `{"type":"string"}`)
	schemaPath := filepath.Join(root, "base", "schema.json")
	writeSchema(t, schemaPath, `{"properties":{"foo":{"$ref":"../outside.json"}}}`)

	_, err := Open(context.Background(), DefaultConfig(schemaPath))
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if ExitCode(err) != 1 || !strings.Contains(err.Error(), "Access denied") {
		t.Fatalf("unexpected error %v", err)
	}

	cfg := DefaultConfig(schemaPath)
	cfg.BaseDir = root
	v := openScenario(t, cfg)
	if _, err := v.ValidateStream(context.Background(), strings.NewReader("{\"foo\":\"x\"}\n")); err != nil {
		t.Fatalf("expected widened base to allow reference, got %v", err)
	}
}

func TestOpenValidatesConfig(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); !errors.Is(err, ErrSchemaPathRequired) {
		t.Fatalf("expected ErrSchemaPathRequired, got %v", err)
	}
	cfg := DefaultConfig("schema.json")
	cfg.BaseDir = "."
	cfg.RepoBase = true
	if _, err := Open(context.Background(), cfg); !errors.Is(err, ErrBaseDirConflict) {
		t.Fatalf("expected ErrBaseDirConflict, got %v", err)
	}
}

func TestFormatAssertionIsConfigurable(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	writeSchema(t, schemaPath, `{"properties":{"email":{"type":"string","format":"email"}}}`)
	input := "{\"email\":\"not-an-email\"}\n"

	strict := openScenario(t, DefaultConfig(schemaPath))
	if _, err := strict.ValidateStream(context.Background(), strings.NewReader(input)); err == nil {
		t.Fatalf("expected format violation")
	}

	cfg := DefaultConfig(schemaPath)
	cfg.AssertFormat = false
	lenient := openScenario(t, cfg)
	if _, err := lenient.ValidateStream(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("expected format to be annotation only, got %v", err)
	}
}

func TestValidateStreamConcurrentAndClose(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	writeSchema(t, schemaPath, `{"type":"integer"}`)
	cfg := DefaultConfig(schemaPath)
	cfg.Reports.DBPath = filepath.Join(dir, "runs.db")
	v, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := v.ValidateStream(context.Background(), strings.NewReader("1\n2\n3\n"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("ValidateStream returned error: %v", err)
		}
	}

	if err := v.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := v.ValidateStream(context.Background(), strings.NewReader("1\n")); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
