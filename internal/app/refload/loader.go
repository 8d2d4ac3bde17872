package refload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

type Loader struct {
	guard  Guard
	reader FileReader
	parser DocumentParser
}

func NewLoader(guard Guard, reader FileReader, parser DocumentParser) *Loader {
	return &Loader{
		guard:  guard,
		reader: reader,
		parser: parser,
	}
}

// Load resolves a $ref target inside the sandbox and returns its JSON text.
func (l *Loader) Load(ctx context.Context, ref string) (domain.SchemaDocument, error) {
	if err := ctx.Err(); err != nil {
		return domain.SchemaDocument{}, err
	}

	clean := stripFragment(ref)
	if clean == "" {
		return domain.EmptySchemaDocument(), nil
	}

	candidate, err := l.candidatePath(clean)
	if err != nil {
		return domain.SchemaDocument{}, fmt.Errorf("%w: %s", err, ref)
	}

	verdict := l.guard.Check(candidate)
	if !verdict.Permitted() {
		path := verdict.Resolved
		if path == "" {
			path = candidate
		}
		slog.Debug("reference denied", "ref", ref, "path", path, "decision", verdict.Decision.String())
		return domain.SchemaDocument{}, &AccessDeniedError{
			Reference: ref,
			Path:      path,
			Base:      l.guard.Base(),
			Reason:    verdict.Err,
		}
	}

	data, err := l.reader.ReadSchema(ctx, verdict.Resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SchemaDocument{}, fmt.Errorf("%w: %s (from %s)", ErrReferenceNotFound, verdict.Resolved, ref)
		}
		return domain.SchemaDocument{}, fmt.Errorf("load referenced schema %s: %w", verdict.Resolved, err)
	}

	raw, err := l.parser.Parse(verdict.Resolved, data)
	if err != nil {
		return domain.SchemaDocument{}, fmt.Errorf("%w %s: %v", ErrReferenceParse, verdict.Resolved, err)
	}

	slog.Debug("reference loaded", "ref", ref, "path", verdict.Resolved, "bytes", len(raw))
	return domain.SchemaDocument{Location: verdict.Resolved, Raw: raw}, nil
}

func (l *Loader) candidatePath(ref string) (string, error) {
	if path, ok, err := fileURLPath(ref); ok || err != nil {
		if err != nil {
			return "", err
		}
		return filepath.Clean(path), nil
	}

	path := filepath.FromSlash(ref)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(l.guard.Base(), path), nil
}

func stripFragment(ref string) string {
	if idx := strings.IndexByte(ref, '#'); idx >= 0 {
		ref = ref[:idx]
	}
	return strings.TrimSpace(ref)
}

// fileURLPath decodes file:// URLs. ok is false for plain paths; any other
// URL scheme is rejected.
func fileURLPath(ref string) (string, bool, error) {
	if !hasScheme(ref) {
		return "", false, nil
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", true, fmt.Errorf("parse reference: %w", err)
	}
	if !strings.EqualFold(parsed.Scheme, "file") {
		return "", true, fmt.Errorf("%w %q", ErrUnsupportedScheme, parsed.Scheme)
	}
	if parsed.Host != "" && parsed.Host != "localhost" {
		return "", true, fmt.Errorf("%w: remote file host %q", ErrUnsupportedScheme, parsed.Host)
	}
	path := parsed.Path
	if runtime.GOOS == "windows" {
		path = strings.TrimPrefix(path, "/")
	}
	return filepath.FromSlash(path), true, nil
}

// hasScheme reports whether ref starts with an RFC 3986 scheme. Single letter
// schemes are treated as Windows drive letters.
func hasScheme(ref string) bool {
	colon := strings.IndexByte(ref, ':')
	if colon < 2 {
		return false
	}
	for i, r := range ref[:colon] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
