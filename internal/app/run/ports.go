package run

import (
	"context"
	"time"

	"github.com/osvaldoandrade/jsonlvalidate/internal/app/sandbox"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/stream"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

type SchemaSource interface {
	ReadSchema(ctx context.Context, path string) ([]byte, error)
}

type DocumentParser interface {
	Parse(path string, data []byte) ([]byte, error)
}

type Patcher interface {
	Apply(ctx context.Context, doc, patch []byte) ([]byte, error)
}

type Fingerprinter interface {
	Digest(ctx context.Context, input []byte) (string, error)
}

type RepoLocator interface {
	Locate(ctx context.Context, path string) (domain.Worktree, error)
}

type ReferenceLoader interface {
	Load(ctx context.Context, ref string) (domain.SchemaDocument, error)
}

type Compiler interface {
	Compile(ctx context.Context, rootURL string, root domain.SchemaDocument, loader ReferenceLoader) (stream.RecordValidator, error)
}

type ReportStore interface {
	RecordRun(ctx context.Context, report domain.RunReport) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewRunID(at time.Time) (string, error)
}

// Dependencies groups the adapters a Service wires together. Locator, Patcher,
// Fingerprinter and Reports may be nil.
type Dependencies struct {
	Source        SchemaSource
	Parser        DocumentParser
	Decoder       stream.RecordDecoder
	Resolver      sandbox.PathResolver
	Compiler      Compiler
	Patcher       Patcher
	Fingerprinter Fingerprinter
	Locator       RepoLocator
	Reports       ReportStore
	Clock         Clock
	IDs           IDGenerator
}
