package schema

import (
	"context"

	runapp "github.com/osvaldoandrade/jsonlvalidate/internal/app/run"
	"github.com/osvaldoandrade/jsonlvalidate/internal/app/stream"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

// Engine exposes Compiler through the run service's port.
type Engine struct {
	Compiler Compiler
}

func NewEngine() Engine {
	return Engine{Compiler: NewCompiler()}
}

func (e Engine) Compile(ctx context.Context, rootURL string, root domain.SchemaDocument, loader runapp.ReferenceLoader) (stream.RecordValidator, error) {
	validator, err := e.Compiler.Compile(ctx, rootURL, root, loader)
	if err != nil {
		return nil, err
	}
	return validator, nil
}
