package schema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ReferenceResolver loads the schema document behind an external $ref. The
// engine calls it once per distinct reference URL during compilation.
type ReferenceResolver interface {
	Load(ctx context.Context, ref string) (domain.SchemaDocument, error)
}

type Compiler struct {
	AssertFormat bool
}

func NewCompiler() Compiler {
	return Compiler{AssertFormat: true}
}

// Compile registers root at rootURL and compiles it. Every reference the
// engine cannot satisfy from already-registered resources goes through
// resolver; no other file access happens.
func (c Compiler) Compile(ctx context.Context, rootURL string, root domain.SchemaDocument, resolver ReferenceResolver) (*Validator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = c.AssertFormat

	var refErr error
	compiler.LoadURL = func(ref string) (io.ReadCloser, error) {
		doc, err := resolver.Load(ctx, ref)
		if err != nil {
			if refErr == nil {
				refErr = err
			}
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(doc.Raw)), nil
	}

	if err := compiler.AddResource(rootURL, bytes.NewReader(root.Raw)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	compiled, err := compiler.Compile(rootURL)
	if err != nil {
		if refErr != nil {
			return nil, fmt.Errorf("compile schema: %w", refErr)
		}
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

type Validator struct {
	schema *jsonschema.Schema
}

// ValidateRecord returns the leaf violations for value; an empty result means
// the record is valid.
func (v *Validator) ValidateRecord(value any) []domain.Violation {
	err := v.schema.Validate(value)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []domain.Violation{{Message: err.Error()}}
	}

	var violations []domain.Violation
	collectViolations(validationErr, &violations)
	return violations
}

func collectViolations(err *jsonschema.ValidationError, out *[]domain.Violation) {
	if len(err.Causes) == 0 {
		*out = append(*out, domain.Violation{
			InstanceLocation: err.InstanceLocation,
			KeywordLocation:  err.KeywordLocation,
			Message:          err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}
