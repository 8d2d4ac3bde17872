package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

const (
	initialBufferSize = 64 * 1024
	maxLineSize       = 10 * 1024 * 1024
)

type Service struct {
	decoder   RecordDecoder
	validator RecordValidator
}

func NewService(decoder RecordDecoder, validator RecordValidator) *Service {
	return &Service{
		decoder:   decoder,
		validator: validator,
	}
}

// Run consumes r one line at a time until end of input or the first failure.
// The returned state is always the state reached, also when err is non-nil.
// A terminal record failure is returned as *Failure; an empty stream as
// domain.ErrNoData.
func (s *Service) Run(ctx context.Context, r io.Reader) (domain.StreamState, error) {
	var state domain.StreamState

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialBufferSize), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if failure := s.Step(&state, scanner.Bytes()); failure != nil {
			return state, failure
		}
	}
	if err := scanner.Err(); err != nil {
		return state, fmt.Errorf("%w after line %d: %v", ErrReadInput, state.Lines, err)
	}

	if state.Outcome() == domain.OutcomeNoData {
		return state, domain.ErrNoData
	}
	return state, nil
}

// Step advances state by one input line.
func (s *Service) Step(state *domain.StreamState, line []byte) *Failure {
	state.Lines++
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil
	}
	state.Records++

	value, err := s.decoder.Decode(trimmed)
	if err != nil {
		state.Failed = true
		return &Failure{
			Kind:   FailureParse,
			Line:   state.Lines,
			Record: append([]byte(nil), trimmed...),
			Reason: err,
		}
	}

	if violations := s.validator.ValidateRecord(value); len(violations) > 0 {
		state.Failed = true
		return &Failure{
			Kind:       FailureSchema,
			Line:       state.Lines,
			Record:     append([]byte(nil), trimmed...),
			Violations: violations,
		}
	}
	return nil
}
