package stream

import "github.com/osvaldoandrade/jsonlvalidate/internal/domain"

type RecordDecoder interface {
	Decode(line []byte) (any, error)
}

type RecordValidator interface {
	ValidateRecord(value any) []domain.Violation
}
