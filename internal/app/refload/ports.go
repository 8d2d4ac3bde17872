package refload

import (
	"context"

	"github.com/osvaldoandrade/jsonlvalidate/internal/app/sandbox"
)

type Guard interface {
	Base() string
	Check(candidate string) sandbox.Verdict
}

type FileReader interface {
	ReadSchema(ctx context.Context, path string) ([]byte, error)
}

type DocumentParser interface {
	Parse(path string, data []byte) ([]byte, error)
}
