package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

func NormalizeSchemaPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", domain.ErrSchemaPathRequired
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve schema path: %w", err)
	}

	return absPath, nil
}

// DefaultBaseDir is the directory holding the schema file.
func DefaultBaseDir(schemaPath string) string {
	return filepath.Dir(schemaPath)
}
