package run

import "errors"

var (
	ErrSchemaNotFound     = errors.New("Schema file not found")
	ErrSchemaParse        = errors.New("Failed to parse schema")
	ErrSchemaCompile      = errors.New("Failed to compile schema")
	ErrSchemaPatch        = errors.New("Failed to apply schema patch")
	ErrBaseDirConflict    = errors.New("use either base-dir or --repo-base, not both")
	ErrRepoBaseUnresolved = errors.New("cannot use --repo-base")
)
