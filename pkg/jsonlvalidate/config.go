package jsonlvalidate

import "strings"

// Config defines how a Validator loads its schema and where it may read
// referenced files from.
type Config struct {
	// SchemaPath is the root JSON or YAML schema file.
	SchemaPath string
	// BaseDir bounds every external $ref. Empty means the schema's directory.
	BaseDir string
	// RepoBase uses the enclosing git work tree root as BaseDir.
	RepoBase bool
	// SchemaPatch optionally names an RFC 6902 or RFC 7386 patch applied to
	// the root schema before compilation.
	SchemaPatch string
	// AssertFormat makes "format" keywords fail validation. Defaults to true
	// through DefaultConfig.
	AssertFormat bool
	Reports      ReportConfig
}

// ReportConfig configures the optional SQLite run history.
type ReportConfig struct {
	DBPath string
	Fast   bool
}

// DefaultConfig returns a Config that validates against schemaPath with the
// schema directory as sandbox.
func DefaultConfig(schemaPath string) Config {
	return Config{
		SchemaPath:   schemaPath,
		AssertFormat: true,
		Reports: ReportConfig{
			Fast: true,
		},
	}
}

func normalizeConfig(cfg Config) (Config, error) {
	cfg.SchemaPath = strings.TrimSpace(cfg.SchemaPath)
	if cfg.SchemaPath == "" {
		return cfg, ErrSchemaPathRequired
	}
	cfg.BaseDir = strings.TrimSpace(cfg.BaseDir)
	if cfg.RepoBase && cfg.BaseDir != "" {
		return cfg, ErrBaseDirConflict
	}
	cfg.SchemaPatch = strings.TrimSpace(cfg.SchemaPatch)
	cfg.Reports.DBPath = strings.TrimSpace(cfg.Reports.DBPath)
	return cfg, nil
}
