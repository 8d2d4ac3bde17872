package jsondoc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// Parser turns schema file content into JSON text. Files ending in .yaml or
// .yml are decoded as YAML first; everything else must already be JSON.
type Parser struct{}

func (Parser) Parse(path string, data []byte) ([]byte, error) {
	if isYAML(path) {
		return yamlToJSON(data)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	var value any
	if err := json.Unmarshal(data, &value, jsontext.AllowDuplicateNames(true)); err != nil {
		return nil, err
	}
	return data, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if value == nil {
		return nil, fmt.Errorf("empty document")
	}
	out, err := json.Marshal(value, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode yaml as json: %w", err)
	}
	return out, nil
}
