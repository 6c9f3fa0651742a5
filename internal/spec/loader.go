package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a deployment spec from a JSON or YAML file. It
// returns both the parsed spec and the canonical JSON document to hand to
// the engine.
func Load(path string) (*DAO, json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse YAML spec: %w", err)
		}
	}

	if err := Validate(data); err != nil {
		return nil, nil, err
	}

	var dao DAO
	if err := json.Unmarshal(data, &dao); err != nil {
		return nil, nil, fmt.Errorf("failed to parse spec file: %w", err)
	}

	canonical, err := dao.Marshal()
	if err != nil {
		return nil, nil, err
	}
	return &dao, canonical, nil
}

// yamlToJSON converts a YAML document to JSON so a single schema validates
// both formats.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc = normalizeYAML(doc)
	return json.Marshal(doc)
}

// normalizeYAML rewrites map keys to strings; yaml.v3 already decodes
// mappings as map[string]any but nested any-keyed maps can appear through
// aliases.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeYAML(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalizeYAML(item)
		}
		return val
	default:
		return v
	}
}
