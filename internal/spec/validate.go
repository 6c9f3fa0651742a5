package spec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// daoSchema is the JSON Schema every deployment spec must satisfy.
const daoSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "DAO deployment spec",
  "type": "object",
  "required": ["orgName", "token", "members"],
  "additionalProperties": false,
  "properties": {
    "orgName": {"type": "string", "minLength": 1},
    "token": {
      "type": "object",
      "required": ["name", "symbol"],
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "symbol": {"type": "string", "minLength": 1, "maxLength": 12},
        "decimals": {"type": "integer", "minimum": 0, "maximum": 18}
      }
    },
    "members": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["address"],
        "additionalProperties": false,
        "properties": {
          "address": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"},
          "tokens": {"type": "number", "minimum": 0},
          "reputation": {"type": "number", "minimum": 0}
        }
      }
    },
    "schemes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind"],
        "additionalProperties": false,
        "properties": {
          "kind": {
            "type": "string",
            "enum": ["ContributionReward", "SchemeRegistrar", "GenericScheme"]
          },
          "params": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

// ValidationError aggregates every problem found in a spec document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid deployment spec: " + e.Issues[0]
	}
	return fmt.Sprintf("invalid deployment spec (%d issues):\n  - %s",
		len(e.Issues), strings.Join(e.Issues, "\n  - "))
}

// Validate checks a JSON spec document against the schema plus the semantic
// rules the schema cannot express (duplicate member addresses, duplicate
// scheme kinds). A nil return means the document is deployable.
func Validate(jsonData []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(daoSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate deployment spec: %w", err)
	}

	var issues []string
	if !result.Valid() {
		for _, desc := range result.Errors() {
			issues = append(issues, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return &ValidationError{Issues: issues}
	}

	var dao DAO
	if err := json.Unmarshal(jsonData, &dao); err != nil {
		return fmt.Errorf("failed to parse deployment spec: %w", err)
	}

	seen := make(map[string]bool)
	for i, member := range dao.Members {
		addr := strings.ToLower(member.Address)
		if seen[addr] {
			issues = append(issues, fmt.Sprintf("members.%d: duplicate address %s", i, member.Address))
		}
		seen[addr] = true
	}

	kinds := make(map[string]bool)
	for i, scheme := range dao.Schemes {
		if kinds[scheme.Kind] {
			issues = append(issues, fmt.Sprintf("schemes.%d: duplicate scheme %s", i, scheme.Kind))
		}
		kinds[scheme.Kind] = true
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
