package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// moduleSchema defines the JSON schema for authored module documents.
var moduleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":         map[string]any{"type": "string", "minLength": 1},
		"title":      map[string]any{"type": "string"},
		"level_tier": map[string]any{"type": "string", "minLength": 2},
		"estimated_duration_minutes": map[string]any{
			"type":    "integer",
			"minimum": 1,
		},
		"vocabulary": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"term":        map[string]any{"type": "string", "minLength": 1},
					"translation": map[string]any{"type": "string"},
					"category":    map[string]any{"type": "string"},
				},
				"required": []any{"term"},
			},
		},
		"grammar_patterns": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"exercises": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{"type": "string", "minLength": 1},
					"type": map[string]any{
						"type": "string",
						"enum": []any{"translation", "multiple_choice", "fill_blank", "listening"},
					},
					"prompt":         map[string]any{"type": "string"},
					"correct_answer": map[string]any{"type": "string"},
					"point_value":    map[string]any{"type": "integer", "minimum": 1},
				},
				"required": []any{"id", "type", "point_value"},
			},
		},
		"learning_objectives": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"role_play": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"situation":    map[string]any{"type": "string", "minLength": 1},
				"student_role": map[string]any{"type": "string", "minLength": 1},
				"ai_role":      map[string]any{"type": "string", "minLength": 1},
				"setting":      map[string]any{"type": "string"},
				"objective":    map[string]any{"type": "string", "minLength": 1},
				"conversation_stages": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":        map[string]any{"type": "string"},
							"description": map[string]any{"type": "string"},
						},
					},
				},
			},
			"required": []any{"situation", "student_role", "ai_role", "objective"},
		},
	},
	"required":             []any{"id", "level_tier", "estimated_duration_minutes"},
	"additionalProperties": false,
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not raw bytes.
		defBytes, err := json.Marshal(moduleSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://module.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ParseModule validates a raw module document against the JSON schema, then
// unmarshals it and checks the structural invariants.
func ParseModule(raw []byte) (*ModuleDefinition, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid module JSON: %w", err)
	}

	compiled, err := getCompiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile module schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("module schema validation failed: %w", err)
	}

	var m ModuleDefinition
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
