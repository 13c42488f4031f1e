package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionsSchema describes the question array the generate endpoint
// returns inside its "quiz" field. The backend assembles this payload from
// model output, so it is treated as untrusted and checked before decoding.
var questionsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pytanie": map[string]any{
				"type": "string",
			},
			"odpowiedzi": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"poprawna": map[string]any{
				"type": "string",
			},
		},
		"required": []any{"pytanie", "odpowiedzi", "poprawna"},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateQuestions checks the raw question payload against
// questionsSchema. Returns *ErrInvalidPayload on any mismatch.
func validateQuestions(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidPayload{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compileOnce.Do(func() {
		// The compiler expects a parsed JSON value; round-trip the Go map
		// to get a clean representation.
		defBytes, err := json.Marshal(questionsSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://quiz-questions.json"
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	if compileErr != nil {
		return &ErrInvalidPayload{Err: compileErr}
	}

	if err := compiledSchema.Validate(parsed); err != nil {
		return &ErrInvalidPayload{Err: err}
	}
	return nil
}
