package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Persisted documents are validated on load so a corrupted store surfaces
// as a storage error instead of a half-decoded record slice.

const codeNameArraySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"code": {"type": "string"},
			"name": {"type": "string"}
		},
		"required": ["code", "name"]
	}
}`

const historyArraySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"id": {"type": "string"},
			"is_boleto": {"type": "boolean"}
		},
		"required": ["id", "is_boleto"]
	}
}`

var (
	codeNameSchema = mustCompile("code_name_array.json", codeNameArraySchema)
	historySchema  = mustCompile("history_array.json", historyArraySchema)
)

func mustCompile(name, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}

// validateDocument checks a raw stored document against its schema.
func validateDocument(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
