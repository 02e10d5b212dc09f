package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// compileSchema turns a schema built as a plain map into a compiled schema.
// Both the field-map check and the raw-JSON check go through here.
func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("validation.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("validation.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// CheckSchema validates the normalized field map against a JSON Schema and
// returns the error messages, one per violation. A nil schema passes.
func CheckSchema(data map[string]any, schemaMap map[string]any) []string {
	if schemaMap == nil {
		return nil
	}
	schema, err := compileSchema(schemaMap)
	if err != nil {
		return []string{err.Error()}
	}
	if err := schema.Validate(anyify(data)); err != nil {
		return []string{err.Error()}
	}
	return nil
}

// CheckRawJSON validates a raw JSON document against a JSON Schema. Used on
// model output before its fields are trusted.
func CheckRawJSON(schemaMap map[string]any, data []byte) error {
	schema, err := compileSchema(schemaMap)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// anyify round-trips through JSON so the validator sees plain types.
func anyify(data map[string]any) any {
	b, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return data
	}
	return v
}
