package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema derives the JSON schema for a tool input struct. Schemas
// are inlined (no $ref) and closed to unknown properties so hosts and
// models get a strict contract.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(&v)

	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out
}
