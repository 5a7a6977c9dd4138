package tools

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// reflector produces inline schemas without $ref indirection so each tool's
// inputSchema is self-contained on the wire.
var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// MustSchema reflects a JSON schema from an argument struct. Field names come
// from json tags, descriptions from jsonschema tags, and fields without
// omitempty are marked required.
func MustSchema(v any) *jsonschema.Schema {
	schema := reflector.Reflect(v)
	// Embedded schemas carry no $schema marker.
	schema.Version = ""
	return schema
}

var argValidator = validator.New()

// DecodeArgs unmarshals raw tool arguments into the given struct and applies
// its validate tags. Absent raw arguments decode as the zero value so tools
// without required fields accept an omitted params.arguments.
func DecodeArgs(raw json.RawMessage, v any) error {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
	}

	if err := argValidator.Struct(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
