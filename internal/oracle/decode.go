package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// StripFences removes markdown code-fence markers from a model response.
// Providers frequently wrap JSON in ```json ... ``` even when told not to.
func StripFences(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// MustCompileSchema compiles a JSON schema literal at package init time.
// Panics on a malformed schema; schemas are program constants.
func MustCompileSchema(name, schema string) *jsonschema.Schema {
	return jsonschema.MustCompileString(name, schema)
}

// DecodeValidated strips code fences from raw, validates the JSON against
// schema, and unmarshals it into v. Any failure is a structural error: the
// caller must surface it rather than fall back to the unvalidated text.
func DecodeValidated(raw string, schema *jsonschema.Schema, v any) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return fmt.Errorf("decode: empty oracle response")
	}

	// Validate against the schema first; jsonschema wants the generic form.
	var generic any
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return fmt.Errorf("decode: response is not valid JSON: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return fmt.Errorf("decode: response violates expected shape: %w", err)
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("decode: unmarshal into target: %w", err)
	}
	return nil
}
