package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema checks a decoded extraction answer against the
// per-type parameter schema. The pipeline uses it advisorily: drift is
// logged, the parsed answer is kept either way.
func ValidateJSONAgainstSchema(schema map[string]any, answer []byte) error {
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.schema.json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("extraction.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(answer, &decoded); err != nil {
		return fmt.Errorf("unmarshal answer: %w", err)
	}
	if err := compiled.Validate(decoded); err != nil {
		return fmt.Errorf("answer does not match schema: %w", err)
	}
	return nil
}
