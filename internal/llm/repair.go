package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeModelJSON parses a model payload into a generic object. When the
// payload fails to parse as-is, a best-effort repair re-attempts the
// substring between the first '{' and the last '}' before giving up.
func DecodeModelJSON(payload string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(payload), &out); err == nil {
		return out, nil
	}

	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("decode model output: no JSON object found")
	}
	if err := json.Unmarshal([]byte(payload[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("decode model output after repair: %w", err)
	}
	return out, nil
}
