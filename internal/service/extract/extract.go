// Package extract pulls structured replies out of free-form model text.
package extract

import (
	"encoding/json"
	"strings"
)

// JSONObject scans text for the first '{' and the last '}' and parses
// the span between them as a JSON object. Models are instructed to emit
// one flat object as the whole message, so first/last brace selection
// is sufficient; surrounding prose and markdown fences are tolerated.
// Returns false when no balanced span exists or the span is not valid
// JSON. Never panics.
func JSONObject(text string) (map[string]interface{}, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end <= start {
		return nil, false
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, false
	}
	return out, true
}
