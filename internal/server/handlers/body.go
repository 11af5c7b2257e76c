// internal/server/handlers/body.go

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// readBody normalizes a request body to a parsed JSON object. Empty or
// malformed input degrades silently to an empty map, never an error:
// validation of required fields is the caller's job.
func readBody(r *http.Request) map[string]interface{} {
	if r.Body == nil {
		return map[string]interface{}{}
	}

	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return map[string]interface{}{}
	}

	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return map[string]interface{}{}
	}
	return body
}

// stringField returns the trimmed string value of a body field, or ""
// when absent or not a string.
func stringField(body map[string]interface{}, key string) string {
	s, _ := body[key].(string)
	return strings.TrimSpace(s)
}

// intField returns the integer value of a body field. JSON numbers
// arrive as float64; strings are not coerced.
func intField(body map[string]interface{}, key string, def int) int {
	if n, ok := body[key].(float64); ok {
		return int(n)
	}
	return def
}

// boolField accepts both a JSON bool and the string "true", matching
// what dashboard forms send.
func boolField(body map[string]interface{}, key string) bool {
	switch v := body[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
