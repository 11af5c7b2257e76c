package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]interface{}
	}{
		{
			name: "valid JSON object returned unchanged",
			body: `{"query": "go", "days": 7}`,
			want: map[string]interface{}{"query": "go", "days": float64(7)},
		},
		{
			name: "empty body degrades to empty map",
			body: "",
			want: map[string]interface{}{},
		},
		{
			name: "malformed JSON degrades to empty map",
			body: "{not json",
			want: map[string]interface{}{},
		},
		{
			name: "plain text degrades to empty map",
			body: "hello",
			want: map[string]interface{}{},
		},
		{
			name: "JSON null degrades to empty map",
			body: "null",
			want: map[string]interface{}{},
		},
		{
			name: "JSON array degrades to empty map",
			body: `[1, 2, 3]`,
			want: map[string]interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			assert.Equal(t, tt.want, readBody(r))
		})
	}
}

func TestFieldAccessors(t *testing.T) {
	body := map[string]interface{}{
		"name":     "  padded  ",
		"count":    float64(3),
		"flag":     true,
		"flagStr":  "true",
		"flagOff":  "false",
		"wrongInt": "7",
	}

	assert.Equal(t, "padded", stringField(body, "name"))
	assert.Equal(t, "", stringField(body, "missing"))
	assert.Equal(t, 3, intField(body, "count", 1))
	assert.Equal(t, 1, intField(body, "missing", 1))
	assert.Equal(t, 1, intField(body, "wrongInt", 1), "strings are not coerced")
	assert.True(t, boolField(body, "flag"))
	assert.True(t, boolField(body, "flagStr"))
	assert.False(t, boolField(body, "flagOff"))
	assert.False(t, boolField(body, "missing"))
}
