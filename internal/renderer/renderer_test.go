package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"none", "plain text without placeholders", nil},
		{"single", "Hi {{name}}", []string{"name"}},
		{"duplicate collapses", "a {{x}} b {{y}} {{x}}", []string{"x", "y"}},
		{"whitespace trimmed", "{{ topic }} and {{topic}}", []string{"topic"}},
		{"first occurrence order", "{{b}} {{a}} {{c}} {{a}}", []string{"b", "a", "c"}},
		{"empty key skipped", "{{  }} {{x}}", []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := ParseVariables(tt.content)
			var keys []string
			for _, v := range vars {
				keys = append(keys, v.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestParseVariableDefaults(t *testing.T) {
	vars := ParseVariables("Hi {{name}}")
	require.Len(t, vars, 1)

	assert.Equal(t, "name", vars[0].Key)
	assert.Equal(t, "name", vars[0].Label)
	assert.Equal(t, "string", vars[0].Type)
	assert.Equal(t, "", vars[0].Default)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  map[string]string
		want    string
	}{
		{"fills values", "{{x}}-{{y}}", map[string]string{"x": "1", "y": "2"}, "1-2"},
		{"missing falls back", "{{x}}-{{y}}", map[string]string{"x": "1"}, "1-[y]"},
		{"empty falls back", "{{x}}", map[string]string{"x": ""}, "[x]"},
		{"every occurrence", "{{x}} {{x}}", map[string]string{"x": "hi"}, "hi hi"},
		{"unknown keys ignored", "{{x}}", map[string]string{"x": "1", "z": "9"}, "1"},
		{"nil values", "{{x}}", nil, "[x]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.content, tt.values))
		})
	}
}
