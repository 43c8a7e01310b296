// Package renderer extracts {{key}} placeholder variables from template
// content and fills them with user-supplied values.
package renderer

import (
	"regexp"
	"strings"

	"github.com/dpshade/prompt-distiller/internal/models"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ParseVariables returns the distinct placeholder variables found in content,
// in first-occurrence order. Keys are trimmed of surrounding whitespace; a key
// seen twice contributes a single entry.
func ParseVariables(content string) []models.Variable {
	var vars []models.Variable
	seen := make(map[string]bool)

	for _, match := range variablePattern.FindAllStringSubmatch(content, -1) {
		key := strings.TrimSpace(match[1])
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		vars = append(vars, models.Variable{
			Key:   key,
			Label: key,
			Type:  "string",
		})
	}

	return vars
}

// Render replaces every {{key}} occurrence in content with the supplied value.
// Empty or missing values fall back to a bracketed [key] placeholder so the
// output always shows where input was expected. Unknown keys in values are
// ignored; rendering never fails.
func Render(content string, values map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(content, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])
		if value := values[key]; value != "" {
			return value
		}
		return "[" + key + "]"
	})
}
