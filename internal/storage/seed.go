package storage

import (
	"time"

	"github.com/dpshade/prompt-distiller/internal/models"
)

// SeedTemplates returns the built-in starter set used on first run and
// whenever the stored collection cannot be read. The seeds carry hand-authored
// variable metadata (labels, types, defaults) richer than what the parser
// derives on its own.
func SeedTemplates() []*models.Template {
	now := time.Now()

	return []*models.Template{
		{
			ID:       "1",
			Name:     "Role Setup",
			Content:  "You are a {{role}} with {{experience}} years of experience. Your specialty is {{specialty}}. Please answer in a {{style}} manner.",
			Category: []string{"Creative"},
			Tags:     []string{"role", "persona"},
			Variables: []models.Variable{
				{Key: "role", Label: "Role name", Type: "string", Default: "assistant"},
				{Key: "experience", Label: "Years of experience", Type: "string", Default: "5"},
				{Key: "specialty", Label: "Specialty", Type: "string", Default: "programming"},
				{Key: "style", Label: "Answer style", Type: "string", Default: "professional"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       "2",
			Name:     "Code Review",
			Content:  "Please review the following code, identify {{issue_type}} issues, and give {{suggestion_type}} suggestions.\n\n```{{language}}\n{{code}}\n```",
			Category: []string{"Programming"},
			Tags:     []string{"code", "review"},
			Variables: []models.Variable{
				{Key: "issue_type", Label: "Issue type", Type: "string", Default: "potential"},
				{Key: "suggestion_type", Label: "Suggestion type", Type: "string", Default: "concrete"},
				{Key: "language", Label: "Programming language", Type: "string", Default: "go"},
				{Key: "code", Label: "Code", Type: "textarea", Default: ""},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       "3",
			Name:     "Article Writing",
			Content:  "Please write an article about {{topic}} with these requirements:\n- Length: {{length}}\n- Style: {{style}}\n- Audience: {{audience}}",
			Category: []string{"Creative"},
			Tags:     []string{"writing", "article"},
			Variables: []models.Variable{
				{Key: "topic", Label: "Topic", Type: "string", Default: ""},
				{Key: "length", Label: "Target length", Type: "string", Default: "800 words"},
				{Key: "style", Label: "Writing style", Type: "string", Default: "formal"},
				{Key: "audience", Label: "Audience", Type: "string", Default: "general readers"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
