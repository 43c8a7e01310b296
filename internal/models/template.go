package models

import (
	"strings"
	"time"
)

// MaxHistory bounds the number of retained content snapshots per template.
const MaxHistory = 10

// Variable is a named placeholder inside a template's content.
type Variable struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label" yaml:"label"`
	Type    string `json:"type" yaml:"type"` // "string" or "textarea"
	Default string `json:"default" yaml:"default,omitempty"`
}

// UsageStats tracks how often a template has been filled and copied.
type UsageStats struct {
	Count    int        `json:"count" yaml:"-"`
	LastUsed *time.Time `json:"lastUsed" yaml:"-"`
}

// HistoryEntry is a stored prior version of a template's content.
type HistoryEntry struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Template represents a reusable, categorized prompt body with {{key}} placeholders
type Template struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Content   string         `json:"content" yaml:"-"` // markdown body, stored after frontmatter on export
	Category  []string       `json:"category" yaml:"category"`
	Tags      []string       `json:"tags" yaml:"tags,omitempty"`
	Variables []Variable     `json:"variables" yaml:"variables,omitempty"`
	Usage     UsageStats     `json:"usage" yaml:"-"`
	History   []HistoryEntry `json:"history,omitempty" yaml:"-"`
	Pinned    bool           `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	CreatedAt time.Time      `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" yaml:"updated_at"`
}

// Snapshot appends the template's current content to its history, evicting the
// oldest entry once MaxHistory is exceeded. Call before applying a content edit.
func (t *Template) Snapshot(now time.Time) {
	t.History = append(t.History, HistoryEntry{
		Content:   t.Content,
		Timestamp: now,
	})
	if len(t.History) > MaxHistory {
		t.History = t.History[len(t.History)-MaxHistory:]
	}
}

// LastActivity returns the timestamp that drives list ordering: last use if the
// template has ever been filled, creation time otherwise.
func (t *Template) LastActivity() time.Time {
	if t.Usage.LastUsed != nil {
		return *t.Usage.LastUsed
	}
	return t.CreatedAt
}

// HasCategory reports whether the template belongs to the given category.
func (t *Template) HasCategory(category string) bool {
	for _, c := range t.Category {
		if c == category {
			return true
		}
	}
	return false
}

// Draft is an unsaved in-progress entry persisted so it survives a restart.
type Draft struct {
	Content     string    `json:"content"`
	Name        string    `json:"name"`
	CategoryCSV string    `json:"categoryCsv"`
	Timestamp   time.Time `json:"timestamp"`
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (t Template) FilterValue() string {
	return cleanString(t.Name)
}

// Title satisfies the list.Item interface
func (t Template) Title() string {
	name := cleanString(t.Name)
	if t.Pinned {
		return "📌 " + name
	}
	return name
}

// Description satisfies the list.Item interface
func (t Template) Description() string {
	var parts []string

	preview := cleanString(t.Content)
	maxPreviewLength := 60
	if len(preview) > maxPreviewLength {
		preview = preview[:maxPreviewLength-3] + "..."
	}
	if preview != "" {
		parts = append(parts, preview)
	}

	if len(t.Category) > 0 {
		parts = append(parts, strings.Join(t.Category, ", "))
	}

	if len(t.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(t.Tags, ", "))
	}

	result := strings.Join(parts, " • ")

	// Final truncation to avoid overflowing the list row
	maxTotalLength := 100
	if len(result) > maxTotalLength {
		result = result[:maxTotalLength-3] + "..."
	}

	return cleanString(result)
}

// cleanString removes problematic characters that might cause rendering issues
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	// Remove control characters, newlines, tabs that could break rendering
	cleaned := ""
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			cleaned += " "
		} else if r >= 32 && r != 127 {
			cleaned += string(r)
		}
	}

	// Collapse multiple spaces
	for cleaned != strings.ReplaceAll(cleaned, "  ", " ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}

	return strings.TrimSpace(cleaned)
}
