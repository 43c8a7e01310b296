// Package storage persists the template collection, the draft buffer, and
// single-template interchange files.
//
// Templates and the draft live in JSON documents under the library root; the
// whole collection is written on every mutation and read once at startup.
// Individual templates can additionally be exported to (and parsed from)
// markdown files with YAML frontmatter.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dpshade/prompt-distiller/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	templatesFile = "templates.json"
	draftFile     = "draft.json"
)

// Store handles all file system operations for templates and drafts
type Store struct {
	rootPath string
}

// NewStore creates a store rooted at rootPath, defaulting to
// ~/.prompt-distiller when rootPath is empty.
func NewStore(rootPath string) (*Store, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".prompt-distiller")
	}

	if err := os.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory %s: %w", rootPath, err)
	}

	return &Store{rootPath: rootPath}, nil
}

// Root returns the library root path.
func (s *Store) Root() string {
	return s.rootPath
}

// LoadTemplates reads the template collection from disk. A missing file,
// unreadable file, or corrupt document falls back to the seed set; startup
// never fails because of bad persisted data.
func (s *Store) LoadTemplates() []*models.Template {
	data, err := os.ReadFile(filepath.Join(s.rootPath, templatesFile))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read templates: %v\n", err)
		}
		return SeedTemplates()
	}

	var templates []*models.Template
	if err := json.Unmarshal(data, &templates); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: templates file is corrupt, starting from seed set: %v\n", err)
		return SeedTemplates()
	}

	return templates
}

// SaveTemplates writes the whole collection. The write goes through a temp
// file and rename so a crash mid-write cannot corrupt the stored collection.
func (s *Store) SaveTemplates(templates []*models.Template) error {
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}

	target := filepath.Join(s.rootPath, templatesFile)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write templates file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace templates file: %w", err)
	}

	return nil
}

// LoadDraft returns the persisted draft, or nil when none exists.
func (s *Store) LoadDraft() (*models.Draft, error) {
	data, err := os.ReadFile(filepath.Join(s.rootPath, draftFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var draft models.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// A corrupt draft is not worth failing over; discard it.
		fmt.Fprintf(os.Stderr, "Warning: draft file is corrupt, discarding: %v\n", err)
		return nil, nil
	}

	return &draft, nil
}

// SaveDraft persists the draft buffer.
func (s *Store) SaveDraft(draft *models.Draft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.rootPath, draftFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write draft file: %w", err)
	}

	return nil
}

// ClearDraft removes the persisted draft; clearing an absent draft is a no-op.
func (s *Store) ClearDraft() error {
	err := os.Remove(filepath.Join(s.rootPath, draftFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

// ExportTemplate writes a single template as a markdown file with YAML
// frontmatter, the library's interchange format.
func (s *Store) ExportTemplate(template *models.Template, path string) error {
	content, err := SerializeTemplate(template)
	if err != nil {
		return fmt.Errorf("failed to serialize template: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}

	return nil
}

// SerializeTemplate converts a template to YAML frontmatter + markdown content
func SerializeTemplate(template *models.Template) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(template); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n")

	if template.Content != "" {
		buf.WriteString("\n")
		buf.WriteString(template.Content)
		if !strings.HasSuffix(template.Content, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ParseTemplateFile parses a markdown file with YAML frontmatter back into a
// template.
func ParseTemplateFile(content []byte) (*models.Template, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))

	if !scanner.Scan() || scanner.Text() != "---" {
		return nil, fmt.Errorf("missing frontmatter delimiter")
	}

	var frontmatterLines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}

	frontmatter := strings.Join(frontmatterLines, "\n")
	var template models.Template
	if err := yaml.Unmarshal([]byte(frontmatter), &template); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	template.Content = strings.Join(contentLines, "\n")
	// Trim only leading whitespace/newlines
	template.Content = strings.TrimLeft(template.Content, " \t\n")

	return &template, nil
}
