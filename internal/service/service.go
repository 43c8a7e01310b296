// Package service owns the template collection. It is the single source of
// truth: every read and write to persistent storage funnels through it, and
// all mutating operations are serialized behind one mutex since the clipboard
// watcher is a concurrent producer alongside the UI.
package service

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/dpshade/prompt-distiller/internal/autotag"
	"github.com/dpshade/prompt-distiller/internal/config"
	"github.com/dpshade/prompt-distiller/internal/diff"
	apperrors "github.com/dpshade/prompt-distiller/internal/errors"
	"github.com/dpshade/prompt-distiller/internal/models"
	"github.com/dpshade/prompt-distiller/internal/renderer"
	"github.com/dpshade/prompt-distiller/internal/similarity"
	"github.com/dpshade/prompt-distiller/internal/storage"
)

// DefaultCategory is assigned when the user supplies no category.
const DefaultCategory = "Uncategorized"

// AllCategories is the sentinel that disables category filtering in Query.
const AllCategories = "All"

// Service provides business logic for template management
type Service struct {
	mu        sync.Mutex
	store     *storage.Store
	templates []*models.Template
	settings  config.Settings

	clock func() time.Time
	newID func() string
}

// NewService creates a service backed by the library at rootPath (empty means
// the default location, overridable via PROMPT_DISTILLER_DIR).
func NewService(rootPath string) (*Service, error) {
	if rootPath == "" {
		rootPath = os.Getenv("PROMPT_DISTILLER_DIR")
	}
	store, err := storage.NewStore(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	svc := &Service{
		store:    store,
		settings: config.Load(store.Root()),
		clock:    time.Now,
		newID:    uuid.NewString,
	}

	svc.templates = store.LoadTemplates()
	// First run materializes the seed set so later sessions see a stable file.
	svc.persist()

	return svc, nil
}

// UpdatePatch carries the fields an edit may change; nil fields are untouched.
type UpdatePatch struct {
	Name     *string
	Content  *string
	Category []string
}

// Create saves new template content. Content is trimmed and must be non-empty;
// an empty name defaults to "New Template" and an empty category list to
// ["Uncategorized"]. Returns any templates similar above the save threshold —
// duplicates are surfaced, never blocked.
func (s *Service) Create(content, name, categoryCSV string) (*models.Template, []similarity.Match, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, apperrors.ValidationError("template content must not be empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Template"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	template := &models.Template{
		ID:        s.newID(),
		Name:      name,
		Content:   content,
		Category:  SplitCategoryCSV(categoryCSV),
		Tags:      autotag.Tags(content),
		Variables: renderer.ParseVariables(content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Duplicate scan runs against the collection as it was before insertion.
	duplicates := similarity.FindSimilar(template, s.templates, similarity.SaveThreshold)

	s.templates = append(s.templates, template)
	s.persist()

	// A successful save consumes the draft buffer.
	if err := s.store.ClearDraft(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return template, duplicates, nil
}

// Update applies an edit to an existing template. A content change snapshots
// the pre-edit content into history and reparses variables; tags are fixed at
// creation and deliberately not recomputed.
func (s *Service) Update(id string, patch UpdatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	template := s.find(id)
	if template == nil {
		return apperrors.NotFoundError("template", id)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return apperrors.ValidationError("template name must not be empty")
		}
		template.Name = name
	}

	if patch.Content != nil && *patch.Content != template.Content {
		template.Snapshot(s.clock())
		template.Content = *patch.Content
		template.Variables = renderer.ParseVariables(template.Content)
	}

	if patch.Category != nil {
		category := normalizeCategories(patch.Category)
		template.Category = category
	}

	template.UpdatedAt = s.clock()
	s.persist()
	return nil
}

// Delete removes a template. Deleting an unknown id is a no-op.
func (s *Service) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.templates {
		if t.ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			s.persist()
			return
		}
	}
}

// TogglePin flips the pinned flag. Unknown ids are a no-op.
func (s *Service) TogglePin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if template := s.find(id); template != nil {
		template.Pinned = !template.Pinned
		template.UpdatedAt = s.clock()
		s.persist()
	}
}

// RecordUsage bumps the usage counter after a fill result was copied.
// Unknown ids are a no-op.
func (s *Service) RecordUsage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if template := s.find(id); template != nil {
		now := s.clock()
		template.Usage.Count++
		template.Usage.LastUsed = &now
		s.persist()
	}
}

// RestoreVersion overwrites a template's content with a historical snapshot.
// The overwritten content is not pushed back into history; restoring is not
// itself a versioned edit.
func (s *Service) RestoreVersion(id string, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	template := s.find(id)
	if template == nil {
		return apperrors.NotFoundError("template", id)
	}

	template.Content = entry.Content
	template.Variables = renderer.ParseVariables(template.Content)
	template.UpdatedAt = s.clock()
	s.persist()
	return nil
}

// Query returns templates filtered by category and search text, in
// presentation order: pinned first (stable among themselves), then most
// recently used — falling back to creation time — first.
func (s *Service) Query(category, search string) []*models.Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Template
	for _, t := range s.templates {
		if category != "" && category != AllCategories && !t.HasCategory(category) {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		result = append(result, t)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		return a.LastActivity().After(b.LastActivity())
	})

	return result
}

// FuzzySearch ranks templates against a free-form query by fuzzy matching
// over name, categories, and tags. An empty query returns the collection in
// presentation order. Unlike Query's exact substring filter, this powers
// quick interactive lookup.
func (s *Service) FuzzySearch(query string) []*models.Template {
	if query == "" {
		return s.Query("", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var searchStrings []string
	for _, t := range s.templates {
		searchStr := fmt.Sprintf("%s %s %s",
			t.Name,
			strings.Join(t.Category, " "),
			strings.Join(t.Tags, " "))
		searchStrings = append(searchStrings, searchStr)
	}

	matches := fuzzy.Find(query, searchStrings)

	var results []*models.Template
	for _, match := range matches {
		results = append(results, s.templates[match.Index])
	}
	return results
}

// Get returns a template by id.
func (s *Service) Get(id string) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if template := s.find(id); template != nil {
		return template, nil
	}
	return nil, apperrors.NotFoundError("template", id)
}

// FindSimilar scores a template against the rest of the collection.
func (s *Service) FindSimilar(id string, threshold float64) ([]similarity.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	template := s.find(id)
	if template == nil {
		return nil, apperrors.NotFoundError("template", id)
	}
	return similarity.FindSimilar(template, s.templates, threshold), nil
}

// Categories returns "All" followed by every category in first-appearance
// order across the collection.
func (s *Service) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := []string{AllCategories}
	seen := map[string]bool{AllCategories: true}
	for _, t := range s.templates {
		for _, c := range t.Category {
			if !seen[c] {
				seen[c] = true
				categories = append(categories, c)
			}
		}
	}
	return categories
}

// Fill renders a template's content with the supplied variable values. It
// does not touch usage stats; callers record usage when the result is copied.
func (s *Service) Fill(id string, values map[string]string) (string, error) {
	template, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return renderer.Render(template.Content, values), nil
}

// History returns a template's version history, oldest first.
func (s *Service) History(id string) ([]models.HistoryEntry, error) {
	template, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return template.History, nil
}

// DiffWithVersion compares a historical snapshot against the current content.
func (s *Service) DiffWithVersion(id string, entry models.HistoryEntry) ([]diff.Line, error) {
	template, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return diff.Compute(entry.Content, template.Content), nil
}

// Draft buffer

// SaveDraft persists an in-progress entry so it survives a restart.
func (s *Service) SaveDraft(content, name, categoryCSV string) error {
	draft := &models.Draft{
		Content:     content,
		Name:        name,
		CategoryCSV: categoryCSV,
		Timestamp:   s.clock(),
	}
	if err := s.store.SaveDraft(draft); err != nil {
		return apperrors.StorageError("failed to save draft", err)
	}
	return nil
}

// Draft returns the persisted draft, or nil when none exists.
func (s *Service) Draft() (*models.Draft, error) {
	return s.store.LoadDraft()
}

// ClearDraft discards the persisted draft.
func (s *Service) ClearDraft() error {
	return s.store.ClearDraft()
}

// OnClipboardText receives newly observed clipboard text from the watcher
// (already filtered for sensitive keywords) and promotes it to the draft
// buffer so the user can turn it into a template.
func (s *Service) OnClipboardText(text string) {
	if err := s.SaveDraft(text, "", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// Settings passthrough

// Settings returns a snapshot of the current settings.
func (s *Service) Settings() config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ApplySettings merges a partial update into the settings and persists them.
func (s *Service) ApplySettings(patch config.Patch) config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Apply(patch)
	if err := config.Save(s.store.Root(), s.settings); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return s.settings
}

// Export writes a template to a frontmatter markdown file.
func (s *Service) Export(id, path string) error {
	template, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.store.ExportTemplate(template, path)
}

// Add inserts an already-constructed template, assigning id and timestamps if
// missing. Used by the importer.
func (s *Service) Add(template *models.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if template.ID == "" {
		template.ID = s.newID()
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	if template.UpdatedAt.IsZero() {
		template.UpdatedAt = now
	}
	template.Category = normalizeCategories(template.Category)

	s.templates = append(s.templates, template)
	s.persist()
}

// Has reports whether a template with the given id exists.
func (s *Service) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id) != nil
}

// find returns the template with the given id; callers hold the mutex.
func (s *Service) find(id string) *models.Template {
	for _, t := range s.templates {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// persist writes the whole collection through to disk. A failed write is
// logged and the in-memory state stays authoritative for the session; callers
// hold the mutex.
func (s *Service) persist() {
	if err := s.store.SaveTemplates(s.templates); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist templates: %v\n", err)
	}
}

// SplitCategoryCSV turns user-supplied comma-separated categories into the
// stored list: parts are trimmed, empties dropped, and an empty result
// becomes ["Uncategorized"].
func SplitCategoryCSV(csv string) []string {
	var categories []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			categories = append(categories, part)
		}
	}
	return normalizeCategories(categories)
}

func normalizeCategories(categories []string) []string {
	var cleaned []string
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return []string{DefaultCategory}
	}
	return cleaned
}

// matchesSearch reports a case-insensitive substring match against name,
// content, categories, or tags.
func matchesSearch(t *models.Template, search string) bool {
	query := strings.ToLower(search)
	if strings.Contains(strings.ToLower(t.Name), query) ||
		strings.Contains(strings.ToLower(t.Content), query) {
		return true
	}
	for _, c := range t.Category {
		if strings.Contains(strings.ToLower(c), query) {
			return true
		}
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
