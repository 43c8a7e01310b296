package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/prompt-distiller/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLoadTemplatesMissingFileReturnsSeeds(t *testing.T) {
	store := newTestStore(t)

	templates := store.LoadTemplates()
	require.Len(t, templates, 3)
	assert.Equal(t, "Role Setup", templates[0].Name)
}

func TestLoadTemplatesCorruptFileReturnsSeeds(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(store.Root(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	templates := store.LoadTemplates()
	assert.Len(t, templates, 3)
}

func TestSaveAndLoadTemplates(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saved := []*models.Template{
		{
			ID:        "abc",
			Name:      "Greeting",
			Content:   "Hi {{name}}",
			Category:  []string{"greet", "casual"},
			Variables: []models.Variable{{Key: "name", Label: "name", Type: "string"}},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	require.NoError(t, store.SaveTemplates(saved))

	loaded := store.LoadTemplates()
	require.Len(t, loaded, 1)
	assert.Equal(t, "abc", loaded[0].ID)
	assert.Equal(t, []string{"greet", "casual"}, loaded[0].Category)
	assert.Equal(t, "Hi {{name}}", loaded[0].Content)
	assert.True(t, loaded[0].CreatedAt.Equal(now))
	assert.Nil(t, loaded[0].Usage.LastUsed)
}

func TestDraftLifecycle(t *testing.T) {
	store := newTestStore(t)

	// Absent draft loads as nil without error.
	draft, err := store.LoadDraft()
	require.NoError(t, err)
	assert.Nil(t, draft)

	saved := &models.Draft{
		Content:     "half-finished prompt",
		Name:        "wip",
		CategoryCSV: "notes",
		Timestamp:   time.Now(),
	}
	require.NoError(t, store.SaveDraft(saved))

	draft, err = store.LoadDraft()
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "half-finished prompt", draft.Content)

	require.NoError(t, store.ClearDraft())
	draft, err = store.LoadDraft()
	require.NoError(t, err)
	assert.Nil(t, draft)

	// Clearing twice is a no-op.
	require.NoError(t, store.ClearDraft())
}

func TestSerializeParseTemplateFile(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	template := &models.Template{
		ID:        "greet-1",
		Name:      "Greeting",
		Content:   "Hi {{name}}, welcome to {{place}}.",
		Category:  []string{"greet"},
		Tags:      []string{"qa"},
		Variables: []models.Variable{{Key: "name", Label: "name", Type: "string"}, {Key: "place", Label: "place", Type: "string"}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := SerializeTemplate(template)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)

	parsed, err := ParseTemplateFile(data)
	require.NoError(t, err)
	assert.Equal(t, "greet-1", parsed.ID)
	assert.Equal(t, "Greeting", parsed.Name)
	assert.Equal(t, []string{"greet"}, parsed.Category)
	assert.Equal(t, "Hi {{name}}, welcome to {{place}}.", parsed.Content)
}

func TestParseTemplateFileMissingFrontmatter(t *testing.T) {
	_, err := ParseTemplateFile([]byte("just some markdown"))
	assert.Error(t, err)
}
