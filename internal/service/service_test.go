package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/prompt-distiller/internal/config"
	apperrors "github.com/dpshade/prompt-distiller/internal/errors"
	"github.com/dpshade/prompt-distiller/internal/models"
	"github.com/dpshade/prompt-distiller/internal/similarity"
)

// newTestService returns a service over an empty temp library with a
// deterministic clock and id sequence.
func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	// Drop the seed set so tests start from a known-empty collection.
	for _, tmpl := range svc.Query("", "") {
		svc.Delete(tmpl.ID)
	}

	var idSeq int
	svc.newID = func() string {
		idSeq++
		return fmt.Sprintf("test-%d", idSeq)
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	return svc
}

func TestNewServiceSeedsLibrary(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	templates := svc.Query("", "")
	assert.Len(t, templates, 3)
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	tmpl, dups, err := svc.Create("Hi {{name}}", "", "")
	require.NoError(t, err)
	assert.Empty(t, dups)

	assert.Equal(t, "New Template", tmpl.Name)
	assert.Equal(t, []string{"Uncategorized"}, tmpl.Category)
	assert.Equal(t, 0, tmpl.Usage.Count)
	assert.Nil(t, tmpl.Usage.LastUsed)
	assert.Empty(t, tmpl.History)

	require.Len(t, tmpl.Variables, 1)
	assert.Equal(t, models.Variable{Key: "name", Label: "name", Type: "string"}, tmpl.Variables[0])
}

func TestCreateSplitsCategories(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("Hi {{name}}", "Greeting", "greet, casual")
	require.NoError(t, err)

	assert.Equal(t, "Greeting", tmpl.Name)
	assert.Equal(t, []string{"greet", "casual"}, tmpl.Category)
}

func TestCreateRejectsEmptyContent(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Create("   \n\t  ", "Name", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, svc.Query("", ""))
}

func TestCreateReportsDuplicatesWithoutBlocking(t *testing.T) {
	svc := newTestService(t)

	first, _, err := svc.Create("review this code for bugs and style", "First", "")
	require.NoError(t, err)

	second, dups, err := svc.Create("review this code for bugs and style", "Second", "")
	require.NoError(t, err)

	require.Len(t, dups, 1)
	assert.Equal(t, first.ID, dups[0].Template.ID)
	assert.InDelta(t, 1.0, dups[0].Score, 1e-9)

	// Both live in the collection; duplicates are advisory.
	assert.True(t, svc.Has(first.ID))
	assert.True(t, svc.Has(second.ID))
}

func TestUpdateContentSnapshotsHistory(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("v0", "T", "")
	require.NoError(t, err)

	content := "v1"
	require.NoError(t, svc.Update(tmpl.ID, UpdatePatch{Content: &content}))

	got, err := svc.Get(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Content)
	require.Len(t, got.History, 1)
	assert.Equal(t, "v0", got.History[0].Content)
}

func TestUpdateHistoryStaysBounded(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("v0", "T", "")
	require.NoError(t, err)

	for i := 1; i <= 15; i++ {
		content := fmt.Sprintf("v%d", i)
		require.NoError(t, svc.Update(tmpl.ID, UpdatePatch{Content: &content}))
	}

	got, err := svc.Get(tmpl.ID)
	require.NoError(t, err)
	require.Len(t, got.History, models.MaxHistory)
	assert.Equal(t, "v5", got.History[0].Content)
	assert.Equal(t, "v14", got.History[len(got.History)-1].Content)
}

func TestUpdateUnchangedContentSkipsSnapshot(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("same", "T", "")
	require.NoError(t, err)

	content := "same"
	require.NoError(t, svc.Update(tmpl.ID, UpdatePatch{Content: &content}))

	got, err := svc.Get(tmpl.ID)
	require.NoError(t, err)
	assert.Empty(t, got.History)
}

func TestUpdateReparsesVariables(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("Hi {{name}}", "T", "")
	require.NoError(t, err)

	content := "Hello {{first}} {{last}}"
	require.NoError(t, svc.Update(tmpl.ID, UpdatePatch{Content: &content}))

	got, err := svc.Get(tmpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Variables, 2)
	assert.Equal(t, "first", got.Variables[0].Key)
	assert.Equal(t, "last", got.Variables[1].Key)
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("content", "Original", "")
	require.NoError(t, err)

	name := "   "
	err = svc.Update(tmpl.ID, UpdatePatch{Name: &name})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	got, _ := svc.Get(tmpl.ID)
	assert.Equal(t, "Original", got.Name)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t)

	name := "x"
	err := svc.Update("missing", UpdatePatch{Name: &name})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteAndSilentNoOps(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("content", "T", "")
	require.NoError(t, err)

	svc.Delete(tmpl.ID)
	assert.False(t, svc.Has(tmpl.ID))

	// Unknown ids are silent no-ops for delete, pin, and usage.
	svc.Delete("missing")
	svc.TogglePin("missing")
	svc.RecordUsage("missing")
}

func TestRecordUsage(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("content", "T", "")
	require.NoError(t, err)

	svc.RecordUsage(tmpl.ID)
	svc.RecordUsage(tmpl.ID)

	got, _ := svc.Get(tmpl.ID)
	assert.Equal(t, 2, got.Usage.Count)
	require.NotNil(t, got.Usage.LastUsed)
}

func TestQueryOrdering(t *testing.T) {
	svc := newTestService(t)

	older, _, err := svc.Create("alpha content", "Older", "")
	require.NoError(t, err)
	newer, _, err := svc.Create("beta content", "Newer", "")
	require.NoError(t, err)
	pinned, _, err := svc.Create("gamma content", "Pinned", "")
	require.NoError(t, err)

	svc.TogglePin(pinned.ID)
	// Usage on the older template lifts it above the newer one.
	svc.RecordUsage(older.ID)

	result := svc.Query("", "")
	require.Len(t, result, 3)
	assert.Equal(t, pinned.ID, result[0].ID)
	assert.Equal(t, older.ID, result[1].ID)
	assert.Equal(t, newer.ID, result[2].ID)
}

func TestQueryFilters(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Create("write an essay about {{topic}}", "Essay Helper", "Writing")
	require.NoError(t, err)
	_, _, err = svc.Create("fix the bug in {{code}}", "Debugger", "Programming")
	require.NoError(t, err)

	assert.Len(t, svc.Query("Writing", ""), 1)
	assert.Len(t, svc.Query("All", ""), 2)
	assert.Len(t, svc.Query("", "ESSAY"), 1)
	assert.Len(t, svc.Query("Programming", "essay"), 0)
	assert.Empty(t, svc.Query("Nope", ""))
}

func TestCategoriesInsertionOrder(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Create("a", "A", "Writing, Shared")
	require.NoError(t, err)
	_, _, err = svc.Create("b", "B", "Programming, Shared")
	require.NoError(t, err)

	assert.Equal(t, []string{"All", "Writing", "Shared", "Programming"}, svc.Categories())
}

func TestFillEndToEnd(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("Hi {{name}}", "Greeting", "greet, casual")
	require.NoError(t, err)

	out, err := svc.Fill(tmpl.ID, map[string]string{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", out)

	out, err = svc.Fill(tmpl.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi [name]", out)
}

func TestRestoreVersionNotSnapshotted(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("v0 {{a}}", "T", "")
	require.NoError(t, err)

	content := "v1 {{b}}"
	require.NoError(t, svc.Update(tmpl.ID, UpdatePatch{Content: &content}))

	got, _ := svc.Get(tmpl.ID)
	require.Len(t, got.History, 1)

	require.NoError(t, svc.RestoreVersion(tmpl.ID, got.History[0]))

	restored, _ := svc.Get(tmpl.ID)
	assert.Equal(t, "v0 {{a}}", restored.Content)
	assert.Len(t, restored.History, 1)
	require.Len(t, restored.Variables, 1)
	assert.Equal(t, "a", restored.Variables[0].Key)
}

func TestDiffWithVersion(t *testing.T) {
	svc := newTestService(t)

	tmpl, _, err := svc.Create("line one\nline two", "T", "")
	require.NoError(t, err)

	content := "line one\nline 2"
	require.NoError(t, svc.Update(tmpl.ID, UpdatePatch{Content: &content}))

	got, _ := svc.Get(tmpl.ID)
	lines, err := svc.DiffWithVersion(tmpl.ID, got.History[0])
	require.NoError(t, err)
	require.Len(t, lines, 2)
}

func TestFindSimilarScan(t *testing.T) {
	svc := newTestService(t)

	a, _, err := svc.Create("summarize the following article in three sentences", "A", "")
	require.NoError(t, err)
	_, _, err = svc.Create("summarize the following article in five sentences", "B", "")
	require.NoError(t, err)
	_, _, err = svc.Create("translate this text to french", "C", "")
	require.NoError(t, err)

	matches, err := svc.FindSimilar(a.ID, similarity.ScanThreshold)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "B", matches[0].Template.Name)
}

func TestFuzzySearch(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Create("a", "Code Review Helper", "Programming")
	require.NoError(t, err)
	_, _, err = svc.Create("b", "Meeting Notes", "Writing")
	require.NoError(t, err)

	results := svc.FuzzySearch("cdrvw")
	require.Len(t, results, 1)
	assert.Equal(t, "Code Review Helper", results[0].Name)

	assert.Len(t, svc.FuzzySearch(""), 2)
}

func TestDraftLifecycle(t *testing.T) {
	svc := newTestService(t)

	draft, err := svc.Draft()
	require.NoError(t, err)
	assert.Nil(t, draft)

	require.NoError(t, svc.SaveDraft("half-written", "WIP", "notes"))

	draft, err = svc.Draft()
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "half-written", draft.Content)
	assert.Equal(t, "WIP", draft.Name)

	// A successful save consumes the draft.
	_, _, err = svc.Create("half-written", "WIP", "notes")
	require.NoError(t, err)

	draft, err = svc.Draft()
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestOnClipboardTextPromotesDraft(t *testing.T) {
	svc := newTestService(t)

	svc.OnClipboardText("captured snippet")

	draft, err := svc.Draft()
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "captured snippet", draft.Content)
	assert.Empty(t, draft.Name)
}

func TestApplySettingsPersists(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir)
	require.NoError(t, err)

	theme := svc.Settings().Theme
	theme.AccentColor = "#FF0000"
	updated := svc.ApplySettings(config.Patch{Theme: &theme})
	assert.Equal(t, "#FF0000", updated.Theme.AccentColor)

	// A fresh service over the same directory sees the change.
	svc2, err := NewService(dir)
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", svc2.Settings().Theme.AccentColor)
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir)
	require.NoError(t, err)

	tmpl, _, err := svc.Create("persisted {{x}}", "Round Trip", "Storage")
	require.NoError(t, err)
	svc.TogglePin(tmpl.ID)

	svc2, err := NewService(dir)
	require.NoError(t, err)

	got, err := svc2.Get(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Round Trip", got.Name)
	assert.Equal(t, "persisted {{x}}", got.Content)
	assert.True(t, got.Pinned)
}

func TestSplitCategoryCSV(t *testing.T) {
	assert.Equal(t, []string{"Uncategorized"}, SplitCategoryCSV(""))
	assert.Equal(t, []string{"Uncategorized"}, SplitCategoryCSV(" , ,"))
	assert.Equal(t, []string{"a", "b"}, SplitCategoryCSV(" a , b "))
}
