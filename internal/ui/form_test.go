package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/dpshade/prompt-distiller/internal/models"
)

func init() {
	initializeColors("")
	initializeStyles()
}

func keyMsg(key string) tea.KeyMsg {
	if key == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestSaveFormFieldNavigation(t *testing.T) {
	form := NewSaveForm("", "", "")
	assert.Equal(t, nameField, form.focused)

	form.Update(keyMsg("tab"))
	assert.Equal(t, categoryField, form.focused)

	form.Update(keyMsg("tab"))
	assert.Equal(t, contentField, form.focused)

	form.Update(keyMsg("tab"))
	assert.Equal(t, nameField, form.focused)
}

func TestSaveFormValues(t *testing.T) {
	form := NewSaveForm("Greeting", "greet, casual", "Hi {{name}}")

	content, name, categoryCSV := form.Values()
	assert.Equal(t, "Hi {{name}}", content)
	assert.Equal(t, "Greeting", name)
	assert.Equal(t, "greet, casual", categoryCSV)
}

func TestSaveFormSubmitAndCancel(t *testing.T) {
	form := NewSaveForm("", "", "")

	form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, form.submitted)

	form = NewSaveForm("", "", "")
	form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, form.cancelled)
}

func TestEditFormPrefill(t *testing.T) {
	template := &models.Template{
		ID:       "t1",
		Name:     "Greeting",
		Category: []string{"greet", "casual"},
		Content:  "Hi {{name}}",
	}

	form := NewEditForm(template)
	assert.Equal(t, "t1", form.EditingID())

	content, name, categoryCSV := form.Values()
	assert.Equal(t, "Hi {{name}}", content)
	assert.Equal(t, "Greeting", name)
	assert.Equal(t, "greet, casual", categoryCSV)
}

func TestFillFormValues(t *testing.T) {
	template := &models.Template{
		ID:   "t1",
		Name: "Greeting",
		Variables: []models.Variable{
			{Key: "name", Label: "name", Type: "string"},
			{Key: "style", Label: "style", Type: "string", Default: "casual"},
		},
	}

	form := NewFillForm(template)

	// Defaults flow through untouched inputs.
	values := form.Values()
	assert.Equal(t, "", values["name"])
	assert.Equal(t, "casual", values["style"])
}

func TestFillFormEnterOnLastFieldSubmits(t *testing.T) {
	template := &models.Template{
		ID:   "t1",
		Name: "Greeting",
		Variables: []models.Variable{
			{Key: "name", Label: "name", Type: "string"},
			{Key: "style", Label: "style", Type: "string"},
		},
	}

	form := NewFillForm(template)

	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, form.submitted)
	assert.Equal(t, 1, form.focused)

	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, form.submitted)
}
