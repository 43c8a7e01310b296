package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dpshade/prompt-distiller/internal/models"
)

// SaveForm collects the fields for creating or editing a template.
type SaveForm struct {
	nameInput     textinput.Model
	categoryInput textinput.Model
	content       textarea.Model
	focused       int
	submitted     bool
	cancelled     bool
	editingID     string
}

// Save form field indices
const (
	nameField = iota
	categoryField
	contentField
)

// NewSaveForm creates an empty save form. Prefilled values come from the
// draft buffer or, when editing, the template being edited.
func NewSaveForm(name, categoryCSV, content string) *SaveForm {
	nameInput := textinput.New()
	nameInput.Placeholder = "New Template"
	nameInput.SetValue(name)
	nameInput.Focus()
	nameInput.CharLimit = 100
	nameInput.Width = 40

	categoryInput := textinput.New()
	categoryInput.Placeholder = "Writing, Programming (comma-separated)"
	categoryInput.SetValue(categoryCSV)
	categoryInput.CharLimit = 200
	categoryInput.Width = 60

	ta := textarea.New()
	ta.Placeholder = "Template content; use {{variable}} for fill-in slots..."
	ta.SetValue(content)
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(10)

	return &SaveForm{
		nameInput:     nameInput,
		categoryInput: categoryInput,
		content:       ta,
		focused:       nameField,
	}
}

// NewEditForm creates a save form prefilled from an existing template.
func NewEditForm(template *models.Template) *SaveForm {
	form := NewSaveForm(template.Name, strings.Join(template.Category, ", "), template.Content)
	form.editingID = template.ID
	return form
}

// EditingID returns the id of the template being edited, or "" for a new one.
func (f *SaveForm) EditingID() string {
	return f.editingID
}

// Values returns the current form values.
func (f *SaveForm) Values() (content, name, categoryCSV string) {
	return f.content.Value(), f.nameInput.Value(), f.categoryInput.Value()
}

// Update handles form input
func (f *SaveForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			f.nextField()
			return nil
		case "shift+tab":
			f.prevField()
			return nil
		case "ctrl+s":
			f.submitted = true
			return nil
		case "esc":
			f.cancelled = true
			return nil
		case "enter":
			// Enter advances fields; inside the textarea it inserts a newline.
			if f.focused != contentField {
				f.nextField()
				return nil
			}
		}

		if f.focused == contentField {
			var cmd tea.Cmd
			f.content, cmd = f.content.Update(msg)
			return cmd
		}
	}

	var cmd tea.Cmd
	switch f.focused {
	case nameField:
		f.nameInput, cmd = f.nameInput.Update(msg)
	case categoryField:
		f.categoryInput, cmd = f.categoryInput.Update(msg)
	}
	return cmd
}

func (f *SaveForm) nextField() {
	f.blur()
	f.focused = (f.focused + 1) % 3
	f.focus()
}

func (f *SaveForm) prevField() {
	f.blur()
	f.focused = (f.focused + 2) % 3
	f.focus()
}

func (f *SaveForm) blur() {
	switch f.focused {
	case nameField:
		f.nameInput.Blur()
	case categoryField:
		f.categoryInput.Blur()
	case contentField:
		f.content.Blur()
	}
}

func (f *SaveForm) focus() {
	switch f.focused {
	case nameField:
		f.nameInput.Focus()
	case categoryField:
		f.categoryInput.Focus()
	case contentField:
		f.content.Focus()
	}
}

// Resize updates the content area to fit the window.
func (f *SaveForm) Resize(width, height int) {
	available := height - 14
	if available < 5 {
		available = 5
	}
	f.content.SetWidth(width - 10)
	f.content.SetHeight(available)
}

// View renders the form
func (f *SaveForm) View() string {
	var b strings.Builder

	title := "New Template"
	if f.editingID != "" {
		title = "Edit Template"
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(styleLabel.Render("Name"))
	b.WriteString("\n")
	b.WriteString(f.nameInput.View())
	b.WriteString("\n\n")

	b.WriteString(styleLabel.Render("Category"))
	b.WriteString("\n")
	b.WriteString(f.categoryInput.View())
	b.WriteString("\n\n")

	b.WriteString(styleLabel.Render("Content"))
	b.WriteString("\n")
	b.WriteString(f.content.View())
	b.WriteString("\n\n")

	b.WriteString(styleHelp.Render("Tab: next field • Ctrl+S: save • Esc: cancel"))

	return styleFormView.Render(b.String())
}

// FillForm collects values for a template's variables.
type FillForm struct {
	template  *models.Template
	inputs    []textinput.Model
	focused   int
	submitted bool
	cancelled bool
}

// NewFillForm builds one input per template variable, prefilled with the
// variable's default value.
func NewFillForm(template *models.Template) *FillForm {
	inputs := make([]textinput.Model, len(template.Variables))
	for i, variable := range template.Variables {
		input := textinput.New()
		input.Placeholder = variable.Label
		input.SetValue(variable.Default)
		input.CharLimit = 0
		input.Width = 60
		inputs[i] = input
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	return &FillForm{
		template: template,
		inputs:   inputs,
	}
}

// Values returns the entered variable values keyed by variable key.
func (f *FillForm) Values() map[string]string {
	values := make(map[string]string, len(f.inputs))
	for i, variable := range f.template.Variables {
		values[variable.Key] = f.inputs[i].Value()
	}
	return values
}

// Update handles form input
func (f *FillForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			f.cancelled = true
			return nil
		case "ctrl+s":
			f.submitted = true
			return nil
		case "tab", "down":
			f.moveFocus(1)
			return nil
		case "shift+tab", "up":
			f.moveFocus(-1)
			return nil
		case "enter":
			// Enter on the last field submits, otherwise advances.
			if f.focused == len(f.inputs)-1 {
				f.submitted = true
			} else {
				f.moveFocus(1)
			}
			return nil
		}
	}

	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *FillForm) moveFocus(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

// View renders the form
func (f *FillForm) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Fill: %s", f.template.Name)))
	b.WriteString("\n\n")

	if len(f.inputs) == 0 {
		b.WriteString(styleValue.Render("This template has no variables."))
		b.WriteString("\n\n")
	}

	for i, variable := range f.template.Variables {
		b.WriteString(styleLabel.Render(variable.Label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(styleHelp.Render("Enter/Ctrl+S: copy result • Tab: next field • Esc: cancel"))

	return styleFormView.Render(b.String())
}
