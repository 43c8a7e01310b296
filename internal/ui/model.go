package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/prompt-distiller/internal/clipboard"
	"github.com/dpshade/prompt-distiller/internal/diff"
	"github.com/dpshade/prompt-distiller/internal/models"
	"github.com/dpshade/prompt-distiller/internal/service"
	"github.com/dpshade/prompt-distiller/internal/similarity"
)

// createGlamourRenderer creates a markdown renderer sized to the viewport.
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	var styleOption glamour.TermRendererOption
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		styleOption = glamour.WithStandardStyle("light")
	case "dark":
		styleOption = glamour.WithStandardStyle("dark")
	default:
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(wordWrap),
	)
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewLibrary ViewMode = iota
	ViewDetail
	ViewSaveForm
	ViewFillForm
	ViewHistory
)

// loadCompleteMsg carries a freshly loaded template list.
type loadCompleteMsg struct {
	templates []*models.Template
}

// tickMsg clears the status message.
type tickMsg time.Time

func clearStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model represents the TUI application state
type Model struct {
	service  *service.Service
	viewMode ViewMode

	// UI components
	templateList list.Model
	viewport     viewport.Model
	keys         KeyMap

	glamourRenderer *glamour.TermRenderer

	// Data
	selected   *models.Template
	categories []string
	category   int

	// Forms
	saveForm *SaveForm
	fillForm *FillForm

	// History view state
	history       []models.HistoryEntry
	historyCursor int
	showDiff      bool

	// Clipboard watcher
	watcher *clipboard.Watcher

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	deleteConfirm bool

	err error
}

// KeyMap defines all key bindings
type KeyMap struct {
	Enter    key.Binding
	Back     key.Binding
	Quit     key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Pin      key.Binding
	Fill     key.Binding
	Copy     key.Binding
	History  key.Binding
	Similar  key.Binding
	Watch    key.Binding
	Category key.Binding
}

var keys = KeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new template"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Pin: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pin"),
	),
	Fill: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fill"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	History: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "history"),
	),
	Similar: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "similar"),
	),
	Watch: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "clipboard watch"),
	),
	Category: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next category"),
	),
}

// NewModel creates a new TUI model
func NewModel(svc *service.Service) (*Model, error) {
	settings := svc.Settings()
	initializeColors(settings.Theme.AccentColor)
	initializeStyles()

	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	renderer, err := createGlamourRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	watcher := clipboard.NewWatcher(clipboard.DefaultPollInterval,
		settings.ClipboardMonitor.IgnoreKeywords,
		svc.OnClipboardText)
	if settings.ClipboardMonitor.Enabled {
		watcher.Start()
	}

	return &Model{
		service:         svc,
		viewMode:        ViewLibrary,
		templateList:    l,
		viewport:        vp,
		keys:            keys,
		glamourRenderer: renderer,
		categories:      svc.Categories(),
		watcher:         watcher,
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.loadTemplatesCmd()
}

func (m Model) loadTemplatesCmd() tea.Cmd {
	return func() tea.Msg {
		return loadCompleteMsg{templates: m.service.Query(m.currentCategory(), "")}
	}
}

func (m Model) currentCategory() string {
	if len(m.categories) == 0 {
		return ""
	}
	return m.categories[m.category]
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.templateList.SetSize(msg.Width-4, msg.Height-6)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		if m.saveForm != nil {
			m.saveForm.Resize(msg.Width, msg.Height)
		}
		if renderer, err := createGlamourRenderer(msg.Width - 8); err == nil {
			m.glamourRenderer = renderer
		}
		return m, nil

	case loadCompleteMsg:
		items := make([]list.Item, len(msg.templates))
		for i, t := range msg.templates {
			items[i] = t
		}
		m.templateList.SetItems(items)
		return m, nil

	case tickMsg:
		m.statusMsg = ""
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ViewLibrary:
			return m.updateLibrary(msg)
		case ViewDetail:
			return m.updateDetail(msg)
		case ViewSaveForm:
			return m.updateSaveForm(msg)
		case ViewFillForm:
			return m.updateFillForm(msg)
		case ViewHistory:
			return m.updateHistory(msg)
		}
	}

	return m, nil
}

func (m Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is active, all keys belong to it.
	if m.templateList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.templateList, cmd = m.templateList.Update(msg)
		return m, cmd
	}

	if m.deleteConfirm {
		m.deleteConfirm = false
		if msg.String() == "y" {
			if t := m.selectedTemplate(); t != nil {
				m.service.Delete(t.ID)
				m.statusMsg = "Deleted " + t.Name
			}
			return m, tea.Batch(m.loadTemplatesCmd(), clearStatusCmd())
		}
		m.statusMsg = "Cancelled"
		return m, clearStatusCmd()
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.watcher.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Enter):
		if t := m.selectedTemplate(); t != nil {
			m.selected = t
			m.viewMode = ViewDetail
			m.viewport.SetContent(m.renderDetail(t))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		name, category, content := "", "", ""
		// A pending draft prefills the form.
		if draft, err := m.service.Draft(); err == nil && draft != nil {
			name, category, content = draft.Name, draft.CategoryCSV, draft.Content
		}
		m.saveForm = NewSaveForm(name, category, content)
		m.saveForm.Resize(m.width, m.height)
		m.viewMode = ViewSaveForm
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if t := m.selectedTemplate(); t != nil {
			m.saveForm = NewEditForm(t)
			m.saveForm.Resize(m.width, m.height)
			m.viewMode = ViewSaveForm
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t := m.selectedTemplate(); t != nil {
			m.deleteConfirm = true
			m.statusMsg = fmt.Sprintf("Delete '%s'? (y/N)", t.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Pin):
		if t := m.selectedTemplate(); t != nil {
			m.service.TogglePin(t.ID)
		}
		return m, m.loadTemplatesCmd()

	case key.Matches(msg, m.keys.Fill):
		if t := m.selectedTemplate(); t != nil {
			m.selected = t
			m.fillForm = NewFillForm(t)
			m.viewMode = ViewFillForm
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if t := m.selectedTemplate(); t != nil {
			m.statusMsg = m.copyText(t.Content)
		}
		return m, clearStatusCmd()

	case key.Matches(msg, m.keys.Watch):
		return m.toggleWatcher()

	case key.Matches(msg, m.keys.Category):
		m.categories = m.service.Categories()
		m.category = (m.category + 1) % len(m.categories)
		return m, m.loadTemplatesCmd()
	}

	var cmd tea.Cmd
	m.templateList, cmd = m.templateList.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.viewMode = ViewLibrary
		return m, m.loadTemplatesCmd()

	case key.Matches(msg, m.keys.Quit):
		m.watcher.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Copy):
		m.statusMsg = m.copyText(m.selected.Content)
		return m, clearStatusCmd()

	case key.Matches(msg, m.keys.Fill):
		m.fillForm = NewFillForm(m.selected)
		m.viewMode = ViewFillForm
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		m.saveForm = NewEditForm(m.selected)
		m.saveForm.Resize(m.width, m.height)
		m.viewMode = ViewSaveForm
		return m, nil

	case key.Matches(msg, m.keys.History):
		history, err := m.service.History(m.selected.ID)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.history = history
		m.historyCursor = 0
		m.showDiff = false
		m.viewMode = ViewHistory
		return m, nil

	case key.Matches(msg, m.keys.Similar):
		matches, err := m.service.FindSimilar(m.selected.ID, similarity.ScanThreshold)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.viewport.SetContent(m.renderSimilar(matches))
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateSaveForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.saveForm.Update(msg)

	if m.saveForm.cancelled {
		m.viewMode = ViewLibrary
		m.saveForm = nil
		return m, m.loadTemplatesCmd()
	}

	if m.saveForm.submitted {
		content, name, categoryCSV := m.saveForm.Values()

		if id := m.saveForm.EditingID(); id != "" {
			patch := service.UpdatePatch{
				Name:     &name,
				Content:  &content,
				Category: service.SplitCategoryCSV(categoryCSV),
			}
			if err := m.service.Update(id, patch); err != nil {
				m.saveForm.submitted = false
				m.statusMsg = err.Error()
				return m, clearStatusCmd()
			}
			m.statusMsg = "Updated " + name
		} else {
			template, duplicates, err := m.service.Create(content, name, categoryCSV)
			if err != nil {
				m.saveForm.submitted = false
				m.statusMsg = err.Error()
				return m, clearStatusCmd()
			}
			m.statusMsg = "Saved " + template.Name
			if len(duplicates) > 0 {
				m.statusMsg = fmt.Sprintf("Saved %s (similar to '%s', %.0f%% overlap)",
					template.Name, duplicates[0].Template.Name, duplicates[0].Score*100)
			}
		}

		m.viewMode = ViewLibrary
		m.saveForm = nil
		m.categories = m.service.Categories()
		return m, tea.Batch(m.loadTemplatesCmd(), clearStatusCmd())
	}

	return m, cmd
}

func (m Model) updateFillForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.fillForm.Update(msg)

	if m.fillForm.cancelled {
		m.fillForm = nil
		m.viewMode = ViewLibrary
		return m, m.loadTemplatesCmd()
	}

	if m.fillForm.submitted {
		result, err := m.service.Fill(m.selected.ID, m.fillForm.Values())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.statusMsg = m.copyText(result)
		m.service.RecordUsage(m.selected.ID)

		m.fillForm = nil
		m.viewMode = ViewLibrary
		return m, tea.Batch(m.loadTemplatesCmd(), clearStatusCmd())
	}

	return m, cmd
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.viewport.SetContent(m.renderDetail(m.selected))
		return m, nil
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		return m, nil
	case "down", "j":
		if m.historyCursor < len(m.history)-1 {
			m.historyCursor++
		}
		return m, nil
	case "x":
		m.showDiff = !m.showDiff
		return m, nil
	case "r":
		if len(m.history) == 0 {
			return m, nil
		}
		entry := m.history[m.historyCursor]
		if err := m.service.RestoreVersion(m.selected.ID, entry); err != nil {
			m.err = err
			return m, nil
		}
		if t, err := m.service.Get(m.selected.ID); err == nil {
			m.selected = t
		}
		m.statusMsg = "Restored version from " + entry.Timestamp.Format("2006-01-02 15:04")
		m.viewMode = ViewDetail
		m.viewport.SetContent(m.renderDetail(m.selected))
		return m, clearStatusCmd()
	case "q", "ctrl+c":
		m.watcher.Stop()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) toggleWatcher() (tea.Model, tea.Cmd) {
	if m.watcher.Running() {
		m.watcher.Stop()
		m.statusMsg = "Clipboard watch off"
	} else {
		if !clipboard.IsClipboardAvailable() {
			m.statusMsg = clipboard.NewClipboardError().Error()
			return m, clearStatusCmd()
		}
		m.watcher.Start()
		m.statusMsg = "Clipboard watch on"
	}
	return m, clearStatusCmd()
}

func (m Model) selectedTemplate() *models.Template {
	item := m.templateList.SelectedItem()
	if item == nil {
		return nil
	}
	template, ok := item.(*models.Template)
	if !ok {
		return nil
	}
	return template
}

func (m Model) copyText(text string) string {
	statusMsg, err := clipboard.CopyWithFallback(text)
	if err != nil {
		return fmt.Sprintf("Warning: %v", err)
	}
	return statusMsg
}

// View renders the current view
func (m Model) View() string {
	if m.err != nil {
		return styleError.Render(fmt.Sprintf("Error: %v", m.err)) +
			styleHelp.Render("\nPress q to quit")
	}

	switch m.viewMode {
	case ViewSaveForm:
		return m.saveForm.View()
	case ViewFillForm:
		return m.fillForm.View()
	case ViewDetail:
		return m.viewDetail()
	case ViewHistory:
		return m.viewHistory()
	default:
		return m.viewLibrary()
	}
}

func (m Model) viewLibrary() string {
	var b strings.Builder

	title := "Prompt Distiller"
	if category := m.currentCategory(); category != "" && category != service.AllCategories {
		title += " — " + category
	}
	if m.watcher.Running() {
		title += "  [watching clipboard]"
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.templateList.View())
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(styleStatus.Render(m.statusMsg))
	} else {
		b.WriteString(styleHelp.Render(
			"Enter: open • n: new • e: edit • f: fill • c: copy • p: pin • d: delete • Tab: category • w: watch • /: filter • q: quit"))
	}

	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(m.selected.Name))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(styleStatus.Render(m.statusMsg))
	} else {
		b.WriteString(styleHelp.Render(
			"c: copy • f: fill • e: edit • h: history • s: similar • Esc: back • q: quit"))
	}

	return b.String()
}

func (m Model) viewHistory() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("History: " + m.selected.Name))
	b.WriteString("\n\n")

	if len(m.history) == 0 {
		b.WriteString(styleValue.Render("No history yet."))
		b.WriteString("\n")
	}

	for i, entry := range m.history {
		cursor := "  "
		if i == m.historyCursor {
			cursor = "> "
		}
		preview := entry.Content
		if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
			preview = preview[:idx]
		}
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		line := fmt.Sprintf("%s%s  %s", cursor, entry.Timestamp.Format("2006-01-02 15:04"), preview)
		if i == m.historyCursor {
			b.WriteString(styleValue.Bold(true).Render(line))
		} else {
			b.WriteString(styleValue.Render(line))
		}
		b.WriteString("\n")
	}

	if m.showDiff && len(m.history) > 0 {
		b.WriteString("\n")
		b.WriteString(styleLabel.Render("Diff against current content:"))
		b.WriteString("\n")
		b.WriteString(m.renderDiff(m.history[m.historyCursor]))
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(styleStatus.Render(m.statusMsg))
	} else {
		b.WriteString(styleHelp.Render("↑/↓: select • x: diff • r: restore • Esc: back"))
	}

	return b.String()
}

func (m Model) renderDiff(entry models.HistoryEntry) string {
	lines, err := m.service.DiffWithVersion(m.selected.ID, entry)
	if err != nil {
		return styleError.Render(err.Error())
	}

	addStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	removeStyle := lipgloss.NewStyle().Foreground(ColorError)

	var b strings.Builder
	for _, line := range lines {
		switch line.Kind {
		case diff.Same:
			b.WriteString(styleValue.Render("  " + line.Text))
			b.WriteString("\n")
		case diff.Add:
			b.WriteString(addStyle.Render("+ " + line.Text))
			b.WriteString("\n")
		case diff.Remove:
			b.WriteString(removeStyle.Render("- " + line.Text))
			b.WriteString("\n")
		case diff.Change:
			b.WriteString(removeStyle.Render("- " + line.TextBefore))
			b.WriteString("\n")
			b.WriteString(addStyle.Render("+ " + line.TextAfter))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderDetail(template *models.Template) string {
	var b strings.Builder

	b.WriteString(styleLabel.Render("Category: "))
	b.WriteString(styleValue.Render(strings.Join(template.Category, ", ")))
	b.WriteString("\n")
	if len(template.Tags) > 0 {
		b.WriteString(styleLabel.Render("Tags: "))
		b.WriteString(styleValue.Render(strings.Join(template.Tags, ", ")))
		b.WriteString("\n")
	}
	if len(template.Variables) > 0 {
		keys := make([]string, len(template.Variables))
		for i, v := range template.Variables {
			keys[i] = v.Key
		}
		b.WriteString(styleLabel.Render("Variables: "))
		b.WriteString(styleValue.Render(strings.Join(keys, ", ")))
		b.WriteString("\n")
	}
	if template.Pinned {
		b.WriteString(stylePinned.Render("📌 Pinned"))
		b.WriteString("\n")
	}
	b.WriteString(styleLabel.Render("Used: "))
	b.WriteString(styleValue.Render(fmt.Sprintf("%d times", template.Usage.Count)))
	b.WriteString("\n\n")

	rendered, err := m.glamourRenderer.Render(template.Content)
	if err != nil {
		rendered = template.Content
	}
	b.WriteString(rendered)

	return b.String()
}

func (m Model) renderSimilar(matches []similarity.Match) string {
	var b strings.Builder

	b.WriteString(styleLabel.Render("Similar templates:"))
	b.WriteString("\n\n")

	if len(matches) == 0 {
		b.WriteString(styleValue.Render("No similar templates found."))
		b.WriteString("\n")
		return b.String()
	}

	for _, match := range matches {
		b.WriteString(styleValue.Render(fmt.Sprintf("%3.0f%%  %s", match.Score*100, match.Template.Name)))
		b.WriteString("\n")
	}
	return b.String()
}
