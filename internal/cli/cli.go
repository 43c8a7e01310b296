package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"

	"github.com/dpshade/prompt-distiller/internal/clipboard"
	"github.com/dpshade/prompt-distiller/internal/config"
	"github.com/dpshade/prompt-distiller/internal/diff"
	"github.com/dpshade/prompt-distiller/internal/importer"
	"github.com/dpshade/prompt-distiller/internal/models"
	"github.com/dpshade/prompt-distiller/internal/service"
	"github.com/dpshade/prompt-distiller/internal/similarity"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service *service.Service
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{service: svc}
}

// ExecuteCommand processes a CLI command and returns the result
func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return c.printUsage()
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "list", "ls":
		return c.listTemplates(commandArgs)
	case "search":
		return c.searchTemplates(commandArgs)
	case "get", "show":
		return c.showTemplate(commandArgs)
	case "create", "new":
		return c.createTemplate(commandArgs)
	case "edit":
		return c.editTemplate(commandArgs)
	case "delete", "rm":
		return c.deleteTemplate(commandArgs)
	case "pin":
		return c.pinTemplate(commandArgs)
	case "fill":
		return c.fillTemplate(commandArgs)
	case "use":
		return c.useTemplate(commandArgs)
	case "similar":
		return c.showSimilar(commandArgs)
	case "history":
		return c.showHistory(commandArgs)
	case "diff":
		return c.diffTemplate(commandArgs)
	case "restore":
		return c.restoreTemplate(commandArgs)
	case "categories":
		return c.listCategories()
	case "draft":
		return c.handleDraft(commandArgs)
	case "export":
		return c.exportTemplate(commandArgs)
	case "import":
		return c.importTemplates(commandArgs)
	case "watch":
		return c.watchClipboard(commandArgs)
	case "settings":
		return c.handleSettings(commandArgs)
	case "help":
		return c.printUsage()
	default:
		return fmt.Errorf("unknown command: %s. Use 'help' for usage information", command)
	}
}

// listTemplates lists templates, optionally filtered
func (c *CLI) listTemplates(args []string) error {
	var format string
	var category string

	// Parse flags
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--category", "-c":
			if i+1 < len(args) {
				category = args[i+1]
				i++
			}
		}
	}

	templates := c.service.Query(category, "")
	return c.formatOutput(templates, format)
}

// searchTemplates ranks templates against a free-form query
func (c *CLI) searchTemplates(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search requires a query")
	}

	var format string
	var exact bool
	var queryParts []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--exact", "-e":
			exact = true
		default:
			queryParts = append(queryParts, args[i])
		}
	}

	query := strings.Join(queryParts, " ")

	var templates []*models.Template
	if exact {
		templates = c.service.Query("", query)
	} else {
		templates = c.service.FuzzySearch(query)
	}

	return c.formatOutput(templates, format)
}

// showTemplate displays a specific template
func (c *CLI) showTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("show requires a template ID")
	}

	id := args[0]
	var format string
	var render bool

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--render", "-r":
			render = true
		}
	}

	template, err := c.service.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}

	if render {
		return c.renderMarkdown(template.Content)
	}

	return c.formatSingleTemplate(template, format)
}

// createTemplate saves new template content
func (c *CLI) createTemplate(args []string) error {
	var name, content, category string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name", "-n":
			if i+1 < len(args) {
				name = args[i+1]
				i++
			}
		case "--content":
			if i+1 < len(args) {
				content = args[i+1]
				i++
			}
		case "--category", "-c":
			if i+1 < len(args) {
				category = args[i+1]
				i++
			}
		case "--stdin":
			data, err := readStdin()
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			content = data
		case "--from-draft":
			draft, err := c.service.Draft()
			if err != nil {
				return fmt.Errorf("failed to load draft: %w", err)
			}
			if draft == nil {
				return fmt.Errorf("no draft to create from")
			}
			content = draft.Content
			if name == "" {
				name = draft.Name
			}
			if category == "" {
				category = draft.CategoryCSV
			}
		}
	}

	template, duplicates, err := c.service.Create(content, name, category)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	fmt.Printf("Created template: %s (%s)\n", template.Name, template.ID)
	if len(template.Variables) > 0 {
		keys := make([]string, len(template.Variables))
		for i, v := range template.Variables {
			keys[i] = v.Key
		}
		fmt.Printf("Variables: %s\n", strings.Join(keys, ", "))
	}
	if len(template.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(template.Tags, ", "))
	}

	for _, match := range duplicates {
		fmt.Printf("Warning: similar to '%s' (%.0f%% overlap)\n",
			match.Template.Name, match.Score*100)
	}

	return nil
}

// editTemplate updates an existing template
func (c *CLI) editTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("edit requires a template ID")
	}

	id := args[0]
	var patch service.UpdatePatch

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--name", "-n":
			if i+1 < len(args) {
				patch.Name = &args[i+1]
				i++
			}
		case "--content":
			if i+1 < len(args) {
				patch.Content = &args[i+1]
				i++
			}
		case "--category", "-c":
			if i+1 < len(args) {
				patch.Category = service.SplitCategoryCSV(args[i+1])
				i++
			}
		case "--stdin":
			data, err := readStdin()
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			patch.Content = &data
		}
	}

	if err := c.service.Update(id, patch); err != nil {
		return fmt.Errorf("failed to edit template: %w", err)
	}

	fmt.Printf("Updated template: %s\n", id)
	return nil
}

// deleteTemplate removes a template
func (c *CLI) deleteTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("delete requires a template ID")
	}

	id := args[0]
	var force bool

	for _, arg := range args[1:] {
		if arg == "--force" || arg == "-f" {
			force = true
		}
	}

	if !force {
		fmt.Printf("Are you sure you want to delete template '%s'? (y/N): ", id)
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	c.service.Delete(id)
	fmt.Printf("Deleted template: %s\n", id)
	return nil
}

// pinTemplate toggles the pinned flag
func (c *CLI) pinTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("pin requires a template ID")
	}

	id := args[0]
	c.service.TogglePin(id)

	template, err := c.service.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}

	if template.Pinned {
		fmt.Printf("Pinned: %s\n", template.Name)
	} else {
		fmt.Printf("Unpinned: %s\n", template.Name)
	}
	return nil
}

// fillTemplate renders a template with variable values and prints the result
func (c *CLI) fillTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("fill requires a template ID")
	}

	id := args[0]
	values, err := parseValues(args[1:])
	if err != nil {
		return err
	}

	result, err := c.service.Fill(id, values)
	if err != nil {
		return fmt.Errorf("failed to fill template: %w", err)
	}

	fmt.Println(result)
	return nil
}

// useTemplate fills a template, copies the result, and records usage
func (c *CLI) useTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("use requires a template ID")
	}

	id := args[0]
	values, err := parseValues(args[1:])
	if err != nil {
		return err
	}

	result, err := c.service.Fill(id, values)
	if err != nil {
		return fmt.Errorf("failed to fill template: %w", err)
	}

	if statusMsg, err := clipboard.CopyWithFallback(result); err != nil {
		// Print the helpful error message and continue without failing
		fmt.Printf("Warning: %v\n", err)
		fmt.Println(result)
	} else {
		fmt.Printf("%s\n", statusMsg)
	}

	c.service.RecordUsage(id)
	return nil
}

// showSimilar lists templates similar to the given one
func (c *CLI) showSimilar(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("similar requires a template ID")
	}

	id := args[0]
	threshold := similarity.ScanThreshold

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--threshold", "-t":
			if i+1 < len(args) {
				value, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil {
					return fmt.Errorf("invalid threshold: %s", args[i+1])
				}
				threshold = value
				i++
			}
		}
	}

	matches, err := c.service.FindSimilar(id, threshold)
	if err != nil {
		return fmt.Errorf("failed to scan for similar templates: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No similar templates found")
		return nil
	}

	for _, match := range matches {
		fmt.Printf("%3.0f%%  %s - %s\n", match.Score*100, match.Template.ID, match.Template.Name)
	}
	return nil
}

// showHistory lists a template's version history
func (c *CLI) showHistory(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("history requires a template ID")
	}

	history, err := c.service.History(args[0])
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(history) == 0 {
		fmt.Println("No history")
		return nil
	}

	for i, entry := range history {
		preview := entry.Content
		if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
			preview = preview[:idx]
		}
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		fmt.Printf("%2d  %s  %s\n", i, entry.Timestamp.Format("2006-01-02 15:04"), preview)
	}
	return nil
}

// diffTemplate compares a history snapshot against the current content
func (c *CLI) diffTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("diff requires a template ID")
	}

	id := args[0]
	index := 0
	if len(args) > 1 {
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid history index: %s", args[1])
		}
		index = value
	}

	history, err := c.service.History(id)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if index < 0 || index >= len(history) {
		return fmt.Errorf("history index %d out of range (%d entries)", index, len(history))
	}

	lines, err := c.service.DiffWithVersion(id, history[index])
	if err != nil {
		return fmt.Errorf("failed to diff: %w", err)
	}

	for _, line := range lines {
		switch line.Kind {
		case diff.Same:
			fmt.Printf("  %s\n", line.Text)
		case diff.Add:
			fmt.Printf("+ %s\n", line.Text)
		case diff.Remove:
			fmt.Printf("- %s\n", line.Text)
		case diff.Change:
			fmt.Printf("- %s\n", line.TextBefore)
			fmt.Printf("+ %s\n", line.TextAfter)
		}
	}
	return nil
}

// restoreTemplate rolls a template back to a history snapshot
func (c *CLI) restoreTemplate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("restore requires a template ID and history index")
	}

	id := args[0]
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid history index: %s", args[1])
	}

	history, err := c.service.History(id)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if index < 0 || index >= len(history) {
		return fmt.Errorf("history index %d out of range (%d entries)", index, len(history))
	}

	if err := c.service.RestoreVersion(id, history[index]); err != nil {
		return fmt.Errorf("failed to restore version: %w", err)
	}

	fmt.Printf("Restored template %s to version from %s\n",
		id, history[index].Timestamp.Format("2006-01-02 15:04"))
	return nil
}

// listCategories prints the category index
func (c *CLI) listCategories() error {
	for _, category := range c.service.Categories() {
		fmt.Println(category)
	}
	return nil
}

// handleDraft shows or clears the draft buffer
func (c *CLI) handleDraft(args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "show":
		draft, err := c.service.Draft()
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}
		if draft == nil {
			fmt.Println("No draft")
			return nil
		}
		if draft.Name != "" {
			fmt.Printf("Name: %s\n", draft.Name)
		}
		if draft.CategoryCSV != "" {
			fmt.Printf("Category: %s\n", draft.CategoryCSV)
		}
		fmt.Printf("Saved: %s\n\n%s\n", draft.Timestamp.Format("2006-01-02 15:04"), draft.Content)
		return nil
	case "clear":
		if err := c.service.ClearDraft(); err != nil {
			return fmt.Errorf("failed to clear draft: %w", err)
		}
		fmt.Println("Draft cleared")
		return nil
	default:
		return fmt.Errorf("unknown draft action: %s (expected 'show' or 'clear')", action)
	}
}

// exportTemplate writes a template to a frontmatter markdown file
func (c *CLI) exportTemplate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("export requires a template ID and output path")
	}

	id := args[0]
	path := args[1]

	if err := c.service.Export(id, path); err != nil {
		return fmt.Errorf("failed to export template: %w", err)
	}

	fmt.Printf("Exported template %s to %s\n", id, path)
	return nil
}

// importTemplates bulk-loads frontmatter markdown files from a directory
func (c *CLI) importTemplates(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("import requires a directory path")
	}

	dir := args[0]
	var opts importer.Options

	for _, arg := range args[1:] {
		switch arg {
		case "--dry-run":
			opts.DryRun = true
		case "--skip-existing":
			opts.SkipExisting = true
		case "--overwrite":
			opts.Overwrite = true
		}
	}

	result, err := importer.ImportDirectory(c.service, dir, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println(result.Describe())
	for _, fileErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", fileErr.Path, fileErr.Err)
	}
	return nil
}

// watchClipboard runs the clipboard watcher in the foreground until
// interrupted. Each captured snippet lands in the draft buffer.
func (c *CLI) watchClipboard(args []string) error {
	if !clipboard.IsClipboardAvailable() {
		return clipboard.NewClipboardError()
	}

	settings := c.service.Settings()
	watcher := clipboard.NewWatcher(clipboard.DefaultPollInterval,
		settings.ClipboardMonitor.IgnoreKeywords,
		func(text string) {
			c.service.OnClipboardText(text)
			preview := text
			if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
				preview = preview[:idx]
			}
			if len(preview) > 60 {
				preview = preview[:57] + "..."
			}
			fmt.Printf("Captured draft: %s\n", preview)
		})

	watcher.Start()
	defer watcher.Stop()

	fmt.Println("Watching clipboard (Ctrl+C to stop)...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	fmt.Println("\nStopped")
	return nil
}

// handleSettings shows or updates persisted settings
func (c *CLI) handleSettings(args []string) error {
	if len(args) == 0 {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(c.service.Settings())
	}

	settings := c.service.Settings()

	switch args[0] {
	case "accent":
		if len(args) < 2 {
			return fmt.Errorf("settings accent requires a color value")
		}
		theme := settings.Theme
		theme.AccentColor = args[1]
		c.service.ApplySettings(config.Patch{Theme: &theme})
		fmt.Printf("Accent color set to %s\n", args[1])
	case "monitor":
		if len(args) < 2 || (args[1] != "on" && args[1] != "off") {
			return fmt.Errorf("settings monitor requires 'on' or 'off'")
		}
		monitor := settings.ClipboardMonitor
		monitor.Enabled = args[1] == "on"
		c.service.ApplySettings(config.Patch{ClipboardMonitor: &monitor})
		fmt.Printf("Clipboard monitor %s\n", args[1])
	case "keywords":
		if len(args) < 2 {
			return fmt.Errorf("settings keywords requires a comma-separated list")
		}
		monitor := settings.ClipboardMonitor
		monitor.IgnoreKeywords = nil
		for _, keyword := range strings.Split(args[1], ",") {
			if keyword = strings.TrimSpace(keyword); keyword != "" {
				monitor.IgnoreKeywords = append(monitor.IgnoreKeywords, keyword)
			}
		}
		c.service.ApplySettings(config.Patch{ClipboardMonitor: &monitor})
		fmt.Printf("Ignore keywords set to: %s\n", strings.Join(monitor.IgnoreKeywords, ", "))
	default:
		return fmt.Errorf("unknown settings action: %s", args[0])
	}
	return nil
}

// formatOutput formats templates for output
func (c *CLI) formatOutput(templates []*models.Template, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(templates)
	case "ids":
		for _, t := range templates {
			fmt.Println(t.ID)
		}
	case "table":
		fmt.Printf("%-36s %-30s %-20s %s\n", "ID", "Name", "Category", "Updated")
		fmt.Println(strings.Repeat("-", 100))
		for _, t := range templates {
			name := t.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			fmt.Printf("%-36s %-30s %-20s %s\n",
				t.ID, name, strings.Join(t.Category, ","), t.UpdatedAt.Format("2006-01-02"))
		}
	default:
		for _, t := range templates {
			marker := " "
			if t.Pinned {
				marker = "*"
			}
			fmt.Printf("%s %s - %s\n", marker, t.ID, t.Name)
			fmt.Printf("    Category: %s\n", strings.Join(t.Category, ", "))
			if len(t.Tags) > 0 {
				fmt.Printf("    Tags: %s\n", strings.Join(t.Tags, ", "))
			}
			fmt.Println()
		}
	}
	return nil
}

// formatSingleTemplate formats a single template for output
func (c *CLI) formatSingleTemplate(template *models.Template, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(template)
	default:
		fmt.Printf("ID: %s\n", template.ID)
		fmt.Printf("Name: %s\n", template.Name)
		fmt.Printf("Category: %s\n", strings.Join(template.Category, ", "))
		if len(template.Tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(template.Tags, ", "))
		}
		if len(template.Variables) > 0 {
			keys := make([]string, len(template.Variables))
			for i, v := range template.Variables {
				keys[i] = v.Key
			}
			fmt.Printf("Variables: %s\n", strings.Join(keys, ", "))
		}
		if template.Pinned {
			fmt.Println("Pinned: yes")
		}
		fmt.Printf("Used: %d times\n", template.Usage.Count)
		fmt.Printf("Created: %s\n", template.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("Updated: %s\n", template.UpdatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("\nContent:\n%s\n", template.Content)
	}
	return nil
}

// renderMarkdown prints content through the terminal markdown renderer
func (c *CLI) renderMarkdown(content string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	fmt.Print(out)
	return nil
}

// parseValues parses key=value pairs into a fill map
func parseValues(args []string) (map[string]string, error) {
	values := make(map[string]string)
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("invalid variable assignment %q (expected key=value)", arg)
		}
		values[strings.TrimSpace(key)] = value
	}
	return values, nil
}

func readStdin() (string, error) {
	data, err := os.ReadFile("/dev/stdin")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *CLI) printUsage() error {
	fmt.Println(`prompt-distiller - reusable prompt templates from your terminal

Usage:
  prompt-distiller <command> [arguments]

Commands:
  list, ls                    List templates (--category <name>, --format json|ids|table)
  search <query>              Fuzzy search by name, category, tags (--exact for substring)
  show <id>                   Show a template (--format json, --render for markdown preview)
  create, new                 Create a template (--name, --content, --category, --stdin, --from-draft)
  edit <id>                   Edit a template (--name, --content, --category, --stdin)
  delete, rm <id>             Delete a template (--force to skip confirmation)
  pin <id>                    Toggle pinned status
  fill <id> key=value ...     Fill variables and print the result
  use <id> key=value ...      Fill variables, copy to clipboard, record usage
  similar <id>                Find similar templates (--threshold 0.3)
  history <id>                Show version history
  diff <id> [index]           Diff a history version against current content
  restore <id> <index>        Restore content from a history version
  categories                  List categories
  draft [show|clear]          Show or clear the draft buffer
  export <id> <path>          Export a template to a markdown file
  import <dir>                Import markdown files (--dry-run, --skip-existing, --overwrite)
  watch                       Watch the clipboard and capture snippets as drafts
  settings                    Show settings; 'accent <color>', 'monitor on|off', 'keywords <csv>'
  help                        Show this help`)
	return nil
}
