package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dpshade/prompt-distiller/internal/cli"
	"github.com/dpshade/prompt-distiller/internal/service"
	"github.com/dpshade/prompt-distiller/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var version = "0.1.0"

func printHelp() {
	fmt.Printf(`prompt-distiller - Reusable prompt templates from your terminal

USAGE:
    prompt-distiller [OPTIONS] [COMMAND]

OPTIONS:
    --help          Show this help information
    --version       Print version information
    --dir           Library directory (default: ~/.prompt-distiller)

COMMANDS:
    (no command)           Start interactive TUI mode
    list, ls               List templates
    search <query>         Fuzzy search templates
    get, show <id>         Show a specific template
    create, new            Create a new template
    edit <id>              Edit an existing template
    delete, rm <id>        Delete a template
    pin <id>               Toggle pinned status
    fill <id> key=value    Fill variables and print the result
    use <id> key=value     Fill, copy to clipboard, record usage
    similar <id>           Find similar templates
    history <id>           Show version history
    diff <id> [index]      Diff a history version against current content
    restore <id> <index>   Restore content from a history version
    categories             List categories
    draft                  Show or clear the draft buffer
    export <id> <path>     Export a template to a markdown file
    import <dir>           Import markdown files
    watch                  Watch the clipboard and capture snippets as drafts
    settings               Show or update settings
    help                   Show CLI command help

EXAMPLES:
    prompt-distiller                                     # Start interactive mode
    prompt-distiller create --name "Greeting" --content "Hi {{name}}"
    prompt-distiller use <id> name=Ada                   # Fill and copy
    prompt-distiller search "code review"                # Fuzzy search
    prompt-distiller list --format table                 # List in table format
    prompt-distiller import ./prompts --dry-run          # Preview an import
    prompt-distiller watch                               # Capture clipboard drafts

STORAGE:
    Default directory: ~/.prompt-distiller
    Override with: PROMPT_DISTILLER_DIR=<path> or --dir
`)
}

func main() {
	var showVersion bool
	var showHelp bool
	var libraryDir string

	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.StringVar(&libraryDir, "dir", "", "Library directory")
	flag.Parse()

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("prompt-distiller version %s\n", version)
		os.Exit(0)
	}

	svc, err := service.NewService(libraryDir)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Command line arguments mean CLI mode - execute and exit
	args := flag.Args()
	if len(args) > 0 {
		cliHandler := cli.NewCLI(svc)
		if err := cliHandler.ExecuteCommand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// No arguments provided - start TUI mode
	model, err := ui.NewModel(svc)
	if err != nil {
		fmt.Println(err)
		return
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println(err)
		return
	}
}
