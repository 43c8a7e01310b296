package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors, resolved once at startup based on terminal background.
var (
	ColorPrimary lipgloss.Color
	ColorAccent  lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorBorder    lipgloss.Color
)

// initializeColors sets up adaptive colors based on terminal background.
// accentColor comes from user settings and overrides the default accent when
// set to a non-empty value.
func initializeColors(accentColor string) {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
	case "dark":
		setDarkThemeColors()
	default:
		if lipgloss.HasDarkBackground() {
			setDarkThemeColors()
		} else {
			setLightThemeColors()
		}
	}

	if accentColor != "" {
		ColorAccent = lipgloss.Color(accentColor)
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorAccent = lipgloss.Color("42")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("238")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorAccent = lipgloss.Color("29")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("248")
}

// Component styles; built after initializeColors runs.
var (
	styleTitle    lipgloss.Style
	styleStatus   lipgloss.Style
	styleError    lipgloss.Style
	styleHelp     lipgloss.Style
	styleLabel    lipgloss.Style
	styleValue    lipgloss.Style
	stylePinned   lipgloss.Style
	styleFormView lipgloss.Style
)

func initializeStyles() {
	styleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	styleStatus = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Padding(0, 1)

	styleError = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true).
		Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Bold(true)

	styleValue = lipgloss.NewStyle().
		Foreground(ColorText)

	stylePinned = lipgloss.NewStyle().
		Foreground(ColorWarning)

	styleFormView = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(1, 2)
}
