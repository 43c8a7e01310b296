// Package config persists user settings separately from the template
// collection. Settings are a small JSON document; a missing or corrupt file
// falls back to defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const settingsFile = "settings.json"

// WindowSettings records the preferred window mode of the desktop shell.
type WindowSettings struct {
	Mode string `json:"mode"`
}

// ClipboardMonitorSettings controls the clipboard watcher.
type ClipboardMonitorSettings struct {
	Enabled        bool     `json:"enabled"`
	AutoCapture    bool     `json:"autoCapture"`
	IgnoreKeywords []string `json:"ignoreKeywords"`
}

// ThemeSettings holds presentation preferences.
type ThemeSettings struct {
	AccentColor     string `json:"accentColor"`
	BackgroundImage string `json:"backgroundImage"`
	GlassEffect     bool   `json:"glassEffect"`
}

// Settings is the full persisted settings document.
type Settings struct {
	Window           WindowSettings           `json:"window"`
	ClipboardMonitor ClipboardMonitorSettings `json:"clipboardMonitor"`
	Theme            ThemeSettings            `json:"theme"`
}

// Patch is a partial settings update; nil sections are left untouched.
type Patch struct {
	Window           *WindowSettings           `json:"window,omitempty"`
	ClipboardMonitor *ClipboardMonitorSettings `json:"clipboardMonitor,omitempty"`
	Theme            *ThemeSettings            `json:"theme,omitempty"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		Window: WindowSettings{Mode: "standard"},
		ClipboardMonitor: ClipboardMonitorSettings{
			Enabled:     false,
			AutoCapture: false,
			IgnoreKeywords: []string{
				"password", "token", "secret", "api_key", "apikey", "passwd", "credential",
			},
		},
		Theme: ThemeSettings{
			AccentColor: "#10B981",
			GlassEffect: true,
		},
	}
}

// Apply merges a patch section by section, mirroring how the settings store
// has always merged partial updates.
func (s *Settings) Apply(patch Patch) {
	if patch.Window != nil {
		s.Window = *patch.Window
	}
	if patch.ClipboardMonitor != nil {
		s.ClipboardMonitor = *patch.ClipboardMonitor
	}
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
}

// Load reads settings from the library root, falling back to defaults when
// the file is absent or unreadable.
func Load(rootPath string) Settings {
	data, err := os.ReadFile(filepath.Join(rootPath, settingsFile))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read settings: %v\n", err)
		}
		return DefaultSettings()
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: settings file is corrupt, using defaults: %v\n", err)
		return DefaultSettings()
	}

	return settings
}

// Save writes settings to the library root.
func Save(rootPath string, settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Join(rootPath, settingsFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
