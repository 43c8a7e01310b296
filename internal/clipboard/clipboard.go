// Package clipboard reads and writes the system clipboard through platform
// utilities and hosts the background watcher that surfaces newly copied text.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ClipboardError represents an error when no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a new ClipboardError with helpful installation instructions
func NewClipboardError() *ClipboardError {
	var msg string
	switch runtime.GOOS {
	case "linux":
		msg = "no clipboard utility found. Install one of:\n" +
			"  • Ubuntu/Debian: sudo apt install xclip\n" +
			"  • Fedora/RHEL: sudo dnf install xclip\n" +
			"  • Arch: sudo pacman -S xclip\n" +
			"  • For Wayland: install wl-clipboard"
	case "darwin":
		msg = "pbcopy not available (this should not happen on macOS)"
	case "windows":
		msg = "clip command not available (this should not happen on Windows)"
	default:
		msg = fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}

	return &ClipboardError{
		OS:      runtime.GOOS,
		Message: msg,
	}
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipeTo(text, "pbcopy")
	case "linux":
		return copyLinux(text)
	case "windows":
		return pipeTo(text, "cmd", "/c", "clip")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Read returns the current text content of the system clipboard
func Read() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return readFrom("pbpaste")
	case "linux":
		return readLinux()
	case "windows":
		return readFrom("powershell", "-NoProfile", "-Command", "Get-Clipboard")
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// copyLinux tries the common Linux clipboard utilities in order
func copyLinux(text string) error {
	var lastErr error

	if isCommandAvailable("xclip") {
		if err := pipeTo(text, "xclip", "-selection", "clipboard"); err == nil {
			return nil
		} else {
			lastErr = fmt.Errorf("xclip failed: %w", err)
		}
	}

	if isCommandAvailable("xsel") {
		if err := pipeTo(text, "xsel", "--clipboard", "--input"); err == nil {
			return nil
		} else {
			lastErr = fmt.Errorf("xsel failed: %w", err)
		}
	}

	if isCommandAvailable("wl-copy") {
		if err := pipeTo(text, "wl-copy"); err == nil {
			return nil
		} else {
			lastErr = fmt.Errorf("wl-copy failed: %w", err)
		}
	}

	if lastErr != nil {
		return fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}

	return NewClipboardError()
}

// readLinux tries the common Linux clipboard utilities in order
func readLinux() (string, error) {
	if isCommandAvailable("xclip") {
		return readFrom("xclip", "-selection", "clipboard", "-o")
	}
	if isCommandAvailable("xsel") {
		return readFrom("xsel", "--clipboard", "--output")
	}
	if isCommandAvailable("wl-paste") {
		return readFrom("wl-paste", "--no-newline")
	}
	return "", NewClipboardError()
}

func pipeTo(text string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func readFrom(name string, args ...string) (string, error) {
	output, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return string(output), nil
}

// isCommandAvailable checks if a command is available in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CopyWithFallback attempts to copy to clipboard and returns a status message
func CopyWithFallback(text string) (string, error) {
	err := Copy(text)
	if err != nil {
		var clipErr *ClipboardError
		if errors.As(err, &clipErr) {
			// Missing utilities come with installation instructions already.
			return "", err
		}
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return "Copied to clipboard!", nil
}

// IsClipboardAvailable checks if clipboard functionality is available
func IsClipboardAvailable() bool {
	switch runtime.GOOS {
	case "darwin":
		return isCommandAvailable("pbcopy")
	case "linux":
		return isCommandAvailable("xclip") || isCommandAvailable("xsel") || isCommandAvailable("wl-copy")
	case "windows":
		return true
	default:
		return false
	}
}
