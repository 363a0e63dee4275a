// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/docuchat/docuchat-tui/internal/ui/styles"
)

// =============================================================================
// ERROR DISPLAY MODEL
// =============================================================================

// ErrorDisplay is a styled error screen with recovery suggestions.
type ErrorDisplay struct {
	title       string
	message     string
	suggestions []string
	logsPath    string
	fatal       bool

	width  int
	height int
}

// NewError creates an error display with title and message.
func NewError(title, message string) ErrorDisplay {
	return ErrorDisplay{
		title:    title,
		message:  message,
		logsPath: getLogsPath(),
	}
}

// NewErrorWithSuggestions creates an error with recovery suggestions.
func NewErrorWithSuggestions(title, message string, suggestions []string) ErrorDisplay {
	e := NewError(title, message)
	e.suggestions = suggestions
	return e
}

// SetSize sets the display dimensions.
func (e *ErrorDisplay) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// SetFatal marks the error as unrecoverable. A fatal error screen offers
// only quit, not dismiss.
func (e *ErrorDisplay) SetFatal(fatal bool) {
	e.fatal = fatal
}

// IsFatal returns whether the error is unrecoverable.
func (e *ErrorDisplay) IsFatal() bool {
	return e.fatal
}

// GetTitle returns the error title.
func (e *ErrorDisplay) GetTitle() string {
	return e.title
}

// GetMessage returns the error message.
func (e *ErrorDisplay) GetMessage() string {
	return e.message
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the error display centered in the available space.
func (e ErrorDisplay) View() string {
	width := e.width
	if width == 0 {
		width = 60
	}

	maxWidth := width - 8
	if maxWidth < 30 {
		maxWidth = 30
	}
	if maxWidth > 80 {
		maxWidth = 80
	}

	var parts []string

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true)
	parts = append(parts, titleStyle.Render("x "+e.title))
	parts = append(parts, "")

	if e.message != "" {
		messageStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(maxWidth - 4)
		parts = append(parts, messageStyle.Render(e.message))
		parts = append(parts, "")
	}

	if len(e.suggestions) > 0 {
		suggestionTitle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true).
			Render("Suggestions:")
		parts = append(parts, suggestionTitle)

		bulletStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
		textStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

		for _, suggestion := range e.suggestions {
			parts = append(parts, bulletStyle.Render("  * ")+textStyle.Render(suggestion))
		}
		parts = append(parts, "")
	}

	if e.logsPath != "" {
		logsLine := lipgloss.NewStyle().Foreground(styles.Amber).Render("Logs: ") +
			lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(e.logsPath)
		parts = append(parts, logsLine)
		parts = append(parts, "")
	}

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	if e.fatal {
		parts = append(parts, hintStyle.Render("[q] Quit"))
	} else {
		parts = append(parts, hintStyle.Render("[Enter] Dismiss    [q] Quit"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Rose).
		Padding(1, 2).
		Width(maxWidth).
		Render(content)

	if e.height > 0 {
		return lipgloss.Place(
			e.width, e.height,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}

	return box
}

// =============================================================================
// PREDEFINED ERROR TYPES
// =============================================================================

// MissingAPIKeyError creates the unrecoverable missing-credential error.
func MissingAPIKeyError() ErrorDisplay {
	e := NewErrorWithSuggestions(
		"API Key Missing",
		"No Gemini API key is configured. The assistant cannot start without one.",
		[]string{
			"Set the GEMINI_API_KEY environment variable",
			"Or add api_key under [gemini] in ~/.docuchat/config.toml",
			"Get a key at https://aistudio.google.com/apikey",
		},
	)
	e.SetFatal(true)
	return e
}

// =============================================================================
// INLINE MESSAGES
// =============================================================================

// InlineError renders a minimal inline error message.
func InlineError(message string) string {
	return lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true).
		Render("x ") +
		lipgloss.NewStyle().Foreground(styles.Rose).Render(message)
}

// InlineWarning renders a minimal inline warning message.
func InlineWarning(message string) string {
	return lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true).
		Render("! ") +
		lipgloss.NewStyle().Foreground(styles.Amber).Render(message)
}

// InlineSuccess renders a minimal inline success message.
func InlineSuccess(message string) string {
	return lipgloss.NewStyle().
		Foreground(styles.Emerald).
		Bold(true).
		Render("+ ") +
		lipgloss.NewStyle().Foreground(styles.Emerald).Render(message)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// getLogsPath returns the default log file path for display.
func getLogsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.docuchat/docuchat.log"
	}
	return filepath.ToSlash(filepath.Join(home, ".docuchat", "docuchat.log"))
}
