// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/docuchat/docuchat-tui/internal/config"
	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/ui/components"
	"github.com/docuchat/docuchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the chat view: transcript viewport, input line, document
// sidebar, and streaming state.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	conversation *model.Conversation
	docs         *model.DocumentStore

	input    textinput.Model
	viewport viewport.Model
	spinner  components.Spinner
	buffer   *StreamingBuffer
	renderer *glamour.TermRenderer

	streamingID string
	isStreaming bool
	showSidebar bool
	previewIdx  int
	notice      string

	modelName  string
	showTokens bool
	wordWrap   int

	width  int
	height int
	ready  bool
}

// New creates the chat view over the given conversation and document store.
func New(theme *styles.Theme, conversation *model.Conversation, docs *model.DocumentStore, cfg *config.Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask about your documents..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.TextStyle = theme.InputText
	input.CharLimit = 4000
	input.Focus()

	return Model{
		theme:        theme,
		keys:         DefaultKeyMap(),
		conversation: conversation,
		docs:         docs,
		input:        input,
		spinner:      components.NewThinkingSpinner(),
		buffer:       NewStreamingBuffer(),
		showSidebar:  true,
		modelName:    cfg.Gemini.Model,
		showTokens:   cfg.UI.ShowTokens,
		wordWrap:     cfg.UI.WordWrap,
	}
}

// IsStreaming reports whether a response stream is in flight.
func (m *Model) IsStreaming() bool {
	return m.isStreaming
}

// SetNotice sets a transient one-line notice under the transcript.
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

// SetSize lays out the chat view for the given terminal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	contentWidth := m.transcriptWidth()

	// Header, input, status bar, and spinner rows.
	viewportHeight := height - 7
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}

	wrap := m.wordWrap
	if wrap <= 0 || wrap > contentWidth-4 {
		wrap = contentWidth - 4
	}
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = r
	}

	m.input.Width = width - 6
	m.refreshTranscript()
}

// transcriptWidth returns the width available for the transcript after the
// sidebar is laid out.
func (m *Model) transcriptWidth() int {
	width := m.width
	if m.sidebarVisible() {
		width -= m.sidebarWidth() + 1
	}
	if width < 20 {
		width = 20
	}
	return width
}

// sidebarVisible reports whether the sidebar is shown at the current size.
func (m *Model) sidebarVisible() bool {
	return m.showSidebar && m.theme.GetLayoutMode() != styles.LayoutNarrow
}

// sidebarWidth returns the sidebar column width.
func (m *Model) sidebarWidth() int {
	if m.theme.GetLayoutMode() == styles.LayoutWide {
		return 34
	}
	return 26
}

// renderMarkdown renders finalized assistant output, falling back to the
// raw text when rendering fails.
func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
