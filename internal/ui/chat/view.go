// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/ui/components"
	"github.com/docuchat/docuchat-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var rows []string
	rows = append(rows, m.renderHeader())

	transcript := m.viewport.View()
	if m.sidebarVisible() {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, transcript, " ", m.renderSidebar()))
	} else {
		rows = append(rows, transcript)
	}

	if m.isStreaming {
		rows = append(rows, m.spinner.View())
	} else if m.notice != "" {
		rows = append(rows, components.InlineError(m.notice))
	} else {
		rows = append(rows, "")
	}

	rows = append(rows, m.theme.InputContainer.Width(m.width-2).Render(m.input.View()))
	rows = append(rows, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderHeader renders the title line with document and model info.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("DocuChat")

	info := fmt.Sprintf("%d document(s)", m.docs.Count())
	if m.showTokens {
		info += fmt.Sprintf("  ~%d tokens", m.docs.TokenEstimate())
	}
	info += "  " + m.modelName

	return title + "  " + m.theme.HeaderSubtitle.Render(info)
}

// renderStatusBar renders the shortcut hints.
func (m Model) renderStatusBar() string {
	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(help.Key)+" "+m.theme.ShortcutDesc.Render(help.Desc))
	}
	return m.theme.StatusBar.Width(m.width - 2).Render(strings.Join(parts, "  "))
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript rebuilds the viewport content from the conversation.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	atBottom := m.viewport.AtBottom()

	var blocks []string
	for _, msg := range m.conversation.Messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	if len(blocks) == 0 {
		empty := m.theme.ThinkingText.Render("Documents are ready. Ask a question to get started.")
		blocks = append(blocks, "", empty)
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// renderMessage renders one transcript entry as a labeled bubble.
func (m *Model) renderMessage(msg *model.Message) string {
	maxWidth := m.transcriptWidth() - 8
	if maxWidth < 16 {
		maxWidth = 16
	}

	label := m.theme.DocMeta.Render(
		msg.Role.DisplayName() + " " + msg.Timestamp.Format("15:04"))

	switch {
	case msg.Role == model.RoleUser:
		bubble := m.theme.UserBubble.MaxWidth(maxWidth).Render(msg.DisplayContent())
		return lipgloss.JoinVertical(lipgloss.Right, label, bubble)

	case msg.IsStreaming:
		// Streaming content renders raw; markdown waits for finalization.
		content := msg.DisplayContent() + "▌"
		bubble := m.theme.AssistantBubble.MaxWidth(maxWidth).Render(content)
		return lipgloss.JoinVertical(lipgloss.Left, label, bubble)

	default:
		content := strings.TrimSpace(m.renderMarkdown(msg.DisplayContent()))
		if content == "" {
			content = msg.DisplayContent()
		}
		bubble := m.theme.AssistantBubble.MaxWidth(maxWidth).Render(content)
		return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
	}
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar renders the document list and the page-1 preview of the
// selected document.
func (m Model) renderSidebar() string {
	width := m.sidebarWidth()

	lines := []string{m.theme.SidebarTitle.Render("Documents")}

	var previewDoc *model.Document
	for i, doc := range m.docs.All() {
		name := util.TruncateRunes(doc.Name, width-6)
		meta := fmt.Sprintf("%s, %d page(s)", util.FormatFileSize(doc.Size), doc.PageCount)
		item := m.theme.DocItem
		if i == m.previewIdx {
			item = m.theme.DocItemSelected
			previewDoc = doc
		}
		lines = append(lines,
			item.Render(name),
			"  "+m.theme.DocMeta.Render(meta))
	}

	if m.showTokens {
		lines = append(lines, "",
			m.theme.DocMeta.Render(fmt.Sprintf("~%d tokens total", m.docs.TokenEstimate())))
	}

	if previewDoc != nil && previewDoc.Preview != "" {
		if preview, err := components.RenderThumbnail(previewDoc.Preview, width-4); err == nil {
			lines = append(lines, "", m.theme.DocMeta.Render("Preview"), preview)
		}
	}

	return m.theme.SidebarBox.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}
