// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// apologyText is the generic model turn appended after a failed send.
const apologyText = "Sorry, I encountered an error while processing your request. Please try again."

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		if msg.ConversationID != m.conversation.ID {
			return m, nil
		}
		m.streamingID = msg.MessageID
		m.isStreaming = true
		m.notice = ""
		m.buffer.Reset()
		return m, tea.Batch(m.spinner.Start(), streamTickCmd())

	case StreamTokenMsg:
		// Fragments for a stale conversation or message are dropped.
		if msg.ConversationID != m.conversation.ID || msg.MessageID != m.streamingID {
			return m, nil
		}
		m.buffer.Write(msg.Token)
		return m, nil

	case StreamTickMsg:
		if !m.isStreaming {
			return m, nil
		}
		if content, ok := m.buffer.Flush(); ok {
			m.conversation.AppendChunk(m.streamingID, content)
			m.refreshTranscript()
		}
		return m, streamTickCmd()

	case StreamCompleteMsg:
		if msg.ConversationID != m.conversation.ID || msg.MessageID != m.streamingID {
			return m, nil
		}
		if content, ok := m.buffer.ForceFlush(); ok {
			m.conversation.AppendChunk(m.streamingID, content)
		}
		m.conversation.Finalize(m.streamingID)
		m.isStreaming = false
		m.streamingID = ""
		m.spinner.Stop()
		if msg.Err != nil {
			// The partial output stays; one apology turn follows it.
			m.conversation.AddModelMessage(apologyText)
			m.notice = msg.Err.Error()
		}
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.isStreaming {
			return m, nil
		}
		m.conversation.AddUserMessage(content)
		m.input.Reset()
		m.notice = ""
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, func() tea.Msg { return SubmitMsg{Content: content} }

	case key.Matches(msg, m.keys.Clear):
		// Clearing makes no sense mid-stream or on an empty transcript.
		if m.isStreaming || m.conversation.IsEmpty() {
			return m, nil
		}
		return m, func() tea.Msg { return ClearHistoryRequestMsg{} }

	case key.Matches(msg, m.keys.Reset):
		// Reset is always available; the root model cancels any in-flight
		// stream and the conversation-identity guard drops late fragments.
		return m, func() tea.Msg { return ResetRequestMsg{} }

	case key.Matches(msg, m.keys.Sidebar):
		m.showSidebar = !m.showSidebar
		m.SetSize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		if n := m.docs.Count(); n > 0 {
			m.previewIdx = (m.previewIdx + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// OnHistoryCleared refreshes the view after the root model cleared the
// conversation.
func (m *Model) OnHistoryCleared() {
	m.streamingID = ""
	m.isStreaming = false
	m.buffer.Reset()
	m.spinner.Stop()
	m.refreshTranscript()
}
