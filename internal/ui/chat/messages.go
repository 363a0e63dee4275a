// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// =============================================================================
// OUTBOUND MESSAGES (chat -> root)
// =============================================================================

// SubmitMsg signals that the user submitted a chat message.
type SubmitMsg struct {
	Content string
}

// ClearHistoryRequestMsg asks the root model to clear the conversation and
// start a fresh backend session over the same documents.
type ClearHistoryRequestMsg struct{}

// ResetRequestMsg asks the root model to drop all documents and return to
// the upload screen.
type ResetRequestMsg struct{}

// =============================================================================
// STREAMING MESSAGES (root -> chat)
// =============================================================================

// StreamStartMsg signals that a response stream has begun.
type StreamStartMsg struct {
	ConversationID string
	MessageID      string
}

// StreamTokenMsg delivers one response fragment.
type StreamTokenMsg struct {
	ConversationID string
	MessageID      string
	Token          string
}

// StreamCompleteMsg signals that the stream finished. Err is non-nil when
// the stream failed mid-response; any fragments already delivered stay in
// the transcript.
type StreamCompleteMsg struct {
	ConversationID string
	MessageID      string
	Err            error
}

// StreamTickMsg drives the periodic flush of buffered tokens into the view.
type StreamTickMsg struct {
	Time time.Time
}
