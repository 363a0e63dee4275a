// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered list of messages for a single chat.
// Append order is display order; messages are never reordered or removed
// individually, only cleared as a whole.
type Conversation struct {
	ID        string     `json:"id"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewConversation creates a new empty conversation.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// CONVERSATION METHODS
// =============================================================================

// AddUserMessage appends a complete user message and returns it.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	return msg
}

// AddPendingModelMessage appends an empty streaming model message and
// returns its ID for subsequent AppendChunk/Finalize calls.
func (c *Conversation) AddPendingModelMessage() string {
	msg := NewPendingModelMessage()
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	return msg.ID
}

// AddModelMessage appends a complete model message that never streamed.
func (c *Conversation) AddModelMessage(content string) *Message {
	msg := NewModelMessage(content)
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	return msg
}

// AppendChunk appends a streamed fragment to the message with the given ID.
// Unknown IDs are a no-op: chunks may arrive after the conversation was
// cleared or replaced.
func (c *Conversation) AppendChunk(id, text string) {
	if msg := c.findMessage(id); msg != nil {
		msg.AppendChunk(text)
		c.UpdatedAt = time.Now()
	}
}

// Finalize completes streaming on the message with the given ID.
// Unknown IDs are a no-op.
func (c *Conversation) Finalize(id string) {
	if msg := c.findMessage(id); msg != nil {
		msg.FinalizeStream()
		c.UpdatedAt = time.Now()
	}
}

// Clear removes all messages. The conversation keeps its identity.
func (c *Conversation) Clear() {
	c.Messages = c.Messages[:0]
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// IsStreaming returns true if any message is still receiving chunks.
// At most one message streams at a time (single in-flight request).
func (c *Conversation) IsStreaming() bool {
	if last := c.LastMessage(); last != nil {
		return last.IsStreaming
	}
	return false
}

// findMessage locates a message by ID, newest first. Streaming targets are
// almost always the last message.
func (c *Conversation) findMessage(id string) *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].ID == id {
			return c.Messages[i]
		}
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
