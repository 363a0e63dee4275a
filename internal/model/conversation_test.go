// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

func TestConversationAppendOrder(t *testing.T) {
	conv := NewConversation()

	conv.AddUserMessage("first")
	id := conv.AddPendingModelMessage()
	conv.AppendChunk(id, "second")
	conv.Finalize(id)
	conv.AddUserMessage("third")

	if conv.MessageCount() != 3 {
		t.Fatalf("MessageCount = %d, want 3", conv.MessageCount())
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got := conv.Messages[i].DisplayContent(); got != w {
			t.Errorf("message[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestConversationAppendChunkUnknownID(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello")

	// Must not panic or mutate anything.
	conv.AppendChunk("msg_missing", "late chunk")
	conv.Finalize("msg_missing")

	if got := conv.Messages[0].Content; got != "hello" {
		t.Errorf("existing message mutated: %q", got)
	}
}

func TestConversationStreamingFlow(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	id := conv.AddPendingModelMessage()

	if !conv.IsStreaming() {
		t.Error("IsStreaming should be true with a pending model message")
	}

	conv.AppendChunk(id, "part one ")
	conv.AppendChunk(id, "part two")
	conv.Finalize(id)

	if conv.IsStreaming() {
		t.Error("IsStreaming should be false after finalize")
	}
	last := conv.LastMessage()
	if last.Content != "part one part two" {
		t.Errorf("finalized content = %q, want %q", last.Content, "part one part two")
	}
}

func TestConversationChunksAfterClearDropped(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	id := conv.AddPendingModelMessage()
	conv.AppendChunk(id, "early")

	conv.Clear()

	// Chunks from the abandoned stream target a message that no longer
	// exists; they must be silently dropped.
	conv.AppendChunk(id, " late")
	conv.Finalize(id)

	if !conv.IsEmpty() {
		t.Errorf("conversation should stay empty, has %d messages", conv.MessageCount())
	}
}

func TestConversationClear(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("one")
	conv.AddModelMessage("two")

	conv.Clear()

	if !conv.IsEmpty() {
		t.Error("conversation should be empty after Clear")
	}
	if conv.LastMessage() != nil {
		t.Error("LastMessage should be nil after Clear")
	}

	// Still usable after clearing.
	conv.AddUserMessage("again")
	if conv.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", conv.MessageCount())
	}
}

func TestConversationAddModelMessage(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddModelMessage("Sorry, I encountered an error while processing your request. Please try again.")

	if msg.IsStreaming {
		t.Error("direct model message should not be streaming")
	}
	if msg.Role != RoleModel {
		t.Errorf("Role = %v, want %v", msg.Role, RoleModel)
	}
}
