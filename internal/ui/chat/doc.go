// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the docuchat TUI.
//
// The chat model owns the transcript viewport, the input line, and the
// document sidebar. It does not talk to the backend itself: submissions
// are emitted as messages for the root model, and response fragments
// arrive back as stream messages tagged with the conversation they
// belong to. Fragments for a conversation that is no longer current are
// dropped, which keeps late chunks from a cleared or reset chat out of
// the transcript.
package chat
