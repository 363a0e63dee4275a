// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docuchat TUI.
//
// Components are self-contained Bubble Tea models: the document picker for
// the upload screen, loading spinners, error displays, and the page-one
// thumbnail renderer. Each component owns its state and exposes
// Update/View in the standard Bubble Tea shape so the root model can
// compose them.
package components
