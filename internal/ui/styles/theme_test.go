// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeInitializesStyles(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Spot-check that core styles render without panicking.
	for name, render := range map[string]func() string{
		"header":    func() string { return theme.Header.Render("DocuChat") },
		"user":      func() string { return theme.UserBubble.Render("hi") },
		"assistant": func() string { return theme.AssistantBubble.Render("hello") },
		"error":     func() string { return theme.ErrorBox.Render("boom") },
		"sidebar":   func() string { return theme.SidebarBox.Render("docs") },
	} {
		if render() == "" {
			t.Errorf("%s style rendered empty output", name)
		}
	}
}

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tt.width, got, tt.want)
		}
	}
}
