// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func TestErrorDisplayView(t *testing.T) {
	e := NewErrorWithSuggestions("Processing Failed", "report.pdf is corrupt", []string{
		"Re-export the PDF",
	})
	e.SetSize(80, 24)

	out := e.View()
	if !strings.Contains(out, "Processing Failed") {
		t.Error("title missing from output")
	}
	if !strings.Contains(out, "report.pdf is corrupt") {
		t.Error("message missing from output")
	}
	if !strings.Contains(out, "Re-export the PDF") {
		t.Error("suggestion missing from output")
	}
	if !strings.Contains(out, "Dismiss") {
		t.Error("non-fatal error should offer dismissal")
	}
}

func TestMissingAPIKeyErrorIsFatal(t *testing.T) {
	e := MissingAPIKeyError()
	if !e.IsFatal() {
		t.Error("missing API key must be fatal")
	}
	if strings.Contains(e.View(), "Dismiss") {
		t.Error("fatal error should not offer dismissal")
	}
}
