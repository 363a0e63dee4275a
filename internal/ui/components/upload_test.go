// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docuchat/docuchat-tui/internal/ui/styles"
)

func writeTempPDF(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadStageDeduplicates(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	a := writeTempPDF(t, dir, "report.pdf", 100)
	// Same name and size in a different directory counts as a duplicate.
	dup := writeTempPDF(t, other, "report.pdf", 100)
	b := writeTempPDF(t, dir, "notes.pdf", 50)

	u := NewUpload(styles.NewTheme())

	if !u.Stage(a) {
		t.Error("first file should stage")
	}
	if u.Stage(dup) {
		t.Error("same name and size should be rejected")
	}
	if !u.Stage(b) {
		t.Error("distinct file should stage")
	}
	if u.StagedCount() != 2 {
		t.Errorf("staged = %d, want 2", u.StagedCount())
	}
}

func TestUploadStageSameNameDifferentSize(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	a := writeTempPDF(t, dir, "report.pdf", 100)
	b := writeTempPDF(t, other, "report.pdf", 200)

	u := NewUpload(styles.NewTheme())
	u.Stage(a)
	if !u.Stage(b) {
		t.Error("same name but different size is a distinct document")
	}
}

func TestUploadStageMissingFile(t *testing.T) {
	u := NewUpload(styles.NewTheme())
	if u.Stage(filepath.Join(t.TempDir(), "ghost.pdf")) {
		t.Error("missing file should not stage")
	}
}

func TestUploadRemove(t *testing.T) {
	dir := t.TempDir()
	a := writeTempPDF(t, dir, "a.pdf", 10)
	b := writeTempPDF(t, dir, "b.pdf", 20)

	u := NewUpload(styles.NewTheme())
	u.Stage(a)
	u.Stage(b)

	u.cursor = 0
	u.removeAt(u.cursor)

	paths := u.StagedPaths()
	if len(paths) != 1 || filepath.Base(paths[0]) != "b.pdf" {
		t.Errorf("paths = %v, want only b.pdf", paths)
	}
}
