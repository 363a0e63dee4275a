// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLargestFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.png"), make([]byte, 10), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.png"), make([]byte, 500), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	best, err := largestFile(dir)
	require.NoError(t, err)
	require.Equal(t, "big.png", filepath.Base(best))
}

func TestLargestFileEmptyDir(t *testing.T) {
	_, err := largestFile(t.TempDir())
	require.Error(t, err)
}

func TestExtractPageThumbnailRejectsGarbage(t *testing.T) {
	_, err := extractPageThumbnail([]byte("not a pdf at all"), 300)
	require.Error(t, err)
}

func TestThumbnailFailureDoesNotFailDocument(t *testing.T) {
	p := NewProcessor(DefaultOptions())
	// Garbage bytes cannot yield a preview; the helper must swallow the
	// error and return an empty string.
	require.Equal(t, "", p.renderThumbnail("x.pdf", []byte("junk")))
}
