// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// =============================================================================
// PAGE-1 THUMBNAIL
// =============================================================================

// extractPageThumbnail builds a small JPEG preview of the first page and
// returns it as a base64 data URL.
//
// There is no pure-Go rasterizer for arbitrary PDF pages, so the preview is
// the largest image object embedded on page 1. Text-only pages yield no
// preview, which callers treat as a non-fatal absence.
func extractPageThumbnail(data []byte, width int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "docuchat-thumb-")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	srcPath := filepath.Join(tmpDir, "src.pdf")
	if err := os.WriteFile(srcPath, data, 0600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	cfg := pdfcpumodel.NewDefaultConfiguration()
	cfg.ValidationMode = pdfcpumodel.ValidationRelaxed

	outDir := filepath.Join(tmpDir, "img")
	if err := os.MkdirAll(outDir, 0700); err != nil {
		return "", fmt.Errorf("image dir: %w", err)
	}
	if err := api.ExtractImagesFile(srcPath, outDir, []string{"1"}, cfg); err != nil {
		return "", fmt.Errorf("extract images: %w", err)
	}

	imgPath, err := largestFile(outDir)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(imgPath)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// largestFile returns the biggest file in dir. Pages often embed several
// images; the largest is the best stand-in for the page.
func largestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read image dir: %w", err)
	}

	var best string
	var bestSize int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}

	if best == "" {
		return "", fmt.Errorf("page 1 has no embedded images")
	}
	return best, nil
}
