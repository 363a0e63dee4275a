// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

// =============================================================================
// THUMBNAIL PREVIEW
// =============================================================================

const dataURLPrefix = "data:image/jpeg;base64,"

// RenderThumbnail renders a page-one thumbnail data URL as terminal cells.
//
// Each character cell covers two vertical pixels using the upper half block,
// with the top pixel as foreground and the bottom pixel as background. The
// image is downscaled so its width fits maxWidth columns.
func RenderThumbnail(dataURL string, maxWidth int) (string, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return "", fmt.Errorf("unsupported preview format")
	}
	if maxWidth < 2 {
		maxWidth = 2
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
	if err != nil {
		return "", fmt.Errorf("decode preview: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode preview image: %w", err)
	}

	// Terminal cells are roughly twice as tall as wide, and each cell holds
	// two pixel rows, so scaling by width alone keeps proportions close.
	img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	return renderHalfBlocks(img), nil
}

// renderHalfBlocks converts an image into rows of colored half-block runes.
func renderHalfBlocks(img image.Image) string {
	bounds := img.Bounds()
	var b strings.Builder

	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := hexColor(img.At(x, y))

			style := lipgloss.NewStyle().Foreground(lipgloss.Color(top))
			if y+1 < bounds.Max.Y {
				style = style.Background(lipgloss.Color(hexColor(img.At(x, y+1))))
			}
			b.WriteString(style.Render("▀"))
		}
		if y+2 < bounds.Max.Y {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// hexColor converts a color to a #RRGGBB hex string.
func hexColor(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
