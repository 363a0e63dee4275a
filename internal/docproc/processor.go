// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docproc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/docuchat/docuchat-tui/internal/logging"
	"github.com/docuchat/docuchat-tui/internal/model"
)

// =============================================================================
// PROCESSOR CONFIGURATION
// =============================================================================

// Options holds processing thresholds.
type Options struct {
	// MinTextChars is the minimum trimmed extracted-text length.
	// Documents below it are rejected as likely scanned or image-only.
	MinTextChars int

	// ThumbnailWidth is the pixel width previews are downscaled to.
	ThumbnailWidth int
}

// DefaultOptions returns the default processing thresholds.
func DefaultOptions() Options {
	return Options{
		MinTextChars:   50,
		ThumbnailWidth: 300,
	}
}

// Processor converts PDF files into model.Documents.
type Processor struct {
	opts   Options
	logger *zap.Logger
}

// NewProcessor creates a processor with the given options.
func NewProcessor(opts Options) *Processor {
	if opts.MinTextChars <= 0 {
		opts.MinTextChars = DefaultOptions().MinTextChars
	}
	if opts.ThumbnailWidth <= 0 {
		opts.ThumbnailWidth = DefaultOptions().ThumbnailWidth
	}
	return &Processor{
		opts:   opts,
		logger: logging.Named("docproc"),
	}
}

// =============================================================================
// SINGLE-FILE PROCESSING
// =============================================================================

// Process reads and parses one PDF into a Document.
//
// Failure taxonomy:
//   - wrong extension: ErrTypeNotAPDF
//   - missing/unreadable file: ErrTypeMissingFile
//   - unparseable bytes: ErrTypeCorruptFile
//   - below-threshold text: ErrTypeInsufficientText
//   - font/resource failures inside the parser: ErrTypeResourceLoad
//
// The page-1 thumbnail is best effort; its failure never fails the document.
func (p *Processor) Process(path string) (*model.Document, error) {
	name := filepath.Base(path)

	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, newError(ErrTypeNotAPDF, name,
			fmt.Sprintf("%s is not a PDF file", name), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(ErrTypeMissingFile, name,
			fmt.Sprintf("could not read %s", name), err)
	}

	content, pageCount, err := p.extractText(name, data)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(content)) < p.opts.MinTextChars {
		return nil, newError(ErrTypeInsufficientText, name,
			fmt.Sprintf("%s contains too little extractable text; it may be a scanned document", name), nil)
	}

	preview := p.renderThumbnail(name, data)

	return model.NewDocument(name, int64(len(data)), pageCount, content, preview), nil
}

// extractText walks the pages in increasing order and concatenates their
// plain text with per-page markers.
func (p *Processor) extractText(name string, data []byte) (content string, pageCount int, err error) {
	// The parser is known to panic on malformed input; treat a panic the
	// same as a parse error.
	defer func() {
		if r := recover(); r != nil {
			content = ""
			pageCount = 0
			err = newError(ErrTypeCorruptFile, name,
				fmt.Sprintf("%s appears to be corrupted", name),
				fmt.Errorf("parser panic: %v", r))
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, openErr := pdf.NewReader(reader, reader.Size())
	if openErr != nil {
		return "", 0, newError(ErrTypeCorruptFile, name,
			fmt.Sprintf("%s could not be parsed as a PDF", name), openErr)
	}

	pageCount = pdfReader.NumPage()
	var b strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			if isResourceError(pageErr) {
				return "", 0, newError(ErrTypeResourceLoad, name,
					fmt.Sprintf("failed to load PDF resources for %s", name), pageErr)
			}
			return "", 0, newError(ErrTypeCorruptFile, name,
				fmt.Sprintf("failed to read page %d of %s", i, name), pageErr)
		}

		fmt.Fprintf(&b, "--- Page %d ---\n%s\n\n", i, text)
	}

	return b.String(), pageCount, nil
}

// renderThumbnail produces the optional page-1 preview. Every failure is
// swallowed with a logged warning; the document survives without a preview.
func (p *Processor) renderThumbnail(name string, data []byte) string {
	preview, err := extractPageThumbnail(data, p.opts.ThumbnailWidth)
	if err != nil {
		p.logger.Warn("thumbnail generation failed",
			zap.String("file", name),
			zap.Error(err))
		return ""
	}
	return preview
}

// isResourceError classifies parser errors caused by fonts or embedded
// resources rather than document structure.
func isResourceError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "font") ||
		strings.Contains(msg, "encoding") ||
		strings.Contains(msg, "resource")
}
