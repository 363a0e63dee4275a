// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docproc turns PDF files into documents ready for chat context.
package docproc

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ProcessError represents a failure while processing a single file.
type ProcessError struct {
	Type    ErrorType
	Path    string
	Message string
	Cause   error
}

func (e *ProcessError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes processing errors for handling and display.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeNotAPDF means the file failed the media-type gate.
	ErrTypeNotAPDF
	// ErrTypeMissingFile means the file does not exist or is unreadable.
	ErrTypeMissingFile
	// ErrTypeCorruptFile means the parser rejected (or panicked on) the bytes.
	ErrTypeCorruptFile
	// ErrTypeInsufficientText means the extracted text fell below the
	// minimum threshold, typically a scanned or image-only PDF.
	ErrTypeInsufficientText
	// ErrTypeResourceLoad means a font or embedded resource failed to load
	// during extraction.
	ErrTypeResourceLoad
)

// newError builds a ProcessError for the given file.
func newError(t ErrorType, path, message string, cause error) *ProcessError {
	return &ProcessError{Type: t, Path: path, Message: message, Cause: cause}
}

// IsNotAPDF checks if an error is a media-type rejection.
func IsNotAPDF(err error) bool {
	return errType(err) == ErrTypeNotAPDF
}

// IsMissingFile checks if an error is a missing or unreadable file.
func IsMissingFile(err error) bool {
	return errType(err) == ErrTypeMissingFile
}

// IsCorruptFile checks if an error is a parse failure.
func IsCorruptFile(err error) bool {
	return errType(err) == ErrTypeCorruptFile
}

// IsInsufficientText checks if an error is a below-threshold rejection.
func IsInsufficientText(err error) bool {
	return errType(err) == ErrTypeInsufficientText
}

// IsResourceLoad checks if an error is a font/resource loading failure.
func IsResourceLoad(err error) bool {
	return errType(err) == ErrTypeResourceLoad
}

func errType(err error) ErrorType {
	var procErr *ProcessError
	if errors.As(err, &procErr) {
		return procErr.Type
	}
	return ErrTypeUnknown
}

// =============================================================================
// BATCH ERRORS
// =============================================================================

// BatchError aggregates per-file failures from one batch. A batch error
// never hides which files did succeed; successes are delivered separately.
type BatchError struct {
	Failures []*ProcessError
}

func (e *BatchError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("%s: %s", f.Path, f.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d files failed:", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  %s: %s", f.Path, f.Error())
	}
	return b.String()
}
