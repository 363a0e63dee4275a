// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// STREAM READER
// =============================================================================

// ssePrefix marks a payload line in a server-sent-events stream.
var ssePrefix = []byte("data: ")

// StreamReader parses the SSE response of streamGenerateContent. Each
// `data:` line carries one JSON GenerateContentResponse whose candidate text
// is a fragment of the answer.
type StreamReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	chunkCount  int
	finished    bool
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each chunk.
// Blocks until the stream is complete or the context is cancelled.
//
// A backend failure mid-stream surfaces as an error AFTER every previously
// received chunk has been delivered; callers keep the partial content.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					if !s.finished {
						callback(StreamChunk{Done: true})
					}
					return nil
				}
				return err
			}

			if chunk != nil {
				callback(*chunk)
				if chunk.Done {
					s.finished = true
				}
			}
		}
	}
}

// readChunk reads and parses a single SSE line from the stream.
// Returns (nil, nil) for lines carrying no chunk (blank keep-alives).
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(bytes.TrimSpace(line)) == 0 {
			return nil, io.EOF
		}
		if len(bytes.TrimSpace(line)) == 0 {
			return nil, err
		}
		// Process the final unterminated line before reporting EOF.
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}
	if !bytes.HasPrefix(line, ssePrefix) {
		// Comments and other SSE fields are ignored.
		return nil, nil
	}
	payload := bytes.TrimPrefix(line, ssePrefix)

	var response GenerateContentResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		// Skip malformed lines
		return nil, nil
	}

	// The API reports mid-stream failures as an error object payload.
	if response.Error != nil {
		return nil, &ClientError{
			Type:    ErrTypeStream,
			Message: "stream failed: " + response.Error.Message,
		}
	}

	if len(response.Candidates) == 0 {
		return nil, nil
	}
	candidate := response.Candidates[0]

	text := candidate.Text()
	if text != "" {
		s.accumulator.WriteString(text)
		s.chunkCount++
	}

	return &StreamChunk{
		Text:         text,
		Done:         candidate.FinishReason != "",
		FinishReason: candidate.FinishReason,
	}, nil
}

// GetAccumulated returns all accumulated content.
func (s *StreamReader) GetAccumulated() string {
	return s.accumulator.String()
}

// GetChunkCount returns the number of non-empty fragments received.
func (s *StreamReader) GetChunkCount() int {
	return s.chunkCount
}
