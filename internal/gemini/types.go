// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generative
// language API and the chat session layered on top of it.
package gemini

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Part is a single piece of content, always text in this application.
type Part struct {
	Text string `json:"text"`
}

// Content is one conversation turn on the wire.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes response generation.
type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

// GenerateContentRequest is the body of a generateContent call.
type GenerateContentRequest struct {
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Contents          []Content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// newTextContent builds a single-part text turn.
func newTextContent(role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// GenerateContentResponse is one streamed (or whole) API response payload.
type GenerateContentResponse struct {
	Candidates []Candidate    `json:"candidates"`
	Error      *APIErrorBody  `json:"error,omitempty"`
}

// Candidate is one generated answer; the API returns exactly one here.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Text returns the concatenated text parts of the candidate.
func (c *Candidate) Text() string {
	var out string
	for _, p := range c.Content.Parts {
		out += p.Text
	}
	return out
}

// APIErrorBody is the error object the API returns on failures.
type APIErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ModelInfo is the metadata returned for a model lookup, used to validate
// the credential and model name at session init.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamChunk is one delivered fragment of a streaming response.
type StreamChunk struct {
	// Text is the fragment content, possibly empty on the final chunk.
	Text string
	// Done is true once the backend reported a finish reason.
	Done bool
	// FinishReason is set on the final chunk ("STOP" on normal completion).
	FinishReason string
}

// StreamCallback is called for each chunk received during streaming.
type StreamCallback func(chunk StreamChunk)
