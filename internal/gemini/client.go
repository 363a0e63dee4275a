// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Gemini client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeConfigMissing means no API key is configured.
	ErrTypeConfigMissing
	// ErrTypeSessionInit means the backend rejected session validation.
	ErrTypeSessionInit
	// ErrTypeNotInitialized means a send was attempted without a session.
	ErrTypeNotInitialized
	// ErrTypeStream means the backend failed mid-response.
	ErrTypeStream
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrConfigMissing  = &ClientError{Type: ErrTypeConfigMissing, Message: "Gemini API key is not configured"}
	ErrNotInitialized = &ClientError{Type: ErrTypeNotInitialized, Message: "chat session not initialized"}
	ErrTimeout        = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsConfigMissing checks if an error is a missing-credential error.
func IsConfigMissing(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConfigMissing
	}
	return errors.Is(err, ErrConfigMissing)
}

// IsSessionInit checks if an error is a session initialization failure.
func IsSessionInit(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeSessionInit
	}
	return false
}

// IsNotInitialized checks if an error is a send-without-session violation.
func IsNotInitialized(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotInitialized
	}
	return errors.Is(err, ErrNotInitialized)
}

// IsStream checks if an error is a mid-stream backend failure.
func IsStream(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeStream
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// BaseURL is the API endpoint (default: the public Gemini endpoint).
	BaseURL string

	// APIKey authenticates every request.
	APIKey string

	// Model is the model identifier used for generation.
	Model string

	// Temperature controls response randomness.
	Temperature float64

	// Timeout for non-streaming requests (default: 30s).
	// Streaming requests carry no timeout; long answers are expected.
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     "https://generativelanguage.googleapis.com",
		Model:       "gemini-2.5-flash",
		Temperature: 0.3,
		Timeout:     30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Gemini API.
//
// The Client is stateless and thread-safe; conversation history lives in the
// Session layered on top of it.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a Gemini client with the given configuration.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if config.Model == "" {
		config.Model = "gemini-2.5-flash"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// MODEL VALIDATION
// =============================================================================

// CheckModel verifies the credential and model name with a metadata lookup.
// This is the cheapest round trip that exercises authentication, so session
// init uses it to fail fast before any generation call.
func (c *Client) CheckModel(ctx context.Context) (*ModelInfo, error) {
	if c.config.APIKey == "" {
		return nil, ErrConfigMissing
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s?key=%s",
		c.config.BaseURL, url.PathEscape(c.config.Model), url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "could not reach Gemini API", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeSessionInit,
			Message: "model validation failed: " + apiErrorMessage(resp),
		}
	}

	var info ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode model metadata", Cause: err}
	}

	return &info, nil
}

// =============================================================================
// STREAMING GENERATION
// =============================================================================

// StreamGenerate issues a streaming generation request and calls the
// callback for each text fragment in arrival order. It blocks until the
// stream completes, the backend fails, or the context is cancelled.
func (c *Client) StreamGenerate(ctx context.Context, reqBody *GenerateContentRequest, callback StreamCallback) error {
	if c.config.APIKey == "" {
		return ErrConfigMissing
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse&key=%s",
		c.config.BaseURL, url.PathEscape(c.config.Model), url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	// Use a client without timeout for streaming (we handle timeout via context)
	streamClient := &http.Client{}

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "could not reach Gemini API", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeStream,
			Message: "stream request failed: " + apiErrorMessage(resp),
		}
	}

	reader := NewStreamReader(resp.Body)
	return reader.Process(ctx, callback)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// apiErrorMessage extracts the API error message from a failed response,
// falling back to the HTTP status line.
func apiErrorMessage(resp *http.Response) string {
	var payload GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil &&
		payload.Error != nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return resp.Status
}
