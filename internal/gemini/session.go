// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docuchat/docuchat-tui/internal/logging"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is one chat session: a fixed system instruction plus the
// accumulated turn history. The API is stateless, so the full history is
// resent with every request.
type Session struct {
	systemInstruction Content
	history           []Content
	createdAt         time.Time
}

// HistoryLen returns the number of accumulated turns.
func (s *Session) HistoryLen() int {
	return len(s.history)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the single live session and mediates all backend traffic.
//
// Exactly one session exists at a time; Init atomically replaces the
// previous session together with its history. That replacement is the
// "forget" mechanism behind history-clear.
type Manager struct {
	client *Client
	logger *zap.Logger

	mu      sync.Mutex
	session *Session
}

// NewManager creates a manager around the given client.
func NewManager(client *Client) *Manager {
	return &Manager{
		client: client,
		logger: logging.Named("gemini"),
	}
}

// Init builds a fresh session whose system instruction embeds the combined
// document text, and validates the backend and credential before committing
// to it. On validation failure the previous session (if any) is kept.
func (m *Manager) Init(ctx context.Context, documentsContext string) error {
	if m.client.GetConfig().APIKey == "" {
		return ErrConfigMissing
	}

	if _, err := m.client.CheckModel(ctx); err != nil {
		var msg string
		if clientErr, ok := err.(*ClientError); ok {
			msg = clientErr.Message
		} else {
			msg = err.Error()
		}
		m.logger.Error("session init failed", zap.Error(err))
		return &ClientError{
			Type:    ErrTypeSessionInit,
			Message: "failed to initialize chat session: " + msg,
			Cause:   err,
		}
	}

	session := &Session{
		systemInstruction: newTextContent("", BuildSystemInstruction(documentsContext)),
		history:           make([]Content, 0, 16),
		createdAt:         time.Now(),
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	m.logger.Info("session initialized",
		zap.String("model", m.client.GetConfig().Model),
		zap.Int("context_chars", len(documentsContext)))
	return nil
}

// IsInitialized reports whether a live session exists.
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Discard drops the live session without replacement. Used on reset.
func (m *Manager) Discard() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
}

// SendStream sends one user message on the live session, invoking the
// callback for each response fragment in arrival order.
//
// On completion the model turn joins the session history. On mid-stream
// failure the error is returned after all received fragments were delivered;
// the partial model turn is NOT added to history, but the user turn is kept
// so the transcript matches what the user saw.
func (m *Manager) SendStream(ctx context.Context, text string, callback StreamCallback) error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()
	if session == nil {
		return ErrNotInitialized
	}

	userTurn := newTextContent("user", text)
	session.history = append(session.history, userTurn)

	req := &GenerateContentRequest{
		SystemInstruction: &session.systemInstruction,
		Contents:          session.history,
		GenerationConfig:  &GenerationConfig{Temperature: m.client.GetConfig().Temperature},
	}

	var reply strings.Builder
	err := m.client.StreamGenerate(ctx, req, func(chunk StreamChunk) {
		reply.WriteString(chunk.Text)
		callback(chunk)
	})
	if err != nil {
		m.logger.Error("stream failed",
			zap.Int("partial_chars", reply.Len()),
			zap.Error(err))
		if _, ok := err.(*ClientError); ok {
			return err
		}
		return &ClientError{Type: ErrTypeStream, Message: "stream failed", Cause: err}
	}

	session.history = append(session.history, newTextContent("model", reply.String()))
	return nil
}
