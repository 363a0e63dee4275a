// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DOCUMENT TYPE
// =============================================================================

// Document is a processed PDF: its extracted text plus display metadata.
// Immutable after creation; owned by the DocumentStore until removed.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	PageCount int       `json:"page_count"`
	Content   string    `json:"content"`
	Preview   string    `json:"preview,omitempty"` // base64 JPEG data URL, may be empty
	AddedAt   time.Time `json:"added_at"`
}

// NewDocument creates a document with a fresh ID.
func NewDocument(name string, size int64, pageCount int, content, preview string) *Document {
	return &Document{
		ID:        uuid.New().String(),
		Name:      name,
		Size:      size,
		PageCount: pageCount,
		Content:   content,
		Preview:   preview,
		AddedAt:   time.Now(),
	}
}

// EstimateTokens gives a rough token estimate for the document content.
func (d *Document) EstimateTokens() int {
	return len(d.Content) / 4
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

// DocumentStore holds the documents for the current session in insertion
// order. It is not safe for concurrent use; all mutation happens on the
// event loop.
type DocumentStore struct {
	docs []*Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make([]*Document, 0)}
}

// Add inserts a document unless one with the same name and size is already
// present. Returns true if the document was added.
func (s *DocumentStore) Add(doc *Document) bool {
	for _, existing := range s.docs {
		if existing.Name == doc.Name && existing.Size == doc.Size {
			return false
		}
	}
	s.docs = append(s.docs, doc)
	return true
}

// Remove deletes the document with the given ID. Unknown IDs are a no-op.
func (s *DocumentStore) Remove(id string) {
	for i, doc := range s.docs {
		if doc.ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return
		}
	}
}

// Clear removes all documents.
func (s *DocumentStore) Clear() {
	s.docs = s.docs[:0]
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count() int {
	return len(s.docs)
}

// Get returns the document with the given ID, or nil.
func (s *DocumentStore) Get(id string) *Document {
	for _, doc := range s.docs {
		if doc.ID == id {
			return doc
		}
	}
	return nil
}

// All returns the documents in insertion order. The slice is shared; callers
// must not mutate it.
func (s *DocumentStore) All() []*Document {
	return s.docs
}

// TokenEstimate returns the rough token total across all documents.
// Informational only, not enforced as a limit.
func (s *DocumentStore) TokenEstimate() int {
	total := 0
	for _, doc := range s.docs {
		total += doc.EstimateTokens()
	}
	return total
}

// CombinedContext concatenates all document contents into the single context
// string handed to the chat backend. Deterministic for a given store state:
// insertion order, fixed delimiters.
func (s *DocumentStore) CombinedContext() string {
	if len(s.docs) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(s.docs))
	for _, doc := range s.docs {
		var b strings.Builder
		b.WriteString("--- DOCUMENT: ")
		b.WriteString(doc.Name)
		b.WriteString(" ---\n")
		b.WriteString(doc.Content)
		b.WriteString("\n------------------------\n")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}
