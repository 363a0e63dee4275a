// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// sseBody renders JSON payloads as an SSE stream body.
func sseBody(payloads ...string) string {
	var b strings.Builder
	for _, p := range payloads {
		b.WriteString("data: ")
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	return b.String()
}

func textPayload(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`, text)
}

func finishPayload(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]},"finishReason":"STOP"}]}`, text)
}

func newTestClient(serverURL string) *Client {
	return NewClient(&ClientConfig{
		BaseURL:     serverURL,
		APIKey:      "test-key",
		Model:       "gemini-2.5-flash",
		Temperature: 0.3,
	})
}

func TestCheckModelSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v1beta/models/gemini-2.5-flash") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}
		fmt.Fprint(w, `{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash"}`)
	}))
	defer server.Close()

	info, err := newTestClient(server.URL).CheckModel(context.Background())
	if err != nil {
		t.Fatalf("CheckModel: %v", err)
	}
	if info.DisplayName != "Gemini 2.5 Flash" {
		t.Errorf("DisplayName = %q", info.DisplayName)
	}
}

func TestCheckModelRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CheckModel(context.Background())
	if !IsSessionInit(err) {
		t.Fatalf("err = %v, want session-init failure", err)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestCheckModelMissingKey(t *testing.T) {
	client := NewClient(&ClientConfig{BaseURL: "http://127.0.0.1:1", APIKey: ""})
	_, err := client.CheckModel(context.Background())
	if !IsConfigMissing(err) {
		t.Errorf("err = %v, want config-missing", err)
	}
}

func TestStreamGenerateChunkOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":streamGenerateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("alt") != "sse" {
			t.Errorf("expected alt=sse, got %q", r.URL.Query().Get("alt"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody(
			textPayload("The "),
			textPayload("answer "),
			finishPayload("is 42."),
		))
	}))
	defer server.Close()

	var got []string
	var doneSeen bool
	err := newTestClient(server.URL).StreamGenerate(context.Background(),
		&GenerateContentRequest{Contents: []Content{newTextContent("user", "q")}},
		func(chunk StreamChunk) {
			if chunk.Text != "" {
				got = append(got, chunk.Text)
			}
			if chunk.Done {
				doneSeen = true
			}
		})
	if err != nil {
		t.Fatalf("StreamGenerate: %v", err)
	}

	want := []string{"The ", "answer ", "is 42."}
	if len(got) != len(want) {
		t.Fatalf("chunks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !doneSeen {
		t.Error("final chunk should carry Done")
	}
}

func TestStreamGenerateMidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody(
			textPayload("partial "),
			textPayload("content"),
			`{"error":{"code":500,"message":"internal error","status":"INTERNAL"}}`,
		))
	}))
	defer server.Close()

	var got []string
	err := newTestClient(server.URL).StreamGenerate(context.Background(),
		&GenerateContentRequest{Contents: []Content{newTextContent("user", "q")}},
		func(chunk StreamChunk) {
			if chunk.Text != "" {
				got = append(got, chunk.Text)
			}
		})

	// All received fragments must be delivered before the error surfaces.
	if len(got) != 2 || got[0] != "partial " || got[1] != "content" {
		t.Errorf("partial chunks = %v, want both fragments", got)
	}
	if !IsStream(err) {
		t.Errorf("err = %v, want stream failure", err)
	}
}

func TestStreamGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	err := newTestClient(server.URL).StreamGenerate(context.Background(),
		&GenerateContentRequest{Contents: []Content{newTextContent("user", "q")}},
		func(chunk StreamChunk) {})

	if !IsStream(err) {
		t.Fatalf("err = %v, want stream failure", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestStreamGenerateEOFWithoutFinish(t *testing.T) {
	// A server that closes without a finishReason still yields a Done chunk
	// so callers can always finalize.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody(textPayload("tail")))
	}))
	defer server.Close()

	var doneSeen bool
	err := newTestClient(server.URL).StreamGenerate(context.Background(),
		&GenerateContentRequest{Contents: []Content{newTextContent("user", "q")}},
		func(chunk StreamChunk) {
			if chunk.Done {
				doneSeen = true
			}
		})
	if err != nil {
		t.Fatalf("StreamGenerate: %v", err)
	}
	if !doneSeen {
		t.Error("stream ending at EOF should synthesize a Done chunk")
	}
}
