// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"
)

func TestStreamingBufferBatchFlush(t *testing.T) {
	sb := NewStreamingBuffer()

	for i := 0; i < 14; i++ {
		sb.Write("x")
	}
	if _, ok := sb.Flush(); ok {
		t.Error("under-batch buffer should not flush before the frame interval")
	}

	sb.Write("x")
	content, ok := sb.Flush()
	if !ok {
		t.Fatal("full batch should flush")
	}
	if len(content) != 15 {
		t.Errorf("flushed %d chars, want 15", len(content))
	}
	if sb.Pending() != 0 {
		t.Errorf("pending = %d after flush, want 0", sb.Pending())
	}
}

func TestStreamingBufferTimeFlush(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("slow token")

	time.Sleep(40 * time.Millisecond)

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("buffer should flush after the frame interval")
	}
	if content != "slow token" {
		t.Errorf("content = %q", content)
	}
}

func TestStreamingBufferForceFlush(t *testing.T) {
	sb := NewStreamingBuffer()

	if _, ok := sb.ForceFlush(); ok {
		t.Error("empty buffer should not force-flush")
	}

	sb.Write("tail")
	content, ok := sb.ForceFlush()
	if !ok || content != "tail" {
		t.Errorf("ForceFlush = %q, %v", content, ok)
	}
}

func TestStreamingBufferReset(t *testing.T) {
	sb := NewStreamingBuffer()
	sb.Write("discarded")
	sb.Reset()

	if _, ok := sb.ForceFlush(); ok {
		t.Error("reset buffer should be empty")
	}
}

func TestStreamingBufferConcurrentWrites(t *testing.T) {
	sb := NewStreamingBuffer()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 100; i++ {
			sb.Write("a")
		}
		close(done)
	}()
	for i := 0; i < 100; i++ {
		sb.Flush()
	}
	<-done

	total := 0
	if content, ok := sb.ForceFlush(); ok {
		total = len(content)
	}
	// Everything written is eventually flushed exactly once; the remainder
	// plus prior flushes cannot exceed the write count.
	if total > 100 {
		t.Errorf("leftover %d exceeds writes", total)
	}
}
