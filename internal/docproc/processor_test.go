// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// buildPDF assembles a minimal well-formed PDF with one Helvetica text
// stream per page. Object offsets are recorded while writing so the xref
// table is always consistent.
func buildPDF(t *testing.T, pages []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	addObj("<< /Type /Catalog /Pages 2 0 R >>")
	addObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))
	addObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		addObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		addObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)

	return buf.Bytes()
}

func TestProcessRejectsWrongExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("plain text"))

	p := NewProcessor(DefaultOptions())
	_, err := p.Process(path)

	if !IsNotAPDF(err) {
		t.Errorf("err = %v, want NotAPDF", err)
	}
}

func TestProcessExtensionCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	// Uppercase extension passes the gate; garbage bytes then fail parsing.
	path := writeFile(t, dir, "REPORT.PDF", []byte("not a real pdf"))

	p := NewProcessor(DefaultOptions())
	_, err := p.Process(path)

	if IsNotAPDF(err) {
		t.Error(".PDF must pass the media-type gate")
	}
	if !IsCorruptFile(err) {
		t.Errorf("err = %v, want CorruptFile", err)
	}
}

func TestProcessRejectsMissingFile(t *testing.T) {
	p := NewProcessor(DefaultOptions())
	_, err := p.Process(filepath.Join(t.TempDir(), "ghost.pdf"))

	if !IsMissingFile(err) {
		t.Errorf("err = %v, want MissingFile", err)
	}
}

func TestProcessRejectsCorruptBytes(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content []byte
	}{
		{"garbage", []byte("this is definitely not a pdf")},
		{"empty", nil},
		{"truncated header", []byte("%PDF-1.7\n")},
	}

	p := NewProcessor(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".pdf", tt.content)
			_, err := p.Process(path)
			if !IsCorruptFile(err) {
				t.Errorf("err = %v, want CorruptFile", err)
			}
		})
	}
}

func TestProcessMultiPageDocument(t *testing.T) {
	dir := t.TempDir()
	data := buildPDF(t, []string{
		"Quarterly revenue grew twelve percent year over year.",
		"Operating expenses held flat across all departments.",
		"The outlook section projects continued growth in Q3.",
	})
	path := writeFile(t, dir, "quarterly.pdf", data)

	p := NewProcessor(DefaultOptions())
	doc, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if doc.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", doc.PageCount)
	}
	for i := 1; i <= 3; i++ {
		marker := fmt.Sprintf("--- Page %d ---", i)
		if !strings.Contains(doc.Content, marker) {
			t.Errorf("content missing marker %q", marker)
		}
	}
	if !strings.Contains(doc.Content, "Quarterly") {
		t.Error("content should carry the extracted page text")
	}
	if doc.Name != "quarterly.pdf" {
		t.Errorf("Name = %q", doc.Name)
	}
	if doc.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", doc.Size, len(data))
	}
}

func TestProcessRejectsLowTextDocument(t *testing.T) {
	dir := t.TempDir()
	// Parses fine but carries almost no text, like a scanned document.
	path := writeFile(t, dir, "scan.pdf", buildPDF(t, []string{"Hi"}))

	p := NewProcessor(DefaultOptions())
	_, err := p.Process(path)

	if !IsInsufficientText(err) {
		t.Errorf("err = %v, want InsufficientText", err)
	}
}

func TestProcessErrorCarriesFileName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quarterly.pdf", []byte("junk"))

	p := NewProcessor(DefaultOptions())
	_, err := p.Process(path)

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("err = %T, want *ProcessError", err)
	}
	if procErr.Path != "quarterly.pdf" {
		t.Errorf("Path = %q, want base name", procErr.Path)
	}
	if !strings.Contains(procErr.Error(), "quarterly.pdf") {
		t.Errorf("message %q should name the file", procErr.Error())
	}
}

func TestProcessBatchPartialSuccess(t *testing.T) {
	dir := t.TempDir()
	bad1 := writeFile(t, dir, "bad1.pdf", []byte("junk"))
	bad2 := writeFile(t, dir, "bad2.txt", []byte("junk"))

	p := NewProcessor(DefaultOptions())
	docs, err := p.ProcessBatch(context.Background(), []string{bad1, bad2}, 4)

	if len(docs) != 0 {
		t.Errorf("docs = %d, want 0", len(docs))
	}
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("err = %T, want *BatchError", err)
	}
	if len(batchErr.Failures) != 2 {
		t.Errorf("failures = %d, want 2", len(batchErr.Failures))
	}
}

func TestProcessBatchEmptyInput(t *testing.T) {
	p := NewProcessor(DefaultOptions())
	docs, err := p.ProcessBatch(context.Background(), nil, 4)

	if err != nil {
		t.Errorf("err = %v, want nil", err)
	}
	if len(docs) != 0 {
		t.Errorf("docs = %d, want 0", len(docs))
	}
}

func TestBatchErrorMessage(t *testing.T) {
	single := &BatchError{Failures: []*ProcessError{
		newError(ErrTypeCorruptFile, "a.pdf", "a.pdf appears to be corrupted", nil),
	}}
	if !strings.Contains(single.Error(), "a.pdf") {
		t.Errorf("single failure message should name the file: %q", single.Error())
	}

	multi := &BatchError{Failures: []*ProcessError{
		newError(ErrTypeCorruptFile, "a.pdf", "bad", nil),
		newError(ErrTypeNotAPDF, "b.txt", "not a pdf", nil),
	}}
	msg := multi.Error()
	if !strings.Contains(msg, "2 files failed") {
		t.Errorf("multi failure message should count failures: %q", msg)
	}
	if !strings.Contains(msg, "a.pdf") || !strings.Contains(msg, "b.txt") {
		t.Errorf("multi failure message should name each file: %q", msg)
	}
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not a pdf", newError(ErrTypeNotAPDF, "f", "m", nil), IsNotAPDF},
		{"missing", newError(ErrTypeMissingFile, "f", "m", nil), IsMissingFile},
		{"corrupt", newError(ErrTypeCorruptFile, "f", "m", nil), IsCorruptFile},
		{"insufficient", newError(ErrTypeInsufficientText, "f", "m", nil), IsInsufficientText},
		{"resource", newError(ErrTypeResourceLoad, "f", "m", nil), IsResourceLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Error("helper should match its own type")
			}
			if tt.check(errors.New("plain")) {
				t.Error("helper should not match plain errors")
			}
		})
	}
}
