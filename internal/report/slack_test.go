package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/amishk599/codedesc/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSlackReporter_EmptyEntries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewSlackReporter(srv.URL, srv.Client(), discardLogger())
	if err := r.Report(nil); err != nil {
		t.Errorf("Report(nil) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackReporter_SingleMessage(t *testing.T) {
	var calls atomic.Int32
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewSlackReporter(srv.URL, srv.Client(), discardLogger())
	err := r.Report([]model.Entry{
		{Path: "main.go", Description: "Entry point. [References: util.go]", Provider: "openai", Size: 2048},
		{Path: "blank.go", Description: "(empty)"},
	})
	if err != nil {
		t.Fatalf("Report() = %v, want nil", err)
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got := payload.Blocks[0].Text.Text; !strings.Contains(got, "2 files described") {
		t.Errorf("header text = %q", got)
	}
	first := payload.Blocks[1].Text.Text
	if !strings.Contains(first, "`main.go`") || !strings.Contains(first, "2.0 kB · openai") {
		t.Errorf("first section = %q", first)
	}
	if second := payload.Blocks[2].Text.Text; !strings.Contains(second, "_(empty)_") {
		t.Errorf("placeholder not italicized: %q", second)
	}
	if last := payload.Blocks[len(payload.Blocks)-1]; last.Type != "divider" {
		t.Errorf("last block type = %q, want divider", last.Type)
	}
}

func TestSlackReporter_SlackReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewSlackReporter(srv.URL, srv.Client(), discardLogger())
	if err := r.Report([]model.Entry{{Path: "a.go", Description: "x"}}); err == nil {
		t.Error("expected error on 500, got nil")
	}
}

func TestBuildPayload_TruncatesLongRuns(t *testing.T) {
	entries := make([]model.Entry, maxSlackEntries+5)
	for i := range entries {
		entries[i] = model.Entry{Path: fmt.Sprintf("f%d.go", i), Description: "d"}
	}

	payload := buildPayload(entries)
	if n := len(payload.Blocks); n > 50 {
		t.Fatalf("payload has %d blocks, Slack allows 50", n)
	}
	overflow := payload.Blocks[len(payload.Blocks)-2]
	if overflow.Type != "context" || overflow.Elements[0].Text != "…and 5 more" {
		t.Errorf("overflow block = %+v", overflow)
	}
}

func TestBuildPayload_CapsSectionText(t *testing.T) {
	long := strings.Repeat("é", 5000)
	payload := buildPayload([]model.Entry{{Path: "big.go", Description: long}})

	text := payload.Blocks[1].Text.Text
	if n := utf8.RuneCountInString(text); n != maxSectionChars {
		t.Errorf("section text has %d characters, want %d", n, maxSectionChars)
	}
	if !strings.HasSuffix(text, "…") {
		t.Error("truncated text should end with an ellipsis")
	}
	if !utf8.ValidString(text) {
		t.Error("truncation split a multi-byte character")
	}
}

func TestTruncateChars_ShortUnchanged(t *testing.T) {
	if got := truncateChars("short", 10); got != "short" {
		t.Errorf("truncateChars = %q", got)
	}
}
