package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"":        LevelInfo,
		"DEBUG":   LevelDebug,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: got=%v want=%v", input, got, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "ingest")

	logger.Warn("row rejected", "reason", "invalid_date", "error", errors.New("bad"), "dangling")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "ingest" || fields["reason"] != "invalid_date" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["error"] != "bad" {
		t.Fatalf("expected error field, got %+v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_JSONOutputRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, LevelInfo)

	logger.DebugContext(context.Background(), "hidden")
	logger.Info("ingest finished", "accepted", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}

	var payload map[string]any
	if err := sonic.UnmarshalString(lines[0], &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["msg"] != "ingest finished" || payload["level"] != "INFO" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLogger_NilSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("nothing happens")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
}
