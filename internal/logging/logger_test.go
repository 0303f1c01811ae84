package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)

	logger := slog.New(newConsoleHandler(&buf, levelVar, false))
	logger = NewComponentLogger(logger, "capture")
	logger.Info("session started", String("session_id", "abc"), Int("annotations", 2))

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Fatalf("expected level label in output: %q", line)
	}
	if !strings.Contains(line, "capture: session started") {
		t.Fatalf("expected component prefix in output: %q", line)
	}
	if !strings.Contains(line, "session_id=abc") || !strings.Contains(line, "annotations=2") {
		t.Fatalf("expected attrs in output: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be promoted into the prefix, not repeated: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))
	logger.Warn("save failed", String("reason", "server said no"))

	if !strings.Contains(buf.String(), `reason="server said no"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)

	handler := newConsoleHandler(&buf, levelVar, false)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be disabled at warn level")
	}
	slog.New(handler).Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected suppressed output, got %q", buf.String())
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false)).WithGroup("bundle")
	logger.Info("saved", String("title", "T"))

	if !strings.Contains(buf.String(), "bundle.title=T") {
		t.Fatalf("expected group-prefixed key: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"  WARN ": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v; want %v", input, got, want)
		}
	}
}

func TestFormatValueDuration(t *testing.T) {
	if got := formatValue(slog.DurationValue(1500 * time.Millisecond)); got != "1.5s" {
		t.Fatalf("formatValue duration = %q", got)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
