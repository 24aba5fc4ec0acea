package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func jsonLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	return New(Config{Level: level, Format: "json", Output: buf, Component: ComponentApp})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_StampsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, slog.LevelInfo).WithComponent(ComponentStorage)
	logger.Info("hello", FieldCount, 3)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0][FieldComponent] != ComponentStorage {
		t.Errorf("component = %v, want %s", lines[0][FieldComponent], ComponentStorage)
	}
	if strings.Count(buf.String(), `"component"`) != 1 {
		t.Errorf("component emitted more than once: %s", buf.String())
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, slog.LevelWarn)
	logger.Info("dropped")
	logger.Debug("dropped")
	logger.Warn("kept")
	if lines := decodeLines(t, &buf); len(lines) != 1 || lines[0]["msg"] != "kept" {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: slog.LevelInfo, Format: "text", Output: &buf}).Info("plain")
	if !strings.Contains(buf.String(), "msg=plain") || !strings.Contains(buf.String(), "component=app") {
		t.Errorf("unexpected text output: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonLogger(&buf, slog.LevelInfo)
	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()).Component(); got != "unknown" {
		t.Errorf("fallback component = %q, want unknown", got)
	}
}

func TestStructuredLogger_HTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(jsonLogger(&buf, slog.LevelInfo))
		req := httptest.NewRequest("GET", "/api/metrics?x=1", nil)
		sl.LogHTTPEnd(context.Background(), req, tt.status, 12, "127.0.0.1")

		lines := decodeLines(t, &buf)
		if len(lines) != 1 {
			t.Fatalf("status %d: expected 1 line", tt.status)
		}
		if lines[0]["level"] != tt.level {
			t.Errorf("status %d: level = %v, want %s", tt.status, lines[0]["level"], tt.level)
		}
		if lines[0][FieldPath] != "/api/metrics" || lines[0][FieldQuery] != "x=1" {
			t.Errorf("status %d: unexpected request fields %v", tt.status, lines[0])
		}
	}
}

func TestStructuredLogger_SubscriptionEvents(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(jsonLogger(&buf, slog.LevelInfo))
	sl.LogSubscriptionCreated(context.Background(), 5, "Netflix", 64900, "monthly", "Streaming", "2024-03-05")
	sl.LogSubscriptionDeleted(context.Background(), 5)
	sl.LogError(context.Background(), "boom", errors.New("disk"), ComponentStorage, OpList, nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	created := lines[0]
	if created[FieldSubscriptionID] != float64(5) || created[FieldRenewalDate] != "2024-03-05" || created[FieldOperation] != OpCreate {
		t.Errorf("created line = %v", created)
	}
	if lines[1][FieldOperation] != OpDelete {
		t.Errorf("deleted line = %v", lines[1])
	}
	if lines[2][FieldError] != "disk" || lines[2][FieldComponent] != ComponentStorage {
		t.Errorf("error line = %v", lines[2])
	}
}
