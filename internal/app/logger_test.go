package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashquiz/internal/config"
	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)
	logger.Info("attempt started", slog.String("set_id", "abc"))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("JSON handler should produce valid JSON: %v", err)
	}
	if m["msg"] != "attempt started" || m["set_id"] != "abc" {
		t.Errorf("unexpected record: %v", m)
	}
	if m["app"] != Name || m["version"] != Version {
		t.Errorf("record missing app/version: %v", m)
	}
	if _, ok := m["source"]; ok {
		t.Error("json format should not add source")
	}
}

func TestNewLogger_TextFormatAddsSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf).Debug("hello")

	out := buf.String()
	if !strings.Contains(out, "msg=hello") {
		t.Errorf("text output missing message: %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("text output missing source: %q", out)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("dropped")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn record should pass at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_ContextValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)

	userID := uuid.New()
	ctx := ctxutil.WithUserID(ctxutil.WithRequestID(context.Background(), "req-7"), userID)
	logger.InfoContext(ctx, "answered")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["request_id"] != "req-7" || m["user_id"] != userID.String() {
		t.Errorf("context values missing: %v", m)
	}
}

func TestNewLogger_ExplicitAttrWins(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)

	ctx := ctxutil.WithRequestID(context.Background(), "from-ctx")
	logger.InfoContext(ctx, "request", slog.String("request_id", "explicit"))

	if n := strings.Count(buf.String(), `"request_id"`); n != 1 {
		t.Fatalf("request_id logged %d times: %s", n, buf.String())
	}
	if !strings.Contains(buf.String(), `"request_id":"explicit"`) {
		t.Errorf("explicit attr lost: %s", buf.String())
	}
}

func TestBuildVersion(t *testing.T) {
	t.Parallel()

	if got := BuildVersion(); !strings.HasPrefix(got, Name+" "+Version+" (commit: ") {
		t.Errorf("BuildVersion() = %q", got)
	}
	if got := shortRevision("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortRevision = %q", got)
	}
}
