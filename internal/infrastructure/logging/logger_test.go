package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/nerrad567/sensehub/internal/infrastructure/config"
)

// bufferLogger builds a Logger over an in-memory JSON handler so tests
// can inspect emitted records. New always writes to stdout/stderr, so
// output assertions go through this instead.
func bufferLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}).
		WithAttrs([]slog.Attr{
			slog.String("service", "sensehub"),
			slog.String("version", "test"),
		})
	return &Logger{Logger: slog.New(handler)}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		logger := New(config.LoggingConfig{
			Level:  "info",
			Format: format,
			Output: "stderr",
		}, "1.0.0")
		if logger == nil {
			t.Fatalf("New(%s) = nil", format)
		}
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() = nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestComponentLogger mirrors how the daemon hands each subsystem a
// child logger: With adds the component field without touching the
// parent.
func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf, slog.LevelInfo)

	mqttLog := logger.With("component", "mqtt")
	if mqttLog == logger {
		t.Fatal("With() returned the parent logger")
	}
	mqttLog.Info("connected", "broker", "tcp://broker.local:1883")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parsing log output: %v", err)
	}
	if entry["component"] != "mqtt" {
		t.Errorf("component = %v, want mqtt", entry["component"])
	}
	if entry["service"] != "sensehub" {
		t.Errorf("service = %v, want sensehub", entry["service"])
	}
	if entry["broker"] != "tcp://broker.local:1883" {
		t.Errorf("broker = %v, want tcp://broker.local:1883", entry["broker"])
	}

	buf.Reset()
	logger.Info("tick")
	if strings.Contains(buf.String(), "component") {
		t.Error("parent logger gained the child's component field")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf, slog.LevelWarn)

	logger.Info("publish cycle complete")
	if buf.Len() != 0 {
		t.Errorf("info record emitted at warn level: %q", buf.String())
	}

	logger.Warn("connect attempt failed")
	if !strings.Contains(buf.String(), "connect attempt failed") {
		t.Error("warn record missing at warn level")
	}
}
