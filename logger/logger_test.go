package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: "json"}, "test-svc", &buf)
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q (%v)", line, err)
	}
	return entry
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")
	l.WithComponent("apiclient").Info("request sent", Fields("method", "GET", "status", 200))

	entry := decodeLine(t, buf)
	if entry["message"] != "request sent" {
		t.Errorf("got message %v", entry["message"])
	}
	if entry[FieldComponent] != "apiclient" {
		t.Errorf("got component %v, want apiclient", entry[FieldComponent])
	}
	if entry["service"] != "test-svc" {
		t.Errorf("got service %v, want test-svc", entry["service"])
	}
	if entry["method"] != "GET" || entry["status"] != float64(200) {
		t.Errorf("fields not written: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn message missing: %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newJSONLogger(t, "nope")
	l.Debug("hidden")
	l.Info("visible")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "visible") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithError(errors.New("boom")).Error("failed")

	entry := decodeLine(t, buf)
	if entry["error"] != "boom" {
		t.Errorf("got error field %v, want boom", entry["error"])
	}
}

func TestWithContext_RequestID(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected same logger when context has no request id")
	}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("hello")
	entry := decodeLine(t, buf)
	if entry[FieldRequestID] != "req-1" {
		t.Errorf("got request_id %v, want req-1", entry[FieldRequestID])
	}

	if id, ok := RequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Errorf("RequestIDFromContext() = %q, %v", id, ok)
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "svc", &buf)
	l.Info("console line", Fields("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "[INF]") || !strings.Contains(out, "console line") || !strings.Contains(out, "k:") {
		t.Errorf("unexpected console output %q", out)
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	if l := NewFromEnv("env-svc"); l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}

func TestGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	l, buf := newJSONLogger(t, "info")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Fatal("SetGlobalLogger did not take effect")
	}
	Info("global info")
	Warn("global warn")
	Error("global error")
	Debug("global debug")
	out := buf.String()
	for _, want := range []string{"global info", "global warn", "global error"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "global debug") {
		t.Error("debug should be filtered at info level")
	}
}

func TestInit(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	Init(Config{Level: "debug", Format: "json"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger after Init")
	}
}

func TestRegisterAndGet(t *testing.T) {
	l, _ := newJSONLogger(t, "info")
	Register("custom", l)
	if Get("custom") != l {
		t.Error("Get should return the registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("Get should fall back to the global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" || !cfg.Timestamp {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "debug", Format: "json", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	got := Fields("a", 1, 2, "ignored", "b")
	if len(got) != 1 || got["a"] != 1 {
		t.Errorf("unexpected fields %v", got)
	}

	ef := ErrorFields("send", errors.New("x"))
	if ef[FieldOperation] != "send" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields %v", ef)
	}

	df := DurationFields("send", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("got duration %v, want 1500", df[FieldDuration])
	}
}
