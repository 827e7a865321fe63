package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil || logger.Logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded", "  warn ", slog.LevelWarn},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LevelEnvVar, tt.envValue)
			if level := LevelFromEnv(); level != tt.expected {
				t.Errorf("LevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestRunID(t *testing.T) {
	t.Run("generate", func(t *testing.T) {
		id1, id2 := NewRunID(), NewRunID()
		if len(id1) != 16 || len(id2) != 16 {
			t.Errorf("NewRunID() lengths %d, %d; want 16", len(id1), len(id2))
		}
		if id1 == id2 {
			t.Error("NewRunID() returned duplicate IDs")
		}
	})

	t.Run("explicit", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "lab-run-7")
		if got := GetRunID(ctx); got != "lab-run-7" {
			t.Errorf("GetRunID() = %q, want lab-run-7", got)
		}
	})

	t.Run("absent", func(t *testing.T) {
		if got := GetRunID(context.Background()); got != "" {
			t.Errorf("GetRunID() = %q, want empty", got)
		}
	})

	t.Run("auto-generated", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "")
		if got := GetRunID(ctx); len(got) != 16 {
			t.Errorf("auto-generated run ID %q has wrong length", got)
		}
	})
}

func TestNormalizeAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"password field", slog.String("password", "hunter2"), "[REDACTED]"},
		{"token field", slog.String("auth_token", "abc"), "[REDACTED]"},
		{"case insensitive", slog.String("API_SECRET", "abc"), "[REDACTED]"},
		{"normal field", slog.String("drag_mode", "realistic"), "realistic"},
		{"nan float", slog.Float64("range", math.NaN()), "NaN"},
		{"inf float", slog.Float64("range", math.Inf(1)), "+Inf"},
		{"finite float", slog.Float64("range", 10.5), "10.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizeAttributes(nil, tt.attr)
			if result.Value.String() != tt.expected {
				t.Errorf("normalizeAttributes() = %q, want %q", result.Value.String(), tt.expected)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)
	ctx := WithRunID(context.Background(), "run-123")

	t.Run("info", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "cannonball fired", "speed", 10.0)
		entry := decodeLine(t, &buf)
		if entry["msg"] != "cannonball fired" || entry["level"] != "INFO" {
			t.Errorf("unexpected entry %v", entry)
		}
		if entry["run_id"] != "run-123" {
			t.Errorf("run_id = %v, want run-123", entry["run_id"])
		}
		if entry["speed"] != 10.0 {
			t.Errorf("speed = %v, want 10", entry["speed"])
		}
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "prediction failed", errors.New("no real solution"))
		entry := decodeLine(t, &buf)
		if entry["level"] != "ERROR" || entry["error"] != "no real solution" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("debug", func(t *testing.T) {
		buf.Reset()
		logger.Debug(ctx, "tick")
		if entry := decodeLine(t, &buf); entry["level"] != "DEBUG" {
			t.Errorf("level = %v, want DEBUG", entry["level"])
		}
	})

	t.Run("warn", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "large time step")
		if entry := decodeLine(t, &buf); entry["level"] != "WARN" {
			t.Errorf("level = %v, want WARN", entry["level"])
		}
	})

	t.Run("with", func(t *testing.T) {
		buf.Reset()
		logger.With("component", "engine").Info(context.Background(), "started")
		entry := decodeLine(t, &buf)
		if entry["component"] != "engine" {
			t.Errorf("component = %v, want engine", entry["component"])
		}
		if _, ok := entry["run_id"]; ok {
			t.Error("run_id present without one on the context")
		}
	})

	t.Run("nan value stays valid json", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "landed", "range", math.NaN())
		if entry := decodeLine(t, &buf); entry["range"] != "NaN" {
			t.Errorf("range = %v, want NaN string", entry["range"])
		}
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelWarn)
	logger.Info(context.Background(), "hidden")
	logger.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below WARN, got %q", buf.String())
	}
	logger.Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("WARN message missing: %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Error(context.Background(), "nothing", errors.New("x"))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should not be enabled at ERROR")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	original := errors.New("original error")
	wrapped := WrapError(original, "loading %s", "config.json")
	if wrapped.Error() != "loading config.json: original error" {
		t.Errorf("WrapError() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("WrapError() should preserve original error")
	}
}
