package logging

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"
)

// resetLevel forces the next GetLevel call to re-read the environment.
func resetLevel(t *testing.T) {
	t.Helper()
	levelOnce = sync.Once{}
	t.Cleanup(func() { levelOnce = sync.Once{} })
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		want     LogLevel
	}{
		{"debug via LOG_LEVEL", "LOG_LEVEL", "debug", LevelDebug},
		{"info via LOG_LEVEL", "LOG_LEVEL", "info", LevelInfo},
		{"warn via LOG_LEVEL", "LOG_LEVEL", "warn", LevelWarn},
		{"warning alias", "LOG_LEVEL", "warning", LevelWarn},
		{"error via LOG_LEVEL", "LOG_LEVEL", "error", LevelError},
		{"case insensitive", "LOG_LEVEL", "ERROR", LevelError},
		{"unrecognized falls back to info", "LOG_LEVEL", "loud", LevelInfo},
		{"unset falls back to info", "LOG_LEVEL", "", LevelInfo},
		{"DEBUG=true", "DEBUG", "true", LevelDebug},
		{"DEBUG=1", "DEBUG", "1", LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLevel(t)
			t.Setenv(tt.envVar, tt.envValue)

			if got := GetLevel(); got != tt.want {
				t.Errorf("GetLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDebugWinsOverLogLevel(t *testing.T) {
	resetLevel(t)
	t.Setenv("DEBUG", "yes")
	t.Setenv("LOG_LEVEL", "error")

	if got := GetLevel(); got != LevelDebug {
		t.Errorf("GetLevel() = %v, want LevelDebug", got)
	}
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false with DEBUG set")
	}
}

func TestLevelFiltering(t *testing.T) {
	resetLevel(t)
	t.Setenv("LOG_LEVEL", "warn")

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	Debug("quiet")
	Info("quiet")
	Warn("first")
	Error("second")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("messages below warn were emitted: %q", out)
	}
	if !strings.Contains(out, "[WARN] first") || !strings.Contains(out, "[ERROR] second") {
		t.Errorf("warn/error messages missing from output: %q", out)
	}
}

func TestLogLevelOrdering(t *testing.T) {
	levels := []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for i := 0; i < len(levels)-1; i++ {
		if levels[i] >= levels[i+1] {
			t.Errorf("levels out of order: %v >= %v", levels[i], levels[i+1])
		}
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
