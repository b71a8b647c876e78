package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Defaults(t *testing.T) {
	log, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be enabled by default")
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be disabled by default")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{Level: "loud"}},
		{"bad format", Config{Format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "telosgraph.log")
	log, err := New(Config{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Debug("loading graph")
	log.Info("graph saved")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d:\n%s", len(lines), data)
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "graph saved" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if _, ok := rec["timestamp"]; !ok {
		t.Errorf("missing timestamp key: %v", rec)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	log, err := New(Config{Format: "Console", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Warn("relation corrected")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "WARN") || strings.HasPrefix(string(data), "{") {
		t.Errorf("unexpected console output: %s", data)
	}
}
