package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/mathdrill/internal/config"
)

func TestNew_WritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathdrill.log")
	log, err := New(&config.Config{Env: "production", LogLevel: "info", LogFile: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"visible"`) {
		t.Errorf("log file missing info entry: %s", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug entry written at info level: %s", data)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(&config.Config{LogLevel: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewInteractive_NopWithoutFile(t *testing.T) {
	log, err := NewInteractive(&config.Config{LogLevel: "debug"})
	if err != nil {
		t.Fatalf("NewInteractive: %v", err)
	}
	if log.Core().Enabled(0) {
		t.Error("expected a no-op logger")
	}
}
