package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInitCreatesLogFile(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	if err := Init(Config{LogDir: logDir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("disk nearly full", "free", "1%")

	data, err := os.ReadFile(filepath.Join(logDir, "daydash.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "disk nearly full") {
		t.Errorf("log file = %q, want warning line", data)
	}
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want log.Level
	}{
		{name: "default", cfg: Config{}, want: log.WarnLevel},
		{name: "console", cfg: Config{Console: true}, want: log.InfoLevel},
		{name: "debug", cfg: Config{Debug: true}, want: log.DebugLevel},
		{name: "debug wins over console", cfg: Config{Debug: true, Console: true}, want: log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.LogDir = t.TempDir()
			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init() failed: %v", err)
			}
			if got := Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.InfoLevel)

	Debug("hidden")
	Info("request served", "status", 200)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "request served") || !strings.Contains(out, "status=200") {
		t.Errorf("output = %q, want info line with status", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// Must not panic.
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
