package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupFileWritesJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "userdash.log")
	closeFn, err := Setup(Options{File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	slog.Info("fetch users", "page", 2)
	slog.Debug("hidden at info level")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "fetch users" {
		t.Errorf("msg: got %v", rec["msg"])
	}
	if rec["page"] != float64(2) {
		t.Errorf("page: got %v", rec["page"])
	}
}

func TestSetupWriterDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	if _, err := Setup(Options{Writer: &buf, Debug: true}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Debug("api request", "op", "list users")

	out := buf.String()
	if !strings.Contains(out, "api request") || !strings.Contains(out, "op=\"list users\"") {
		t.Errorf("unexpected output: %q", out)
	}
}
