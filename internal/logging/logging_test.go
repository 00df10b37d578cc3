package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		format        string
		expectedError bool
	}{
		{"Text info", "info", "text", false},
		{"JSON debug", "debug", "json", false},
		{"Uppercase level", "WARN", "TEXT", false},
		{"Empty format defaults to text", "error", "", false},
		{"Bad level", "loud", "text", true},
		{"Bad format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format, &bytes.Buffer{})
			if tt.expectedError {
				if err == nil {
					t.Error("Expected error, got none")
				}
				if logger != nil {
					t.Error("Expected nil logger on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if logger == nil {
				t.Fatal("Expected non-nil logger")
			}
		})
	}
}

func TestNew_JSONRecordsAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "json", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept", "todo_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if record["msg"] != "kept" || record["todo_id"] != float64(7) {
		t.Errorf("unexpected record: %v", record)
	}
}
