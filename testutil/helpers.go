package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteLaunchFile writes a TOML launch file into a temp dir and returns its path
func WriteLaunchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widget.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write launch file: %v", err)
	}
	return path
}

// ReadFile reads a file produced by a test
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}

// JSONUnmarshal unmarshals JSON for testing
func JSONUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
}
