package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestExchangeError(t *testing.T) {
	originalErr := errors.New("unexpected status")
	err := &ExchangeError{
		Endpoint:   "http://127.0.0.1:8000/api/chat/demo-business",
		StatusCode: 500,
		Kind:       ExchangeKindStatus,
		Err:        originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "exchange error") {
		t.Errorf("ExchangeError.Error() should contain 'exchange error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "HTTP 500") {
		t.Errorf("ExchangeError.Error() should contain status, got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "demo-business") {
		t.Errorf("ExchangeError.Error() should contain endpoint, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExchangeError.Unwrap() should return original error")
	}
}

func TestExchangeError_NoStatus(t *testing.T) {
	err := &ExchangeError{
		Endpoint: "http://localhost/chat/x",
		Kind:     ExchangeKindTransport,
		Err:      errors.New("connection refused"),
	}

	if strings.Contains(err.Error(), "HTTP") {
		t.Errorf("transport errors should not report a status, got: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "transport") {
		t.Errorf("ExchangeError.Error() should contain kind, got: %q", err.Error())
	}
}

func TestLaunchError(t *testing.T) {
	originalErr := errors.New("no such file")
	err := &LaunchError{
		Source: "file",
		Value:  "/tmp/widget.toml",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "launch error") {
		t.Errorf("LaunchError.Error() should contain 'launch error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/tmp/widget.toml") {
		t.Errorf("LaunchError.Error() should contain value, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("LaunchError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/file.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if errorMsg == "" {
		t.Error("ExportError.Error() returned empty string")
	}
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
