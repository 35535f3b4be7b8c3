package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/chat-widget/internal"
	"github.com/iksnae/chat-widget/internal/export"
)

// formatFromPath picks an export format from the transcript file extension
func formatFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "md", "markdown":
		return "md"
	case "yaml", "yml":
		return "yaml"
	case "json":
		return "json"
	case "db", "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "jsonl"
	}
}

// writeTranscript exports conv to path. It does nothing when path is empty.
func writeTranscript(ctx context.Context, conv *internal.Conversation, path, format string) error {
	if path == "" {
		return nil
	}
	if format == "" {
		format = formatFromPath(path)
	}

	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: path, Err: err}
		}
	}

	err = internal.ShowProgress(ctx, fmt.Sprintf("Saving transcript to %s", path), func() error {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := exporter.Export(conv, file); err != nil {
			_ = file.Close()
			return err
		}
		return file.Close()
	})
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}

	internal.LogInfo("Saved %d message(s) to %s", len(conv.Messages), path)
	return nil
}
