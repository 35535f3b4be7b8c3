package export

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/iksnae/chat-widget/internal"
)

// SQLiteExporter writes the conversation as a standalone SQLite database.
// The database is built in a scratch file and then streamed to w.
type SQLiteExporter struct{}

// Export exports a conversation to a SQLite archive
func (e *SQLiteExporter) Export(conv *internal.Conversation, w io.Writer) error {
	dir, err := os.MkdirTemp("", "chat-widget-export-*")
	if err != nil {
		return errors.Wrap(err, "create scratch dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "transcript.db")
	db, err := internal.OpenArchive(path)
	if err != nil {
		return err
	}
	if err := internal.WriteConversation(context.Background(), db, conv); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return errors.Wrap(err, "close archive")
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "reopen archive")
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return errors.Wrap(err, "copy archive")
}

// Extension returns the file extension for this format
func (e *SQLiteExporter) Extension() string {
	return "db"
}
