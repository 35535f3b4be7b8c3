package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS conversation (
	business_id  TEXT NOT NULL,
	api_base_url TEXT NOT NULL,
	session_id   TEXT,
	exported_at  TEXT
);
CREATE TABLE IF NOT EXISTS messages (
	seq        INTEGER PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	sender     TEXT NOT NULL CHECK (sender IN ('user', 'bot')),
	text       TEXT NOT NULL,
	created_at TEXT
);
`

// OpenArchive creates (or opens) a SQLite transcript archive at path
func OpenArchive(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// WriteConversation stores conv in a single transaction, replacing any
// conversation already in the archive
func WriteConversation(ctx context.Context, db *sql.DB, conv *Conversation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM conversation", "DELETE FROM messages"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO conversation (business_id, api_base_url, session_id, exported_at) VALUES (?, ?, ?, ?)",
		conv.BusinessID, conv.APIBaseURL, nullString(conv.SessionID), nullString(conv.ExportedAt))
	if err != nil {
		return fmt.Errorf("insert conversation failed: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO messages (seq, id, sender, text, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}
	defer stmt.Close()

	for i, msg := range conv.Messages {
		var created sql.NullString
		if !msg.CreatedAt.IsZero() {
			created = sql.NullString{String: msg.CreatedAt.Format(time.RFC3339Nano), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i+1, msg.ID, msg.Sender.String(), msg.Text, created); err != nil {
			return fmt.Errorf("insert message %s failed: %w", msg.ID, err)
		}
	}

	return tx.Commit()
}

// readMessages loads the archived messages in transcript order
func readMessages(ctx context.Context, db *sql.DB) ([]Message, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, sender, text, created_at FROM messages ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var (
			msg     Message
			sender  string
			created sql.NullString
		)
		if err := rows.Scan(&msg.ID, &sender, &msg.Text, &created); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if msg.Sender, err = ParseSender(sender); err != nil {
			return nil, err
		}
		if created.Valid {
			if t, err := time.Parse(time.RFC3339Nano, created.String); err == nil {
				msg.CreatedAt = t
			}
		}
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return msgs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
