package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/chat-widget/internal"
)

// JSONLExporter exports one message per line
type JSONLExporter struct{}

type jsonlLine struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Export exports a conversation to JSONL format
func (e *JSONLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range conv.Messages {
		line := jsonlLine{
			ID:        msg.ID,
			Sender:    msg.Sender.String(),
			Text:      msg.Text,
			SessionID: conv.SessionID,
		}
		if !msg.CreatedAt.IsZero() {
			line.CreatedAt = msg.CreatedAt.Format(time.RFC3339)
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
