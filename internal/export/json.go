package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/chat-widget/internal"
)

// JSONExporter exports the whole conversation as one pretty-printed document
type JSONExporter struct{}

// Export exports a conversation to JSON format
func (e *JSONExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(conv)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
