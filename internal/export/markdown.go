package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/chat-widget/internal"
)

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

var senderHeadings = map[internal.Sender]string{
	internal.SenderUser: "You",
	internal.SenderBot:  "Assistant",
}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(conv *internal.Conversation, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Conversation %s\n\n", conv.Label())

	_, _ = fmt.Fprintf(w, "**Business:** %s  \n", conv.BusinessID)
	_, _ = fmt.Fprintf(w, "**API:** %s  \n", conv.APIBaseURL)
	if conv.SessionID != "" {
		_, _ = fmt.Fprintf(w, "**Session:** %s  \n", conv.SessionID)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conv.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range conv.Messages {
		timestamp := ""
		if !msg.CreatedAt.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.CreatedAt.Format(time.RFC3339))
		}

		heading, ok := senderHeadings[msg.Sender]
		if !ok {
			heading = msg.Sender.String()
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", heading, timestamp, escapeMarkdown(msg.Text))

		if i < len(conv.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		case inCodeBlock:
			result = append(result, line)
		default:
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
