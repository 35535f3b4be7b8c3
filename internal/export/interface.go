package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/chat-widget/internal"
)

// Exporter defines the interface for all transcript export formats
type Exporter interface {
	Export(conv *internal.Conversation, w io.Writer) error
	Extension() string
}

// Formats lists the accepted --format values
var Formats = []string{"jsonl", "md", "yaml", "json", "sqlite"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "sqlite", "db":
		return &SQLiteExporter{}, nil
	default:
		return nil, &internal.ExportError{
			Format: format,
			Err:    fmt.Errorf("unsupported format (supported: %s)", strings.Join(Formats, ", ")),
		}
	}
}
