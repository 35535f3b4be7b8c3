package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/chat-widget/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		conv    *internal.Conversation
		want    []string
		notWant []string
	}{
		{
			name: "basic conversation",
			conv: internal.CreateTestConversation("abc"),
			want: []string{
				"# Conversation abc",
				"**Business:** demo-business",
				"**API:** http://127.0.0.1:8000/api",
				"**Session:** abc",
				"**Messages:** 2",
				"## Messages",
				"**You:**",
				"hours?",
				"**Assistant:**",
				"9-5",
			},
		},
		{
			name: "message with timestamp",
			conv: internal.CreateTestConversationWithMessages("", []internal.Message{
				{ID: "1", Sender: internal.SenderUser, Text: "Hello", CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
			}),
			want: []string{"**You:** (2023-01-01T00:00:00Z)"},
		},
		{
			name:    "no session yet",
			conv:    internal.CreateTestConversationWithMessages("", []internal.Message{}),
			want:    []string{"# Conversation demo-business", "**Messages:** 0"},
			notWant: []string{"**Session:**"},
		},
		{
			name: "bold in reply escaped",
			conv: internal.CreateTestConversationWithMessages("s", []internal.Message{
				{ID: "1", Sender: internal.SenderBot, Text: "We are **open**"},
			}),
			want: []string{"We are \\*\\*open\\*\\*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &MarkdownExporter{}

			if err := exporter.Export(tt.conv, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(output, s) {
					t.Errorf("Output should not contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		notWant  []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:   "This is **bold** text",
			want:    []string{"\\*\\*bold\\*\\*"},
			notWant: []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:   "This is __underlined__ text",
			want:    []string{"\\_\\_underlined\\_\\_"},
			notWant: []string{"__underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\npackage main\n```",
			want:  []string{"```go", "package main", "```"},
		},
		{
			name:    "mixed content",
			input:   "Regular text **bold** and ```code```",
			want:    []string{"\\*\\*bold\\*\\*", "```code```"},
			notWant: []string{"**bold**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}
