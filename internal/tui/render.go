package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/chat-widget/internal"
)

const (
	// EmptyStateText is shown while the transcript has no messages
	EmptyStateText = "Ask anything about this business or its website."

	bubbleWidthRatio = 0.8
)

// RenderTranscript projects the session state into the message pane:
// user bubbles on the right, bot bubbles on the left, then the error line
func RenderTranscript(st internal.State, width int) string {
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder

	if len(st.Messages) == 0 {
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, emptyStateStyle.Render(EmptyStateText)))
	}

	for i, msg := range st.Messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderBubble(msg, width))
	}

	if st.Error != "" {
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, errorStyle.Render(st.Error)))
	}

	return sb.String()
}

func renderBubble(msg internal.Message, width int) string {
	style, align := botBubbleStyle, lipgloss.Left
	if msg.Sender == internal.SenderUser {
		style, align = userBubbleStyle, lipgloss.Right
	}

	maxWidth := int(float64(width) * bubbleWidthRatio)
	frame := style.GetHorizontalFrameSize()
	bubbleWidth := lipgloss.Width(msg.Text) + frame
	if bubbleWidth > maxWidth {
		bubbleWidth = maxWidth
	}
	if bubbleWidth < frame+1 {
		bubbleWidth = frame + 1
	}

	bubble := style.Width(bubbleWidth).Render(msg.Text)
	return lipgloss.PlaceHorizontal(width, align, bubble)
}
