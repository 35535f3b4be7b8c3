package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/chat-widget/internal"
)

var (
	sendTranscript string
	sendFormat     string
	sendStrict     bool
)

var (
	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	botMessageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true).
			Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// sendCmd represents the one-shot send command
var sendCmd = &cobra.Command{
	Use:   "send [message...]",
	Short: "Send one or more messages and print the replies",
	Long: `Send each argument as a separate message, in order, within one
conversation. With no arguments, every non-empty line of stdin is sent.

A failed exchange prints the error and moves on to the next message;
use --strict to exit non-zero when any exchange failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		messages := args
		if len(messages) == 0 {
			if messages, err = readLines(cmd.InOrStdin()); err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		session := internal.NewSession(cfg, newChatClient(cfg))

		sent, failed := 0, 0
		for _, text := range messages {
			before := session.MessageCount()

			var accepted bool
			err := internal.ShowProgress(ctx, "Waiting for reply...", func() error {
				accepted = session.SubmitText(ctx, text)
				return nil
			})
			if err != nil {
				return fmt.Errorf("send interrupted after %d message(s): %w", sent, err)
			}
			if !accepted {
				continue
			}
			sent++

			for _, msg := range session.Messages()[before:] {
				printTurn(out, msg)
			}
			if e := session.Error(); e != "" {
				failed++
				internal.PrintError(cmd.ErrOrStderr(), e)
			}
		}

		if err := writeTranscript(ctx, session.Conversation(), sendTranscript, sendFormat); err != nil {
			return err
		}

		if sendStrict && failed > 0 {
			return fmt.Errorf("%d of %d message(s) failed", failed, sent)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendTranscript, "transcript", "t", "", "Save the conversation to this file")
	sendCmd.Flags().StringVarP(&sendFormat, "format", "f", "", formatFlagUsage())
	sendCmd.Flags().BoolVar(&sendStrict, "strict", false, "Exit with an error if any exchange failed")
}

func printTurn(w io.Writer, msg internal.Message) {
	label := botMessageStyle.Render("Assistant")
	if msg.Sender == internal.SenderUser {
		label = userMessageStyle.Render("You")
	}
	fmt.Fprintf(w, "%s %s\n", label, timestampStyle.Render(msg.CreatedAt.Local().Format(time.Kitchen)))
	fmt.Fprintln(w, messageContentStyle.Render(msg.Text))
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
