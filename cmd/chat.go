package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iksnae/chat-widget/internal"
	"github.com/iksnae/chat-widget/internal/tui"
)

var (
	chatTranscript string
	chatFormat     string
	chatLogFile    string
)

// chatCmd represents the interactive widget
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat widget",
	Long: `Open the chat widget in the terminal.

Type a question and press enter. While a reply is pending further sends
are ignored; a failed exchange keeps your message and shows an error.
Press esc or ctrl+c to leave. With --transcript the conversation is saved
on exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		// the alternate screen owns the terminal; keep logs off it
		var logOut io.Writer = io.Discard
		if chatLogFile != "" {
			f, err := os.OpenFile(chatLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			logOut = f
		}
		internal.SetLogOutput(logOut)
		defer internal.SetLogOutput(os.Stderr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		session := internal.NewSession(cfg, newChatClient(cfg))
		internal.LogInfo("chat widget started for %s", cfg.Endpoint())

		model := tui.New(ctx, session)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		_, runErr := program.Run()

		// an exchange may still be in flight after esc; cancel it and let
		// it finish before the logger is swapped back
		stop()
		model.Wait()
		if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
			return fmt.Errorf("chat widget failed: %w", runErr)
		}

		internal.SetLogOutput(os.Stderr)
		if err := writeTranscript(cmd.Context(), session.Conversation(), chatTranscript, chatFormat); err != nil {
			return err
		}
		if chatTranscript != "" {
			internal.PrintSuccess(fmt.Sprintf("Transcript saved to %s", chatTranscript))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatTranscript, "transcript", "t", "", "Save the conversation to this file on exit")
	chatCmd.Flags().StringVarP(&chatFormat, "format", "f", "", formatFlagUsage())
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "Write logs to this file while the widget is open")
}
