package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iksnae/chat-widget/internal"
	"github.com/iksnae/chat-widget/internal/export"
)

// LaunchURLEnv names the environment variable read when --launch-url is absent
const LaunchURLEnv = "CHAT_WIDGET_LAUNCH_URL"

var (
	verbose    bool
	launchURL  string
	launchFile string
	params     []string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-widget",
	Short: "Terminal client for a business-scoped website chat assistant",
	Long: `A small chat widget for the terminal.

It sends your questions to a business's chat endpoint
({apiBaseUrl}/chat/{businessId}), keeps the backend conversation going
across messages and shows the transcript as it grows.

Launch parameters (businessId, apiBaseUrl) come from, in increasing priority:
  --launch-file widget.toml
  --launch-url  'https://site/widget?businessId=acme&apiBaseUrl=...'
                (or CHAT_WIDGET_LAUNCH_URL, also read from .env)
  --param       key=value

Quick Start:
  chat-widget chat --param businessId=acme     # Interactive widget
  chat-widget send "What are your hours?"      # One-shot question
  chat-widget config --output json             # Show resolved endpoint`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&launchURL, "launch-url", "", "Widget page URL whose query carries the launch parameters (default $"+LaunchURLEnv+")")
	rootCmd.PersistentFlags().StringVar(&launchFile, "launch-file", "", "TOML file with businessId and apiBaseUrl")
	rootCmd.PersistentFlags().StringArrayVarP(&params, "param", "p", nil, "Launch parameter as key=value (repeatable)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadLaunchParams merges every launch source; later sources win and
// empty values never override
func loadLaunchParams() (internal.LaunchParams, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		internal.PrintWarning(rootCmd.ErrOrStderr(), fmt.Sprintf("Failed to load .env: %v", err))
	}

	merged := internal.LaunchParams{}

	if launchFile != "" {
		fromFile, err := internal.LoadLaunchFile(launchFile)
		if err != nil {
			return nil, err
		}
		merged = merged.Merge(fromFile)
	}

	raw := launchURL
	if raw == "" {
		raw = os.Getenv(LaunchURLEnv)
	}
	if raw != "" {
		fromURL, err := internal.ParseLaunchURL(raw)
		if err != nil {
			return nil, err
		}
		merged = merged.Merge(fromURL)
	}

	fromFlags, err := internal.ParseParamFlags(params)
	if err != nil {
		return nil, err
	}
	return merged.Merge(fromFlags), nil
}

// resolveConfig resolves the widget configuration once per command run
func resolveConfig() (internal.Config, error) {
	launch, err := loadLaunchParams()
	if err != nil {
		return internal.Config{}, fmt.Errorf("invalid launch parameters: %w", err)
	}
	cfg := internal.ResolveConfig(launch)
	internal.LogDebug("resolved endpoint %s", cfg.Endpoint())
	return cfg, nil
}

// newChatClient builds the backend client, identifying this build
func newChatClient(cfg internal.Config) *internal.ChatClient {
	return internal.NewChatClient(cfg, internal.WithUserAgent("chat-widget/"+version))
}

// formatFlagUsage is the --format help text shared by chat and send
func formatFlagUsage() string {
	return "Transcript format (" + strings.Join(export.Formats, ", ") + "); inferred from the file extension when empty"
}
