package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iksnae/chat-widget/internal"
)

var configOutput string

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	defaultNoteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))
)

type configReport struct {
	BusinessID string `json:"businessId" yaml:"businessId"`
	APIBaseURL string `json:"apiBaseUrl" yaml:"apiBaseUrl"`
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
}

// configCmd prints the resolved configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved widget configuration",
	Long: `Resolve the launch parameters exactly as chat and send do and print
the business id, API base URL and the chat endpoint they produce.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg, configOutput)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "text", "Output format (text, json, yaml)")
}

func printConfig(w io.Writer, cfg internal.Config, output string) error {
	report := configReport{
		BusinessID: cfg.BusinessID,
		APIBaseURL: cfg.APIBaseURL,
		Endpoint:   cfg.Endpoint(),
	}

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(report)
	case "text", "":
	default:
		return fmt.Errorf("unsupported output: %s (supported: text, json, yaml)", output)
	}

	fmt.Fprintln(w, sectionStyle.Render("Chat widget configuration"))
	fmt.Fprintln(w)
	printField(w, "Business", cfg.BusinessID, cfg.BusinessID == internal.DefaultBusinessID)
	printField(w, "API base URL", cfg.APIBaseURL, cfg.APIBaseURL == internal.DefaultAPIBaseURL)
	printField(w, "Endpoint", report.Endpoint, false)
	return nil
}

func printField(w io.Writer, key, value string, isDefault bool) {
	line := fmt.Sprintf("%s %s", keyStyle.Render(fmt.Sprintf("%-13s", key+":")), valueStyle.Render(value))
	if isDefault {
		line += " " + defaultNoteStyle.Render("(default)")
	}
	fmt.Fprintln(w, line)
}
