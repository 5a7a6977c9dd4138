package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/shortcut-mcp/internal/cli/output"
	"github.com/marmos91/shortcut-mcp/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the current shortcut-mcp configuration.

The effective configuration is shown after merging the config file,
environment variables, and defaults. A stored API token is redacted.

By default outputs YAML format. Use --output to change format.

Examples:
  # Show effective config as YAML
  shortcut-mcp config show

  # Show as JSON
  shortcut-mcp config show --output json

  # Show specific config file
  shortcut-mcp config show --config /etc/shortcut-mcp/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	// Load configuration
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Never print the stored token
	if cfg.Shortcut.APIToken != "" {
		cfg.Shortcut.APIToken = "[redacted]"
	}

	// Parse output format
	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	// Print configuration
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
