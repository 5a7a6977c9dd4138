package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/shortcut-mcp/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the shortcut-mcp configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  shortcut-mcp config validate

  # Validate specific config file
  shortcut-mcp config validate --config /etc/shortcut-mcp/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	// Load and validate configuration
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	// Additional validation checks
	var warnings []string

	if cfg.Shortcut.APIToken == "" {
		warnings = append(warnings, "No API token stored - local commands (whoami) will not work")
	}
	if cfg.Session.HeartbeatInterval == 0 {
		warnings = append(warnings, "SSE heartbeats disabled - idle streams may be cut by intermediaries")
	}

	// Print results
	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  MCP port:        %d\n", cfg.Server.Port)
	fmt.Printf("  Session timeout: %s\n", cfg.Session.IdleTimeout)
	fmt.Printf("  Shortcut API:    %s\n", cfg.Shortcut.APIURL)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
