package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/shortcut-mcp/internal/cli/output"
	"github.com/marmos91/shortcut-mcp/pkg/config"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

var whoamiOutput string

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the member the configured API token belongs to",
	Long: `Verify the configured Shortcut API token and show who it authenticates as.

The token is read from the config file (shortcut.api_token) or the
SHORTCUTMCP_SHORTCUT_API_TOKEN environment variable. Run
'shortcut-mcp init' to store one.

Examples:
  # Check the configured token
  shortcut-mcp whoami

  # Output as JSON
  shortcut-mcp whoami --output json`,
	RunE: runWhoami,
}

func init() {
	whoamiCmd.Flags().StringVarP(&whoamiOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(whoamiOutput)
	if err != nil {
		return err
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if cfg.Shortcut.APIToken == "" {
		return fmt.Errorf("no API token configured\n\n" +
			"Store one with 'shortcut-mcp init', or set SHORTCUTMCP_SHORTCUT_API_TOKEN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := shortcut.New(cfg.Shortcut.APIURL).WithTimeout(cfg.Shortcut.Timeout)
	member, err := shortcut.NewTokenValidator(client).Validate(ctx, cfg.Shortcut.APIToken)
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, member)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, member)
	default:
		pairs := [][2]string{
			{"Name", member.Name},
			{"Mention", "@" + member.MentionName},
			{"Member ID", member.ID},
		}
		if member.Workspace2 != nil {
			pairs = append(pairs, [2]string{"Workspace", member.Workspace2.URLSlug})
		}
		return output.SimpleTable(os.Stdout, pairs)
	}
}
