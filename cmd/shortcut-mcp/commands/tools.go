package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/shortcut-mcp/internal/cli/output"
	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
	"github.com/marmos91/shortcut-mcp/pkg/toolset"
)

var toolsOutput string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available MCP tools",
	Long: `List the MCP tools this server exposes to clients.

The listing matches what a connected client sees through tools/list.

Examples:
  # List tools as a table
  shortcut-mcp tools

  # Full tool definitions including input schemas
  shortcut-mcp tools --output json`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().StringVarP(&toolsOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runTools(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(toolsOutput)
	if err != nil {
		return err
	}

	// Listing needs no credentials; the client is never exercised.
	registry := tools.NewRegistry()
	if err := toolset.Register(registry, shortcut.New("")); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	list := registry.List()

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, list)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, list)
	default:
		table := output.NewTableData("NAME", "DESCRIPTION")
		for _, tool := range list {
			table.AddRow(tool.Name, tool.Description)
		}
		if err := output.PrintTable(os.Stdout, table); err != nil {
			return err
		}
		fmt.Printf("\n%d tools\n", len(list))
		return nil
	}
}
