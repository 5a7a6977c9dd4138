package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/shortcut-mcp/internal/cli/prompt"
	"github.com/marmos91/shortcut-mcp/pkg/config"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

var (
	initForce     bool
	initSkipToken bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample shortcut-mcp configuration file.

By default, the configuration file is created at
$XDG_CONFIG_HOME/shortcut-mcp/config.yaml. Use --config to specify a
custom path.

After writing the file, init offers to store a workspace API token for
local commands (whoami, status). The token is verified against the
Shortcut API before it is saved. MCP clients are unaffected; they send
their own token with each session.

Examples:
  # Initialize with default location
  shortcut-mcp init

  # Initialize with custom path
  shortcut-mcp init --config /etc/shortcut-mcp/config.yaml

  # Force overwrite existing config
  shortcut-mcp init --force

  # Skip the token prompt (for scripted setups)
  shortcut-mcp init --skip-token`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVar(&initSkipToken, "skip-token", false, "Skip the API token prompt")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	force := initForce
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			ok, err := prompt.Confirm(fmt.Sprintf("Configuration file already exists at %s. Overwrite?", configPath), false)
			if err != nil && !prompt.IsAborted(err) {
				return err
			}
			if !ok {
				fmt.Println("Keeping existing configuration.")
				return nil
			}
			force = true
		}
	}

	if err := config.InitConfigToPath(configPath, force); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)

	if !initSkipToken {
		if err := promptAndStoreToken(configPath); err != nil {
			if prompt.IsAborted(err) {
				fmt.Println("Token setup skipped.")
			} else {
				return err
			}
		}
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: shortcut-mcp serve")
	fmt.Printf("  3. Or specify custom config: shortcut-mcp serve --config %s\n", configPath)
	fmt.Println("\nNote:")
	fmt.Println("  MCP clients authenticate per session with their own token. The stored")
	fmt.Println("  token is only used by local commands such as 'shortcut-mcp whoami'.")

	return nil
}

// promptAndStoreToken asks for a workspace token, verifies it upstream, and
// persists it into the freshly written config file. An empty answer skips
// the step.
func promptAndStoreToken(configPath string) error {
	fmt.Println("\nOptionally store a workspace API token for local commands.")
	fmt.Println("Create one at https://app.shortcut.com/settings/account/api-tokens.")

	token, err := prompt.Password("Shortcut API token (Enter to skip)")
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := shortcut.New(cfg.Shortcut.APIURL).WithTimeout(cfg.Shortcut.Timeout)
	member, err := shortcut.NewTokenValidator(client).Validate(ctx, token)
	if err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}

	cfg.Shortcut.APIToken = token
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Printf("Token verified: %s (@%s)\n", member.Name, member.MentionName)
	return nil
}
