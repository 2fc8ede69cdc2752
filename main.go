package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slighter12/mcp-toolserver-go/config"
	"github.com/slighter12/mcp-toolserver-go/mcp"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "mcp-toolserver",
	Short:         "JSON-RPC tool server",
	Long:          "mcp-toolserver exposes a registry of named tools over JSON-RPC 2.0, on HTTP or on stdio.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("%s %s\n", mcp.ServerName, mcp.ServerVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (defaults to MCP_CONFIG_PATH or the standard locations)")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves and loads the config. A missing file means defaults.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		resolved, err := config.ResolveConfigPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return config.LoadOrDefault(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
