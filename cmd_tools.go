package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/tools"
)

var (
	flagDir  string
	flagAll  bool
	flagJSON bool
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools a server would expose",
	Example: `  mcp-toolserver tools
  mcp-toolserver tools --all --json`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func init() {
	for _, cmd := range []*cobra.Command{toolsCmd, callCmd} {
		cmd.Flags().StringVar(&flagDir, "dir", "", "Tool manifest directory (defaults to the configured one)")
		cmd.Flags().BoolVar(&flagAll, "all", false, "Register every built-in unit instead of discovering manifests")
	}
	toolsCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(toolsCmd)
}

// buildRegistry populates a manager the same way serve does.
func buildRegistry() (*tools.Manager, error) {
	logger.Default().SetLevel(logger.GetLevelFromString("warn"))

	manager := tools.NewManager()
	if flagAll {
		for _, unit := range tools.Units() {
			if err := unit.Register(manager); err != nil {
				return nil, fmt.Errorf("register unit %s: %w", unit.Name, err)
			}
		}
		return manager, nil
	}

	dir := flagDir
	if dir == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		dir = cfg.Discovery.Dir
	}
	if _, err := tools.Discover(dir, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

func runTools(cmd *cobra.Command, _ []string) error {
	manager, err := buildRegistry()
	if err != nil {
		return err
	}
	infos := manager.ListTools()

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"tools": infos})
	}

	if len(infos) == 0 {
		color.New(color.FgYellow).Fprintln(out, "No tools registered.")
		return nil
	}

	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	for _, info := range infos {
		cyan.Fprintln(out, info.Name)
		if info.Description != "" {
			fmt.Fprintf(out, "  %s\n", info.Description)
		}
		for _, p := range info.Parameters {
			fmt.Fprintf(out, "    %s ", p.Name)
			yellow.Fprintf(out, "%s", p.Type)
			if p.Optional {
				dim.Fprint(out, " (optional)")
			}
			if p.Description != "" {
				fmt.Fprintf(out, "  %s", p.Description)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
