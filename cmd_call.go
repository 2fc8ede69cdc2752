package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slighter12/mcp-toolserver-go/mcp/jsonrpc"
	"github.com/slighter12/mcp-toolserver-go/transport/shared"
)

var errCallFailed = errors.New("call failed")

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-params]",
	Short: "Invoke a tool once through the JSON-RPC dispatcher",
	Example: `  mcp-toolserver call calculator '{"expression":"2 plus 3"}'
  mcp-toolserver call time_tool --all`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	manager, err := buildRegistry()
	if err != nil {
		return err
	}

	params := json.RawMessage(`{}`)
	if len(args) > 1 {
		if !json.Valid([]byte(args[1])) {
			return fmt.Errorf("invalid JSON params: %s", args[1])
		}
		params = json.RawMessage(args[1])
	}

	body, err := json.Marshal(jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		ID:      1,
		Method:  args[0],
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	dispatcher := shared.NewDispatcher(manager, 1, nil)
	payload := dispatcher.Handle(cmd.Context(), body)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return err
	}

	if resp, ok := payload.(*jsonrpc.Response); ok && resp.Error != nil {
		return errCallFailed
	}
	return nil
}
