package main

import (
	"github.com/spf13/cobra"

	"github.com/amishk599/codedesc/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Serve describe and index lookups over MCP (stdio)",
	Args:  cobra.NoArgs,
	RunE:  runServeMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runServeMCP(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	d := setupDescriber(cfg, logger)
	return mcpserver.New(d, st, logger, version).ServeStdio()
}
