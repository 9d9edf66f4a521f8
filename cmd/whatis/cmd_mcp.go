package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dhamidi/whatis/java/codebase"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the resolve_symbol and describe_class tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCodebase()
			if err != nil {
				return err
			}
			if err := codebase.Watch(cmd.Context(), c, watchOptions()); err != nil {
				log.Warningf("watching %s: %s", c.RootDir(), err)
			}
			log.Noticef("MCP server starting on stdio")
			return server.ServeStdio(codebase.NewMCPServer(version, codebase.NewToolHandler(c)))
		},
	}
}
