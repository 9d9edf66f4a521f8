package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/whatis/java/codebase"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := loadBase()
			if err != nil {
				return err
			}
			server := codebase.NewLSPServer(version, base, watchOptions())
			return server.RunStdio()
		},
	}
}
