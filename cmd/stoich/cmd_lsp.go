package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/stoich/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, cfg.Output.Locale)
			return server.RunStdio()
		},
	}
}
