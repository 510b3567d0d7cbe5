package main

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/docregistry/registry"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server exposing ak_search, ak_call, ak_describe and ak_logs.

Modes: stdio (default), http (streamable HTTP) and sse.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, cfg, err := open(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			return registry.Serve(ctx, c.Registry(), cfg.Server.Mode, cfg.Server.Host, cfg.Server.Port)
		},
	}
	cmd.Flags().String("mode", registry.ModeStdio, "transport: stdio, http or sse")
	cmd.Flags().String("host", "127.0.0.1", "listen host for http and sse")
	cmd.Flags().Int("port", 8000, "listen port for http and sse")
	return cmd
}
