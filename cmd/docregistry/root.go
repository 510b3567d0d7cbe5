package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/docregistry/config"
	"github.com/jonwraymond/docregistry/internal/dependency"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docregistry",
		Short:         "Search and call data functions described by documentation",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("docs-dir", "", "directory of category documents (AKSHARE_DOCS_DIR)")
	pf.String("prefix", "ak", "canonical id prefix")
	pf.Int("max-rows", 100, "maximum rows returned from a tabular result")
	pf.Int("search-limit", 20, "default number of search results")
	pf.Int64("max-concurrent-calls", 0, "bound on in-flight provider calls, 0 for none")
	pf.String("ranking", "id", "search result order: id or bm25")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("call-log", "", "append search and call records to this file as JSON lines")
	pf.String("provider-url", "", "MCP server providing the functions")

	root.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newCallCmd(),
		newDescribeCmd(),
		newCatalogCmd(),
		newVersionCmd(),
	)
	return root
}

// open loads configuration for cmd and builds the service container.
func open(ctx context.Context, cmd *cobra.Command) (*dependency.Container, *config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	c, err := dependency.New(ctx, cfg, version)
	if err != nil {
		return nil, nil, fmt.Errorf("start: %w", err)
	}
	if err := c.Registry().Initialize(ctx); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return c, cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docregistry %s\n", version)
		},
	}
}
