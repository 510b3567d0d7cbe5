package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export the parsed catalog",
		Long: `Export every parsed function record, its MCP tool projection or the
catalog statistics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			view, _ := cmd.Flags().GetString("view")

			c, _, err := open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			reg := c.Registry()
			var v any
			switch view {
			case "records":
				v = reg.Catalog(cmd.Context()).Records()
			case "tools":
				v = reg.Tools(cmd.Context())
			case "stats":
				v = reg.Stats(cmd.Context())
			default:
				return fmt.Errorf("unknown view %q: want records, tools or stats", view)
			}
			return encode(cmd.OutOrStdout(), format, v)
		},
	}
	cmd.Flags().String("format", "yaml", "output format: yaml or json")
	cmd.Flags().String("view", "records", "what to export: records, tools or stats")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		return writeJSON(w, v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: want yaml or json", format)
	}
}
