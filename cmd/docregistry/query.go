package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/docregistry/registry"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search KEYWORD...",
		Short: "Search functions by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			asJSON, _ := cmd.Flags().GetBool("json")

			c, _, err := open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			keyword := strings.Join(args, " ")
			results := c.Registry().Search(cmd.Context(), keyword, limit)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprint(cmd.OutOrStdout(), registry.FormatSearchResults(keyword, results))
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "maximum number of results, 0 for the configured default")
	cmd.Flags().Bool("json", false, "print results as JSON")
	return cmd
}

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call FUNCTION [PARAMS]",
		Short: "Call a function with a JSON object of arguments",
		Example: `  docregistry call stock_zh_a_hist '{"symbol": "600000", "period": "daily"}'
  docregistry call ak_macro_china_gdp`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			params := ""
			if len(args) == 2 {
				params = args[1]
			}
			out := c.Registry().CallJSON(cmd.Context(), args[0], params)
			if err := writeJSON(cmd.OutOrStdout(), out.Response()); err != nil {
				return err
			}
			return out.Err()
		},
	}
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe FUNCTION",
		Short: "Show a function's parameters, input schema and source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			desc, err := c.Registry().Describe(cmd.Context(), args[0])
			if errors.Is(err, registry.ErrNotFound) {
				return fmt.Errorf("%w (try: docregistry search %s)", err, args[0])
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), desc)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
