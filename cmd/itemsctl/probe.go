/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/itemsapi/canary"
)

func newProbeCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe [baseURL]",
		Short: "Exercise every route of a deployed API",
		Long: `Probe creates, reads, updates and deletes one throwaway item through the
API at baseURL (default API_BASE_URL), then prints the report as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			logger, err := g.logger(cfg)
			if err != nil {
				return err
			}

			baseURL := cfg.APIBaseURL
			if len(args) == 1 {
				baseURL = args[0]
			}
			if baseURL == "" {
				return fmt.Errorf("no base URL: pass one or set API_BASE_URL")
			}

			opts := []canary.Option{}
			if cfg.PrimaryKey != "" {
				opts = append(opts, canary.WithPrimaryKey(cfg.PrimaryKey))
			}
			report, probeErr := canary.New(logger, opts...).Probe(cmd.Context(), baseURL)

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return probeErr
		},
	}
	return cmd
}
