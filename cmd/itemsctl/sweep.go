/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/itemsapi"
	"github.com/suparena/itemsapi/errors"
	"github.com/suparena/itemsapi/storagemodels"
	"github.com/suparena/itemsapi/sweep"
)

func newSweepCmd(g *globalFlags) *cobra.Command {
	var concurrency int
	var pageSize int32

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete every item of the table",
		Long: `Sweep scans the table page by page and deletes every item it finds.

The first failed scan or delete stops the sweep; items already deleted stay
deleted and running sweep again resumes from what is left.

Examples:
    itemsctl sweep
    itemsctl sweep --concurrency 8 --page-size 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.app(cmd.Context())
			if err != nil {
				return err
			}
			return runSweep(cmd, app, concurrency, pageSize)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Deletes in flight per page (default SWEEP_CONCURRENCY or 1)")
	cmd.Flags().Int32Var(&pageSize, "page-size", 0, "Scan page limit (default SCAN_PAGE_SIZE or service maximum)")

	return cmd
}

func runSweep(cmd *cobra.Command, app *itemsapi.App, concurrency int, pageSize int32) error {
	if concurrency == 0 {
		concurrency = app.Config.SweepConcurrency
	}
	if pageSize == 0 {
		pageSize = app.Config.ScanPageSize
	}

	out := cmd.OutOrStdout()
	sweeper := sweep.New(app.Store, app.Logger,
		storagemodels.WithConcurrency(concurrency),
		storagemodels.WithSweepPageSize(pageSize),
		storagemodels.WithSweepProgressHandler(func(p storagemodels.SweepProgress) {
			fmt.Fprintf(out, "page %d: deleted %d (total %d)\n", p.PagesProcessed, p.LastPageSize, p.ItemsDeleted)
		}),
	)

	result := sweeper.Sweep(cmd.Context())
	if !result.OK() {
		return fmt.Errorf("sweep stopped after %d deletes: %s", result.ItemsDeleted, errors.Serialize(result.Err))
	}
	fmt.Fprintf(out, "deleted %d items from %s in %d scans\n", result.ItemsDeleted, app.Store.TableName(), result.Scans)
	return nil
}
