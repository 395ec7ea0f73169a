/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/itemsapi/datastore"
	"github.com/suparena/itemsapi/storagemodels"
)

func newListCmd(g *globalFlags) *cobra.Command {
	var pageSize int32

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every item as a JSON line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.app(cmd.Context())
			if err != nil {
				return err
			}
			if pageSize == 0 {
				pageSize = app.Config.ScanPageSize
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			var count int
			for res := range datastore.Stream(cmd.Context(), app.Store, storagemodels.WithPageSize(pageSize)) {
				if res.Error != nil {
					return res.Error
				}
				if err := enc.Encode(res.Item); err != nil {
					return err
				}
				count++
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d items\n", count)
			return nil
		},
	}

	cmd.Flags().Int32Var(&pageSize, "page-size", 0, "Scan page limit")
	return cmd
}
