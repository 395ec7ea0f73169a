/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suparena/itemsapi/stack"
)

func newStackCmd(g *globalFlags) *cobra.Command {
	var (
		opts   stack.Options
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Emit the CloudFormation template",
		Long: `Stack prints the template that deploys the table, the functions, the REST API
and the canary schedule.

Examples:
    itemsctl stack
    itemsctl stack --code-bucket artifacts -o stack.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.TableName = g.table
			opts.PrimaryKey = g.primaryKey
			tmpl := stack.Build(opts)

			var (
				data []byte
				err  error
			)
			switch format {
			case "yaml":
				data, err = tmpl.YAML()
			case "json":
				data, err = tmpl.JSON()
			default:
				return fmt.Errorf("unknown format %q: use yaml or json", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVar(&opts.CodeBucket, "code-bucket", "", "S3 bucket holding the function archive")
	cmd.Flags().StringVar(&opts.CodeKey, "code-key", "", "S3 key of the function archive")
	cmd.Flags().StringVar(&opts.StageName, "stage", "", "API stage name (default prod)")

	return cmd
}
