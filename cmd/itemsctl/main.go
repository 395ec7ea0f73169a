/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command itemsctl operates an items table and its API from a workstation.
//
// Usage:
//
//	itemsctl sweep                  Delete every item of the table
//	itemsctl list                   Print every item as JSON
//	itemsctl serve --addr :8080     Serve the API locally
//	itemsctl probe <baseURL>        Run the canary against a deployment
//	itemsctl stack -o stack.yaml    Emit the CloudFormation template
//	itemsctl version                Show version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/itemsapi"
	"github.com/suparena/itemsapi/config"
)

type globalFlags struct {
	envFile    string
	table      string
	primaryKey string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "itemsctl",
		Short:         "Operate the items table and API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", "", "Load settings from this file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&g.table, "table", "", "Table name (overrides TABLE_NAME)")
	rootCmd.PersistentFlags().StringVar(&g.primaryKey, "primary-key", "", "Primary key attribute (overrides PRIMARY_KEY)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log at debug level to the console")

	rootCmd.AddCommand(
		newSweepCmd(g),
		newListCmd(g),
		newServeCmd(g),
		newProbeCmd(g),
		newStackCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

func (g *globalFlags) config() (config.Config, error) {
	var files []string
	if g.envFile != "" {
		files = append(files, g.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return cfg, err
	}
	if g.table != "" {
		cfg.TableName = g.table
	}
	if g.primaryKey != "" {
		cfg.PrimaryKey = g.primaryKey
	}
	return cfg, nil
}

func (g *globalFlags) logger(cfg config.Config) (*zap.Logger, error) {
	if g.verbose {
		return itemsapi.NewLogger("debug", true)
	}
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	return itemsapi.NewLogger(level, true)
}

// app resolves and validates configuration, then wires the process.
func (g *globalFlags) app(ctx context.Context) (*itemsapi.App, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := g.logger(cfg)
	if err != nil {
		return nil, err
	}
	return itemsapi.New(ctx, cfg, logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := itemsapi.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "itemsctl version %s\n", info.Version)
			if info.Modified {
				fmt.Fprintf(out, "Git commit: %s (modified)\n", info.GitCommit)
			} else {
				fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			}
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		},
	}
}
