/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package itemsapi

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/suparena/itemsapi/canary"
	"github.com/suparena/itemsapi/config"
	"github.com/suparena/itemsapi/datastore"
	"github.com/suparena/itemsapi/datastore/ddb"
	"github.com/suparena/itemsapi/handlers"
	"github.com/suparena/itemsapi/registry"
	"github.com/suparena/itemsapi/storagemodels"
	"github.com/suparena/itemsapi/sweep"
)

// App holds everything one process shares across invocations.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Store    datastore.KeyValueStore
	Sweeper  *sweep.Sweeper
	Handlers *handlers.Handlers
	Canary   *canary.Client
}

// New builds the DynamoDB client and store from cfg and wires the rest on top.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	client, err := ddb.NewClient(ctx, ddb.ClientOptions{
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Endpoint:  cfg.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, ddb.NewStore(client, cfg.TableName, cfg.PrimaryKey, logger), logger), nil
}

// NewWithStore wires an App over an existing store.
func NewWithStore(cfg config.Config, store datastore.KeyValueStore, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	sweeper := sweep.New(store, logger,
		storagemodels.WithSweepPageSize(cfg.ScanPageSize),
		storagemodels.WithConcurrency(cfg.SweepConcurrency),
	)
	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Sweeper:  sweeper,
		Handlers: handlers.New(store, sweeper, logger, handlers.WithScanPageSize(cfg.ScanPageSize)),
		Canary:   canary.New(logger, canary.WithPrimaryKey(cfg.PrimaryKey)),
	}
}

// Registry returns a registry holding every handler plus the canary.
func (a *App) Registry() *registry.Registry {
	reg := registry.New()
	a.Handlers.Register(reg)
	reg.RegisterFunc(canary.HandlerName, a.Canary.Handler(a.Config.APIBaseURL))
	return reg
}

// NewLogger builds a JSON production logger, or a console one when development
// is set. An empty level means info.
func NewLogger(level string, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}
