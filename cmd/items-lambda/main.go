/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command items-lambda is the single binary behind every items API function.
// The function's Handler property, exposed by the runtime as _HANDLER, selects
// which handler it serves.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/suparena/itemsapi"
	"github.com/suparena/itemsapi/config"
)

const envHandlerOverride = "ITEMS_HANDLER"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := itemsapi.NewLogger(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	name := handlerName()
	logger = logger.With(zap.String("handler", name), zap.String("version", itemsapi.Version))

	app, err := itemsapi.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return err
	}

	handler, err := app.Registry().Get(name)
	if err != nil {
		logger.Error("unknown handler", zap.Error(err))
		return err
	}

	lambda.Start(handler)
	return nil
}

func handlerName() string {
	if name := os.Getenv(envHandlerOverride); name != "" {
		return name
	}
	return os.Getenv("_HANDLER")
}
