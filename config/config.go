/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config resolves process configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/suparena/itemsapi/errors"
)

// Environment variable names
const (
	EnvTableName        = "TABLE_NAME"
	EnvPrimaryKey       = "PRIMARY_KEY"
	EnvRegion           = "AWS_REGION"
	EnvAccessKey        = "AWS_ACCESS_KEY"
	EnvSecretKey        = "AWS_SECRET_KEY"
	EnvEndpoint         = "DYNAMODB_ENDPOINT"
	EnvScanPageSize     = "SCAN_PAGE_SIZE"
	EnvSweepConcurrency = "SWEEP_CONCURRENCY"
	EnvAPIBaseURL       = "API_BASE_URL"
	EnvLogLevel         = "LOG_LEVEL"
)

// Config is resolved once per process and passed to everything that needs it.
type Config struct {
	TableName        string
	PrimaryKey       string
	Region           string
	AccessKey        string
	SecretKey        string
	Endpoint         string
	ScanPageSize     int32
	SweepConcurrency int
	APIBaseURL       string
	LogLevel         string
}

// Load reads an optional .env file from the working directory, then the
// environment. Missing table or key names are left empty; call Validate to
// reject them up front.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		// a missing default .env is not an error
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, errors.NewConfigError("env file", err.Error())
	}

	cfg := Config{
		TableName:        os.Getenv(EnvTableName),
		PrimaryKey:       os.Getenv(EnvPrimaryKey),
		Region:           os.Getenv(EnvRegion),
		AccessKey:        os.Getenv(EnvAccessKey),
		SecretKey:        os.Getenv(EnvSecretKey),
		Endpoint:         os.Getenv(EnvEndpoint),
		APIBaseURL:       os.Getenv(EnvAPIBaseURL),
		LogLevel:         os.Getenv(EnvLogLevel),
		SweepConcurrency: 1,
	}

	if v := os.Getenv(EnvScanPageSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return Config{}, errors.NewConfigError(EnvScanPageSize, "must be a non-negative integer")
		}
		cfg.ScanPageSize = int32(n)
	}
	if v := os.Getenv(EnvSweepConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, errors.NewConfigError(EnvSweepConcurrency, "must be a positive integer")
		}
		cfg.SweepConcurrency = n
	}
	return cfg, nil
}

// Validate reports the first required setting that is empty.
func (c Config) Validate() error {
	if c.TableName == "" {
		return errors.NewConfigError(EnvTableName, "must be set")
	}
	if c.PrimaryKey == "" {
		return errors.NewConfigError(EnvPrimaryKey, "must be set")
	}
	return nil
}
