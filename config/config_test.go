/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suparena/itemsapi/errors"
)

func TestLoad(t *testing.T) {
	t.Run("Environment", func(t *testing.T) {
		t.Setenv(EnvTableName, "items")
		t.Setenv(EnvPrimaryKey, "itemId")
		t.Setenv(EnvScanPageSize, "25")
		t.Setenv(EnvSweepConcurrency, "4")

		cfg, err := Load(filepath.Join(t.TempDir(), "empty.env"))
		require.Error(t, err, "an explicit env file that does not exist is an error")

		cfg, err = Load()
		require.NoError(t, err)
		require.Equal(t, "items", cfg.TableName)
		require.Equal(t, "itemId", cfg.PrimaryKey)
		require.Equal(t, int32(25), cfg.ScanPageSize)
		require.Equal(t, 4, cfg.SweepConcurrency)
		require.NoError(t, cfg.Validate())
	})

	t.Run("MissingIsEmpty", func(t *testing.T) {
		t.Setenv(EnvTableName, "")
		t.Setenv(EnvPrimaryKey, "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Empty(t, cfg.TableName)
		require.Equal(t, 1, cfg.SweepConcurrency)

		err = cfg.Validate()
		require.True(t, errors.IsMisconfigured(err))
	})

	t.Run("EnvFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("TABLE_NAME=from-file\nPRIMARY_KEY=pk\n"), 0o600))
		t.Setenv(EnvTableName, "")
		t.Setenv(EnvPrimaryKey, "")
		os.Unsetenv(EnvTableName)
		os.Unsetenv(EnvPrimaryKey)

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "from-file", cfg.TableName)
		require.Equal(t, "pk", cfg.PrimaryKey)
	})

	t.Run("BadNumbers", func(t *testing.T) {
		t.Setenv(EnvScanPageSize, "lots")
		_, err := Load()
		require.True(t, errors.IsMisconfigured(err))

		t.Setenv(EnvScanPageSize, "")
		t.Setenv(EnvSweepConcurrency, "0")
		_, err = Load()
		require.True(t, errors.IsMisconfigured(err))
	})
}
