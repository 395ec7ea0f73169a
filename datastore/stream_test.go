/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suparena/itemsapi/datastore"
	"github.com/suparena/itemsapi/datastore/mock"
	"github.com/suparena/itemsapi/storagemodels"
)

func seeded(n int, pageSize int32) *mock.DataStore {
	store := mock.New("items", "itemId").WithPageSize(pageSize)
	records := make([]storagemodels.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, storagemodels.Record{"itemId": fmt.Sprintf("item-%02d", i)})
	}
	store.SetRecords(records...)
	return store
}

func TestStream(t *testing.T) {
	ctx := context.Background()

	t.Run("AllPages", func(t *testing.T) {
		store := seeded(7, 3)

		var progress []storagemodels.StreamProgress
		var got []string
		for res := range datastore.Stream(ctx, store,
			storagemodels.WithBufferSize(1),
			storagemodels.WithProgressHandler(func(p storagemodels.StreamProgress) {
				progress = append(progress, p)
			}),
		) {
			require.NoError(t, res.Error)
			got = append(got, res.Item["itemId"].(string))
		}

		require.Len(t, got, 7)
		require.Equal(t, "item-00", got[0])
		require.Equal(t, "item-06", got[6])
		require.Equal(t, 3, store.CallCount("Scan"))
		require.Len(t, progress, 3)
		require.Equal(t, int64(7), progress[2].ItemsProcessed)
	})

	t.Run("PageSizeOption", func(t *testing.T) {
		store := seeded(4, 0)
		records, err := datastore.ScanAll(ctx, store, storagemodels.WithPageSize(1))
		require.NoError(t, err)
		require.Len(t, records, 4)
		// four full pages, then an empty one without cursor
		require.Equal(t, 5, store.CallCount("Scan"))
	})

	t.Run("EmptyTable", func(t *testing.T) {
		store := seeded(0, 10)
		records, err := datastore.ScanAll(ctx, store)
		require.NoError(t, err)
		require.NotNil(t, records)
		require.Empty(t, records)
	})

	t.Run("ScanError", func(t *testing.T) {
		denied := stderrors.New("AccessDenied")
		store := seeded(5, 2).FailScanAt(2, denied)

		_, err := datastore.ScanAll(ctx, store)
		require.ErrorIs(t, err, denied)
	})

	t.Run("Cancelled", func(t *testing.T) {
		store := seeded(5, 1)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := datastore.ScanAll(cctx, store)
		require.ErrorIs(t, err, context.Canceled)
	})
}
