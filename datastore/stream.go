/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/itemsapi/storagemodels"
)

// Stream walks every page of the table once, from its head to the last page,
// and emits each record on the returned channel. A scan error is sent as the
// final result. The channel is closed when the walk ends or ctx is done.
func Stream(ctx context.Context, store KeyValueStore, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult {
	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	resultCh := make(chan storagemodels.StreamResult, options.BufferSize)
	go streamWorker(ctx, store, options, resultCh)
	return resultCh
}

func streamWorker(
	ctx context.Context,
	store KeyValueStore,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult,
) {
	defer close(resultCh)

	var itemIndex int64
	var pageNumber int
	startTime := time.Now()

	reportProgress := func(last storagemodels.Cursor) {
		if options.ProgressHandler == nil {
			return
		}
		options.ProgressHandler(storagemodels.StreamProgress{
			ItemsProcessed: itemIndex,
			PagesProcessed: pageNumber,
			LastCursor:     last,
			StartTime:      startTime,
		})
	}

	params := &storagemodels.ScanParams{Limit: options.PageSize}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		page, err := store.Scan(ctx, params)
		if err != nil {
			select {
			case <-ctx.Done():
			case resultCh <- storagemodels.StreamResult{
				Error: fmt.Errorf("scan failed: %w", err),
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}:
			}
			return
		}
		pageNumber++

		for _, item := range page.Items {
			result := storagemodels.StreamResult{
				Item: item,
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}
			select {
			case <-ctx.Done():
				return
			case resultCh <- result:
			}
			itemIndex++
		}

		reportProgress(page.NextCursor)

		if !page.More() {
			return
		}
		params = &storagemodels.ScanParams{Cursor: page.NextCursor, Limit: options.PageSize}
	}
}

// ScanAll collects every record of the table into memory.
func ScanAll(ctx context.Context, store KeyValueStore, opts ...storagemodels.StreamOption) ([]storagemodels.Record, error) {
	records := make([]storagemodels.Record, 0)
	for res := range Stream(ctx, store, opts...) {
		if res.Error != nil {
			return nil, res.Error
		}
		records = append(records, res.Item)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
