/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sweep

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/itemsapi/datastore"
	"github.com/suparena/itemsapi/errors"
	"github.com/suparena/itemsapi/storagemodels"
)

// Sweeper drains every record of the table its store is bound to.
type Sweeper struct {
	store   datastore.KeyValueStore
	logger  *zap.Logger
	options storagemodels.SweepOptions
}

// New creates a Sweeper over store. The store is shared, never owned.
func New(store datastore.KeyValueStore, logger *zap.Logger, opts ...storagemodels.SweepOption) *Sweeper {
	options := storagemodels.DefaultSweepOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		store:   store,
		logger:  logger.With(zap.String("table", store.TableName())),
		options: options,
	}
}

// Sweep scans the table page by page and deletes every record it finds.
//
// A page without a next cursor ends a pass over the table and the next scan
// starts again from the head; the sweep ends when a scan returns no records and
// no cursor. An empty page that still carries a cursor is skipped. The first
// scan or delete error aborts the sweep; records deleted before it stay deleted.
func (s *Sweeper) Sweep(ctx context.Context) storagemodels.SweepResult {
	var result storagemodels.SweepResult
	var cursor storagemodels.Cursor

	s.logger.Info("Starting delete all")

	for {
		if err := ctx.Err(); err != nil {
			return s.fail(result, err)
		}

		page, err := s.store.Scan(ctx, &storagemodels.ScanParams{
			Cursor: cursor,
			Limit:  s.options.PageSize,
		})
		result.Scans++
		if err != nil {
			return s.fail(result, err)
		}

		if page.Empty() {
			if !page.More() {
				break
			}
			cursor = page.NextCursor
			continue
		}

		s.logger.Info("Found more items to delete",
			zap.Int("count", len(page.Items)),
			zap.Int32("scannedCount", page.ScannedCount))

		deleted, err := s.deletePage(ctx, page.Items)
		result.ItemsDeleted += deleted
		if err != nil {
			return s.fail(result, err)
		}
		result.Pages++

		if s.options.ProgressHandler != nil {
			s.options.ProgressHandler(storagemodels.SweepProgress{
				PagesProcessed: result.Pages,
				ItemsDeleted:   result.ItemsDeleted,
				LastPageSize:   len(page.Items),
			})
		}

		// nil once the pass reaches the end of the table
		cursor = page.NextCursor
	}

	s.logger.Info("Finished delete all",
		zap.Int64("itemsDeleted", result.ItemsDeleted),
		zap.Int("pages", result.Pages),
		zap.Int("scans", result.Scans))
	return result
}

func (s *Sweeper) fail(result storagemodels.SweepResult, err error) storagemodels.SweepResult {
	result.Err = err
	s.logger.Error("delete all aborted",
		zap.Error(err),
		zap.Int64("itemsDeleted", result.ItemsDeleted),
		zap.Int("scans", result.Scans))
	return result
}

func (s *Sweeper) deletePage(ctx context.Context, items []storagemodels.Record) (int64, error) {
	if s.options.Concurrency <= 1 {
		return s.deleteSequential(ctx, items)
	}
	return s.deleteConcurrent(ctx, items)
}

func (s *Sweeper) deleteSequential(ctx context.Context, items []storagemodels.Record) (int64, error) {
	var deleted int64
	for _, item := range items {
		if err := s.deleteOne(ctx, item); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// deleteConcurrent keeps at most Concurrency deletes in flight and stops
// starting new ones after the first failure. It returns only after every
// started delete has finished.
func (s *Sweeper) deleteConcurrent(ctx context.Context, items []storagemodels.Record) (int64, error) {
	var deleted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.Concurrency)

	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		item := item
		g.Go(func() error {
			if err := s.deleteOne(gctx, item); err != nil {
				return err
			}
			deleted.Add(1)
			return nil
		})
	}

	err := g.Wait()
	return deleted.Load(), err
}

func (s *Sweeper) deleteOne(ctx context.Context, item storagemodels.Record) error {
	pk := s.store.PrimaryKey()
	key, ok := item[pk]
	if !ok || key == nil || key == "" {
		return errors.NewMissingPrimaryKeyError(pk)
	}

	s.logger.Debug("Deleting item", zap.Any("item", item))
	return s.store.Delete(ctx, key)
}
