/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/itemsapi/storagemodels"
)

// KeyValueStore is one table addressed by a single partition-key attribute.
type KeyValueStore interface {
	// Scan returns one page of records starting after params.Cursor.
	Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Page, error)

	// Get returns the record with the given primary-key value, or a NotFoundError.
	Get(ctx context.Context, key interface{}) (storagemodels.Record, error)

	// Put writes the record, replacing any record under the same key.
	Put(ctx context.Context, record storagemodels.Record) error

	// Update applies a partial SET update to one record.
	Update(ctx context.Context, params *storagemodels.UpdateParams) error

	// Delete removes the record with the given primary-key value.
	// Deleting an absent key succeeds.
	Delete(ctx context.Context, key interface{}) error

	// TableName is the table the store is bound to.
	TableName() string

	// PrimaryKey is the name of the partition-key attribute.
	PrimaryKey() string
}
