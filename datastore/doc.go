/*
Package datastore defines the storage contract used by the items service.

The main interface is KeyValueStore, one table addressed by a single
partition-key attribute whose name is configuration:

	type KeyValueStore interface {
	    Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Page, error)
	    Get(ctx context.Context, key interface{}) (storagemodels.Record, error)
	    Put(ctx context.Context, record storagemodels.Record) error
	    Update(ctx context.Context, params *storagemodels.UpdateParams) error
	    Delete(ctx context.Context, key interface{}) error
	    TableName() string
	    PrimaryKey() string
	}

Implementations:
  - ddb: DynamoDB implementation over aws-sdk-go-v2
  - mock: In-memory paged implementation with fault injection for testing

Stream and ScanAll walk every page of a store from the head of the table.
*/
package datastore
