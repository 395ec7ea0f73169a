/*
Package storagemodels defines the data structures shared by the store, the
sweeper and the request handlers.

Key Types:

Record:
An opaque attribute map with one designated primary-key attribute whose name
comes from configuration:

	rec := Record{"itemId": "42", "title": "hello"}

Page and Cursor:
One scan call returns a Page. Its NextCursor is DynamoDB's LastEvaluatedKey;
a nil cursor passed in starts at the head of the table, a nil cursor returned
means there are no further pages:

	page, err := store.Scan(ctx, &ScanParams{Cursor: prev.NextCursor, Limit: 25})

StreamResult:
Records from Stream, with metadata:

	for res := range datastore.Stream(ctx, store, WithPageSize(100)) {
	    if res.Error != nil { ... }
	}
*/
package storagemodels
