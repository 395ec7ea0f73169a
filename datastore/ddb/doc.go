/*
Package ddb provides a DynamoDB implementation of datastore.KeyValueStore.

The Store is bound to one table and one partition-key attribute, both supplied
as configuration:

	client, err := ddb.NewClient(ctx, ddb.ClientOptions{Region: "us-west-2"})
	store := ddb.NewStore(client, "items", "itemId", logger)

	page, err := store.Scan(ctx, &storagemodels.ScanParams{Limit: 100})
	for _, rec := range page.Items {
	    _ = store.Delete(ctx, rec["itemId"])
	}

The client is created once per process and shared by every invocation; the
Store only holds it. Records are converted with attributevalue, so numbers come
back as float64 and the cursor of a page is the raw LastEvaluatedKey.

Every SDK failure is wrapped in errors.StoreError; conditional update failures
additionally match errors.ErrConditionFailed.
*/
package ddb
