/*
Package itemsapi is a DynamoDB-backed items API served by Lambda functions.

The root package wires one process: it resolves configuration, builds the
DynamoDB client and store once, and shares them between the request handlers,
the bulk-delete sweeper and the canary.

Packages:
  - config: environment and .env resolution
  - datastore: the KeyValueStore contract, paged streaming, and its DynamoDB
    (datastore/ddb) and in-memory (datastore/mock) implementations
  - sweep: deletes every record of a table page by page
  - handlers: API Gateway proxy handlers for the /items routes
  - registry: handler lookup by name for the single Lambda binary
  - canary: synthetic monitor exercising every route
  - server: local HTTP adapter for the handlers
  - stack: CloudFormation template for the deployment

Basic Usage:

	cfg, _ := config.Load()
	app, err := itemsapi.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	result := app.Sweeper.Sweep(ctx)

For more information, see the documentation at https://github.com/suparena/itemsapi
*/
package itemsapi
