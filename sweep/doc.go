/*
Package sweep implements the bulk delete of a table.

A Sweeper scans one bounded page at a time and deletes each record of the page
by its primary-key value before it scans the next page, so the table is never
loaded into memory:

	result := sweep.New(store, logger).Sweep(ctx)
	if !result.OK() {
	    return errors.Serialize(result.Err)
	}

Deletes are sequential unless WithConcurrency is given; even then no delete is
started after the first failure and no page is scanned before the previous
page's deletes have returned. A failed sweep is resumed by running it again.
*/
package sweep
