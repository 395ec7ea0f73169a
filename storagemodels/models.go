/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Record is one item of the table, attribute name to value.
// Values are the JSON-compatible shapes produced by attributevalue.UnmarshalMap.
type Record map[string]interface{}

// Cursor is the resume point returned after a scan page (DynamoDB's LastEvaluatedKey).
// A nil cursor means "start of table" when passed in and "end of table" when returned.
type Cursor map[string]types.AttributeValue

// Page is one bounded batch of records returned by a single scan call.
type Page struct {
	// Items is nil when the store response carried no items collection at all.
	Items []Record
	// ScannedCount is the number of items the store evaluated for this page.
	ScannedCount int32
	// NextCursor is nil when the store signals no further pages.
	NextCursor Cursor
}

// More reports whether the store returned a resume point after this page.
func (p Page) More() bool {
	return len(p.NextCursor) > 0
}

// Empty reports whether the page carried no records.
func (p Page) Empty() bool {
	return len(p.Items) == 0
}

// ScanParams defines parameters for a single scan page.
type ScanParams struct {
	// Cursor is the exclusive start key; nil starts at the head of the table.
	Cursor Cursor
	// Limit caps the number of items evaluated per page. Zero leaves it to the store.
	Limit int32
}

// UpdateParams describes a partial update of one item.
type UpdateParams struct {
	// Key is the primary-key value of the item to update.
	Key interface{}
	// Attributes are applied with SET; the primary-key attribute is never rewritten.
	Attributes Record
	// RequireExisting makes the update fail with a condition error when the item is absent.
	RequireExisting bool
}
