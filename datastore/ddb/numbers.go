/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/itemsapi/storagemodels"
)

// Records carry DynamoDB numbers as json.Number. The encoder writes json.Number
// back as N digit for digit, so a key read by Scan deletes the same item, and
// responses still render it as a JSON number.

func unmarshalRecord(item map[string]types.AttributeValue) (storagemodels.Record, error) {
	var m map[string]interface{}
	err := attributevalue.UnmarshalMapWithOptions(item, &m, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	for k, v := range m {
		m[k] = jsonNumbers(v)
	}
	return storagemodels.Record(m), nil
}

func marshalValue(v interface{}) (types.AttributeValue, error) {
	return attributevalue.Marshal(v)
}

func marshalRecord(record storagemodels.Record) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(map[string]interface{}(record))
}

func jsonNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case attributevalue.Number:
		return json.Number(t)
	case []attributevalue.Number:
		out := make([]json.Number, len(t))
		for i, n := range t {
			out[i] = json.Number(n)
		}
		return out
	case map[string]interface{}:
		for k, e := range t {
			t[k] = jsonNumbers(e)
		}
	case []interface{}:
		for i, e := range t {
			t[i] = jsonNumbers(e)
		}
	}
	return v
}
