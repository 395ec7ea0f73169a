/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	itemerrors "github.com/suparena/itemsapi/errors"
	"github.com/suparena/itemsapi/storagemodels"
)

// API is the subset of the DynamoDB client the store calls.
type API interface {
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

var _ API = (*sdk.Client)(nil)

// ClientOptions selects the region, credentials and endpoint of the DynamoDB client.
type ClientOptions struct {
	Region string
	// AccessKey and SecretKey switch to static credentials when both are set;
	// otherwise the default credential chain (Lambda role, profile, env) is used.
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. DynamoDB Local.
	Endpoint string
}

// NewClient initializes a DynamoDB client. It is meant to be called once per process.
func NewClient(ctx context.Context, opts ClientOptions) (*sdk.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return client, nil
}

// Store implements datastore.KeyValueStore on one DynamoDB table with a single partition key.
type Store struct {
	client     API
	tableName  string
	primaryKey string
	logger     *zap.Logger
}

// NewStore binds client to tableName and primaryKey. Neither name is validated here;
// an empty name surfaces as a ValidationException from the first call.
func NewStore(client API, tableName, primaryKey string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:     client,
		tableName:  tableName,
		primaryKey: primaryKey,
		logger:     logger.With(zap.String("table", tableName)),
	}
}

// TableName returns the bound table name.
func (d *Store) TableName() string { return d.tableName }

// PrimaryKey returns the partition-key attribute name.
func (d *Store) PrimaryKey() string { return d.primaryKey }

// Scan reads one page of the table.
func (d *Store) Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Page, error) {
	input := &sdk.ScanInput{
		TableName: aws.String(d.tableName),
	}
	if params != nil {
		if len(params.Cursor) > 0 {
			input.ExclusiveStartKey = params.Cursor
		}
		if params.Limit > 0 {
			input.Limit = aws.Int32(params.Limit)
		}
	}

	out, err := d.client.Scan(ctx, input)
	if err != nil {
		return storagemodels.Page{}, itemerrors.NewStoreError("Scan", d.tableName, err)
	}

	page := storagemodels.Page{
		ScannedCount: out.ScannedCount,
	}
	if len(out.LastEvaluatedKey) > 0 {
		page.NextCursor = out.LastEvaluatedKey
	}
	if out.Items != nil {
		page.Items = make([]storagemodels.Record, 0, len(out.Items))
		for _, item := range out.Items {
			rec, err := unmarshalRecord(item)
			if err != nil {
				return storagemodels.Page{}, err
			}
			page.Items = append(page.Items, rec)
		}
	}

	d.logger.Debug("scanned page",
		zap.Int("items", len(page.Items)),
		zap.Int32("scannedCount", page.ScannedCount),
		zap.Bool("more", page.More()))
	return page, nil
}

// Get retrieves a single record by primary-key value.
func (d *Store) Get(ctx context.Context, key interface{}) (storagemodels.Record, error) {
	keyMap, err := d.buildKey(key)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       keyMap,
	})
	if err != nil {
		return nil, itemerrors.NewStoreError("GetItem", d.tableName, err)
	}
	if out.Item == nil {
		return nil, itemerrors.NewNotFoundError(d.tableName, fmt.Sprint(key))
	}
	return unmarshalRecord(out.Item)
}

// Put writes record, replacing any record under the same key.
func (d *Store) Put(ctx context.Context, record storagemodels.Record) error {
	av, err := marshalRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      av,
	})
	if err != nil {
		return itemerrors.NewStoreError("PutItem", d.tableName, err)
	}
	return nil
}

// Update applies a SET update over every attribute in params except the primary key.
func (d *Store) Update(ctx context.Context, params *storagemodels.UpdateParams) error {
	keyMap, err := d.buildKey(params.Key)
	if err != nil {
		return err
	}

	updateExpr, names, values, err := buildUpdateExpression(params.Attributes, d.primaryKey)
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &sdk.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       keyMap,
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueUpdatedNew,
	}
	if params.RequireExisting {
		input.ConditionExpression = aws.String("attribute_exists(#pk)")
		names["#pk"] = d.primaryKey
	}

	_, err = d.client.UpdateItem(ctx, input)
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("%w: %w",
				itemerrors.NewConditionFailedError("update", aws.ToString(input.ConditionExpression)), err)
		}
		return itemerrors.NewStoreError("UpdateItem", d.tableName, err)
	}
	return nil
}

// Delete removes a record by primary-key value.
func (d *Store) Delete(ctx context.Context, key interface{}) error {
	keyMap, err := d.buildKey(key)
	if err != nil {
		return err
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       keyMap,
	})
	if err != nil {
		return itemerrors.NewStoreError("DeleteItem", d.tableName, err)
	}
	return nil
}

func (d *Store) buildKey(key interface{}) (map[string]types.AttributeValue, error) {
	av, err := marshalValue(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}
	return map[string]types.AttributeValue{d.primaryKey: av}, nil
}

// buildUpdateExpression transforms a map of field->value into:
//   - an "update expression" (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// Fields are numbered in sorted order and the key attribute is skipped.
func buildUpdateExpression(updates storagemodels.Record, primaryKey string) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	fields := make([]string, 0, len(updates))
	for field := range updates {
		if field == primaryKey {
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return "", nil, nil, itemerrors.NewValidationError("", "no updates provided")
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields))
	exprAttrNames := make(map[string]string, len(fields)+1)
	exprAttrValues := make(map[string]types.AttributeValue, len(fields))

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		av, err := marshalValue(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("unhandled update value for field '%s': %w", field, err)
		}

		setClauses = append(setClauses, placeholderName+" = "+placeholderValue)
		exprAttrNames[placeholderName] = field
		exprAttrValues[placeholderValue] = av
	}

	return "SET " + strings.Join(setClauses, ", "), exprAttrNames, exprAttrValues, nil
}
