/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory, paged implementation of datastore.KeyValueStore for testing
package mock

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/itemsapi/errors"
	"github.com/suparena/itemsapi/storagemodels"
)

const seqAttr = "__seq"

// Call is one store call as observed by the mock
type Call struct {
	Op  string // "Scan", "Get", "Put", "Update" or "Delete"
	Key string // primary-key value for keyed calls
}

type entry struct {
	seq    int64
	key    string
	record storagemodels.Record
}

// DataStore is a mock implementation of datastore.KeyValueStore for testing.
// Records are scanned in insertion order and pages behave like DynamoDB:
// a full page carries a cursor even when nothing follows it.
type DataStore struct {
	mu         sync.Mutex
	table      string
	primaryKey string
	pageSize   int32
	nextSeq    int64
	entries    []*entry
	byKey      map[string]*entry

	calls       []Call
	scanCalls   int
	deleteCalls int
	inFlight    int
	maxInFlight int
	deleteDelay time.Duration

	scanErrors   map[int]error
	deleteErrors map[int]error
	scanError    error
	deleteError  error
	putError     error
	getError     error
	updateError  error
}

// New creates a new mock DataStore bound to table and primaryKey
func New(table, primaryKey string) *DataStore {
	return &DataStore{
		table:        table,
		primaryKey:   primaryKey,
		byKey:        make(map[string]*entry),
		scanErrors:   make(map[int]error),
		deleteErrors: make(map[int]error),
	}
}

// WithPageSize caps every scan page at size records unless the caller asks for a smaller limit
func (m *DataStore) WithPageSize(size int32) *DataStore {
	m.pageSize = size
	return m
}

// WithScanError makes every Scan return err
func (m *DataStore) WithScanError(err error) *DataStore {
	m.scanError = err
	return m
}

// WithDeleteError makes every Delete return err
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.deleteError = err
	return m
}

// WithPutError makes Put return err
func (m *DataStore) WithPutError(err error) *DataStore {
	m.putError = err
	return m
}

// WithGetError makes Get return err
func (m *DataStore) WithGetError(err error) *DataStore {
	m.getError = err
	return m
}

// WithUpdateError makes Update return err
func (m *DataStore) WithUpdateError(err error) *DataStore {
	m.updateError = err
	return m
}

// FailScanAt makes the n-th Scan call (1-based) return err
func (m *DataStore) FailScanAt(n int, err error) *DataStore {
	m.scanErrors[n] = err
	return m
}

// FailDeleteAt makes the n-th Delete call (1-based) return err
func (m *DataStore) FailDeleteAt(n int, err error) *DataStore {
	m.deleteErrors[n] = err
	return m
}

// WithDeleteDelay holds every Delete for d, so overlapping deletes become observable
func (m *DataStore) WithDeleteDelay(d time.Duration) *DataStore {
	m.deleteDelay = d
	return m
}

// TableName returns the table name
func (m *DataStore) TableName() string { return m.table }

// PrimaryKey returns the partition-key attribute name
func (m *DataStore) PrimaryKey() string { return m.primaryKey }

// Scan returns the records stored after params.Cursor in insertion order
func (m *DataStore) Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scanCalls++
	m.calls = append(m.calls, Call{Op: "Scan"})
	if err, ok := m.scanErrors[m.scanCalls]; ok {
		return storagemodels.Page{}, errors.NewStoreError("Scan", m.table, err)
	}
	if m.scanError != nil {
		return storagemodels.Page{}, errors.NewStoreError("Scan", m.table, m.scanError)
	}
	if err := ctx.Err(); err != nil {
		return storagemodels.Page{}, err
	}

	var after int64 = -1
	limit := m.pageSize
	if params != nil {
		if params.Cursor != nil {
			seq, err := cursorSeq(params.Cursor)
			if err != nil {
				return storagemodels.Page{}, errors.NewStoreError("Scan", m.table, err)
			}
			after = seq
		}
		if params.Limit > 0 && (limit == 0 || params.Limit < limit) {
			limit = params.Limit
		}
	}

	var page storagemodels.Page
	for _, e := range m.entries {
		if e.seq <= after {
			continue
		}
		page.Items = append(page.Items, copyRecord(e.record))
		page.ScannedCount++
		if limit > 0 && page.ScannedCount == limit {
			page.NextCursor = storagemodels.Cursor{
				m.primaryKey: &types.AttributeValueMemberS{Value: e.key},
				seqAttr:      &types.AttributeValueMemberN{Value: strconv.FormatInt(e.seq, 10)},
			}
			break
		}
	}
	return page, nil
}

// Get retrieves a record by primary-key value
func (m *DataStore) Get(ctx context.Context, key interface{}) (storagemodels.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := fmt.Sprint(key)
	m.calls = append(m.calls, Call{Op: "Get", Key: k})
	if m.getError != nil {
		return nil, errors.NewStoreError("GetItem", m.table, m.getError)
	}
	e, ok := m.byKey[k]
	if !ok {
		return nil, errors.NewNotFoundError(m.table, k)
	}
	return copyRecord(e.record), nil
}

// Put stores a record under its primary-key value
func (m *DataStore) Put(ctx context.Context, record storagemodels.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := record[m.primaryKey]
	if !ok || v == nil || fmt.Sprint(v) == "" {
		return errors.NewValidationError(m.primaryKey, "primary key attribute is required")
	}
	k := fmt.Sprint(v)
	m.calls = append(m.calls, Call{Op: "Put", Key: k})
	if m.putError != nil {
		return errors.NewStoreError("PutItem", m.table, m.putError)
	}
	m.store(k, copyRecord(record))
	return nil
}

// Update applies params.Attributes to an existing or new record
func (m *DataStore) Update(ctx context.Context, params *storagemodels.UpdateParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := fmt.Sprint(params.Key)
	m.calls = append(m.calls, Call{Op: "Update", Key: k})
	if m.updateError != nil {
		return errors.NewStoreError("UpdateItem", m.table, m.updateError)
	}
	if len(params.Attributes) == 0 {
		return errors.NewValidationError("", "no updates provided")
	}

	e, ok := m.byKey[k]
	if !ok {
		if params.RequireExisting {
			return errors.NewConditionFailedError("update", "attribute_exists("+m.primaryKey+")")
		}
		e = m.store(k, storagemodels.Record{m.primaryKey: params.Key})
	}
	for name, value := range params.Attributes {
		if name == m.primaryKey {
			continue
		}
		e.record[name] = value
	}
	return nil
}

// Delete removes a record by primary-key value; absent keys succeed
func (m *DataStore) Delete(ctx context.Context, key interface{}) error {
	k := fmt.Sprint(key)

	m.mu.Lock()
	m.deleteCalls++
	n := m.deleteCalls
	m.calls = append(m.calls, Call{Op: "Delete", Key: k})
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	delay := m.deleteDelay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--

	if err, ok := m.deleteErrors[n]; ok {
		return errors.NewStoreError("DeleteItem", m.table, err)
	}
	if m.deleteError != nil {
		return errors.NewStoreError("DeleteItem", m.table, m.deleteError)
	}
	m.remove(k)
	return nil
}

// Helper methods for testing

// SetRecords replaces the table contents; records keep the given order.
// A record without the primary-key attribute is stored anyway, which lets tests
// reproduce a table that violates the key invariant.
func (m *DataStore) SetRecords(records ...storagemodels.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	m.byKey = make(map[string]*entry)
	for i, r := range records {
		k := fmt.Sprintf("__nokey_%d", i)
		if v, ok := r[m.primaryKey]; ok && v != nil {
			k = fmt.Sprint(v)
		}
		m.store(k, copyRecord(r))
	}
}

// Keys returns the primary-key values currently stored, in scan order
func (m *DataStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Count returns the number of stored records
func (m *DataStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Calls returns every call observed so far, in order
func (m *DataStore) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many calls of op were observed
func (m *DataStore) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// MaxConcurrentDeletes returns the highest number of Delete calls observed in flight at once
func (m *DataStore) MaxConcurrentDeletes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// ResetCalls clears the call log and the fault counters
func (m *DataStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.scanCalls = 0
	m.deleteCalls = 0
	m.maxInFlight = 0
}

func (m *DataStore) store(k string, r storagemodels.Record) *entry {
	if e, ok := m.byKey[k]; ok {
		e.record = r
		return e
	}
	e := &entry{seq: m.nextSeq, key: k, record: r}
	m.nextSeq++
	m.entries = append(m.entries, e)
	m.byKey[k] = e
	return e
}

func (m *DataStore) remove(k string) {
	if _, ok := m.byKey[k]; !ok {
		return
	}
	delete(m.byKey, k)
	for i, e := range m.entries {
		if e.key == k {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

func cursorSeq(c storagemodels.Cursor) (int64, error) {
	n, ok := c[seqAttr].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("cursor was not issued by this store")
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func copyRecord(r storagemodels.Record) storagemodels.Record {
	out := make(storagemodels.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
