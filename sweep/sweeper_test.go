/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sweep_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/suparena/itemsapi/datastore/mock"
	"github.com/suparena/itemsapi/errors"
	"github.com/suparena/itemsapi/storagemodels"
	"github.com/suparena/itemsapi/sweep"
)

func newTable(n int, pageSize int32) *mock.DataStore {
	store := mock.New("items", "itemId").WithPageSize(pageSize)
	records := make([]storagemodels.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, storagemodels.Record{"itemId": fmt.Sprintf("k%d", i), "n": i})
	}
	store.SetRecords(records...)
	return store
}

func ops(calls []mock.Call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		if c.Op == "Delete" {
			out = append(out, "D:"+c.Key)
		} else {
			out = append(out, c.Op)
		}
	}
	return out
}

func TestSweepSinglePage(t *testing.T) {
	store := mock.New("items", "itemId")
	store.SetRecords(
		storagemodels.Record{"itemId": "a"},
		storagemodels.Record{"itemId": "b"},
		storagemodels.Record{"itemId": "c"},
	)

	result := sweep.New(store, nil).Sweep(context.Background())
	if !result.OK() {
		t.Fatalf("sweep failed: %v", result.Err)
	}

	want := []string{"Scan", "D:a", "D:b", "D:c", "Scan"}
	if got := ops(store.Calls()); !reflect.DeepEqual(got, want) {
		t.Fatalf("call sequence mismatch\n got: %v\nwant: %v", got, want)
	}
	if store.Count() != 0 {
		t.Fatalf("table not drained: %v", store.Keys())
	}
	if result.ItemsDeleted != 3 || result.Scans != 2 || result.Pages != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSweepEmptyTable(t *testing.T) {
	store := newTable(0, 10)

	result := sweep.New(store, nil).Sweep(context.Background())
	if !result.OK() {
		t.Fatalf("sweep failed: %v", result.Err)
	}
	if store.CallCount("Scan") != 1 || store.CallCount("Delete") != 0 {
		t.Fatalf("expected one scan and no deletes, got %v", ops(store.Calls()))
	}

	// re-invoking on an already empty table is a no-op
	result = sweep.New(store, nil).Sweep(context.Background())
	if !result.OK() || store.CallCount("Delete") != 0 {
		t.Fatalf("second sweep should be a no-op, got %+v", result)
	}
}

func TestSweepManyPages(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		pageSize  int32
		wantScans int
	}{
		// the last page is full, so its cursor leads to an empty final page
		{name: "ExactMultiple", items: 4, pageSize: 2, wantScans: 3},
		// the last page is short and has no cursor, so the head is scanned once more
		{name: "ShortLastPage", items: 7, pageSize: 3, wantScans: 4},
		{name: "OnePerPage", items: 3, pageSize: 1, wantScans: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTable(tt.items, tt.pageSize)

			result := sweep.New(store, nil).Sweep(context.Background())
			if !result.OK() {
				t.Fatalf("sweep failed: %v", result.Err)
			}
			if store.Count() != 0 {
				t.Fatalf("table not drained: %v", store.Keys())
			}
			if got := store.CallCount("Scan"); got != tt.wantScans {
				t.Fatalf("expected %d scans, got %d: %v", tt.wantScans, got, ops(store.Calls()))
			}
			if got := store.CallCount("Delete"); got != tt.items {
				t.Fatalf("expected %d deletes, got %d", tt.items, got)
			}

			// deletes follow scan order and every page's deletes finish before the next scan
			next := 0
			sincePageStart := 0
			for _, c := range store.Calls() {
				switch c.Op {
				case "Scan":
					if sincePageStart > int(tt.pageSize) {
						t.Fatalf("page of %d deletes exceeds page size %d", sincePageStart, tt.pageSize)
					}
					sincePageStart = 0
				case "Delete":
					if want := fmt.Sprintf("k%d", next); c.Key != want {
						t.Fatalf("expected delete of %s, got %s", want, c.Key)
					}
					next++
					sincePageStart++
				}
			}
		})
	}
}

func TestSweepDeleteFailure(t *testing.T) {
	throttled := &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}
	store := newTable(5, 2).FailDeleteAt(3, throttled)

	result := sweep.New(store, nil).Sweep(context.Background())
	if result.OK() {
		t.Fatal("sweep should fail")
	}
	if !errors.IsStoreUnavailable(result.Err) {
		t.Fatalf("expected store error, got %v", result.Err)
	}
	var apiErr smithy.APIError
	if !stderrors.As(result.Err, &apiErr) || apiErr.ErrorCode() != "ProvisionedThroughputExceededException" {
		t.Fatalf("expected the injected error to surface verbatim, got %v", result.Err)
	}

	want := []string{"Scan", "D:k0", "D:k1", "Scan", "D:k2"}
	if got := ops(store.Calls()); !reflect.DeepEqual(got, want) {
		t.Fatalf("call sequence mismatch\n got: %v\nwant: %v", got, want)
	}
	if result.ItemsDeleted != 2 {
		t.Fatalf("expected 2 deletes before the failure, got %d", result.ItemsDeleted)
	}
	if got := store.Keys(); !reflect.DeepEqual(got, []string{"k2", "k3", "k4"}) {
		t.Fatalf("deleted items must stay deleted, remaining %v", got)
	}

	t.Run("ResumeByReinvocation", func(t *testing.T) {
		result := sweep.New(store, nil).Sweep(context.Background())
		if !result.OK() {
			t.Fatalf("resumed sweep failed: %v", result.Err)
		}
		if store.Count() != 0 {
			t.Fatalf("table not drained: %v", store.Keys())
		}
		if result.ItemsDeleted != 3 {
			t.Fatalf("expected the 3 remaining items to be deleted, got %d", result.ItemsDeleted)
		}
	})
}

func TestSweepScanFailure(t *testing.T) {
	denied := &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized to perform dynamodb:Scan"}
	store := newTable(3, 0).WithScanError(denied)

	result := sweep.New(store, nil).Sweep(context.Background())
	if result.OK() {
		t.Fatal("sweep should fail")
	}
	if store.CallCount("Delete") != 0 {
		t.Fatalf("no deletes expected, got %v", ops(store.Calls()))
	}
	if body := errors.Serialize(result.Err); !strings.Contains(body, "AccessDeniedException") {
		t.Fatalf("serialized error should carry the code, got %s", body)
	}
}

func TestSweepMissingPrimaryKey(t *testing.T) {
	store := mock.New("items", "itemId")
	store.SetRecords(
		storagemodels.Record{"itemId": "a"},
		storagemodels.Record{"title": "orphan"},
		storagemodels.Record{"itemId": "c"},
	)

	result := sweep.New(store, nil).Sweep(context.Background())
	if !stderrors.Is(result.Err, errors.ErrMissingPrimaryKey) {
		t.Fatalf("expected missing primary key error, got %v", result.Err)
	}
	if got := ops(store.Calls()); !reflect.DeepEqual(got, []string{"Scan", "D:a"}) {
		t.Fatalf("sweep should stop at the bad record, got %v", got)
	}
}

func TestSweepConcurrent(t *testing.T) {
	t.Run("Bounded", func(t *testing.T) {
		store := newTable(12, 6).WithDeleteDelay(5 * time.Millisecond)

		result := sweep.New(store, nil, storagemodels.WithConcurrency(3)).Sweep(context.Background())
		if !result.OK() {
			t.Fatalf("sweep failed: %v", result.Err)
		}
		if store.Count() != 0 || result.ItemsDeleted != 12 {
			t.Fatalf("table not drained: %v (%d deleted)", store.Keys(), result.ItemsDeleted)
		}
		if max := store.MaxConcurrentDeletes(); max > 3 || max < 2 {
			t.Fatalf("expected between 2 and 3 deletes in flight, saw %d", max)
		}

		// a page's deletes all complete before the next scan
		deletesSinceScan := 0
		for _, c := range store.Calls() {
			if c.Op == "Scan" {
				if deletesSinceScan != 0 && deletesSinceScan != 6 {
					t.Fatalf("scan issued after %d of 6 deletes", deletesSinceScan)
				}
				deletesSinceScan = 0
				continue
			}
			deletesSinceScan++
		}
	})

	t.Run("FirstErrorAborts", func(t *testing.T) {
		boom := stderrors.New("boom")
		store := newTable(8, 4).FailDeleteAt(1, boom)

		result := sweep.New(store, nil, storagemodels.WithConcurrency(2)).Sweep(context.Background())
		if !stderrors.Is(result.Err, boom) {
			t.Fatalf("expected injected error, got %v", result.Err)
		}
		if store.CallCount("Scan") != 1 {
			t.Fatalf("no further page may be scanned after a failure, got %v", ops(store.Calls()))
		}
		if store.Count() < 4 {
			t.Fatalf("the second page must be untouched, remaining %v", store.Keys())
		}
	})
}

func TestSweepCancelled(t *testing.T) {
	store := newTable(3, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := sweep.New(store, nil).Sweep(ctx)
	if !stderrors.Is(result.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", result.Err)
	}
	if len(store.Calls()) != 0 {
		t.Fatalf("no store calls expected, got %v", ops(store.Calls()))
	}
}

func TestSweepProgress(t *testing.T) {
	store := newTable(5, 2)

	var seen []storagemodels.SweepProgress
	result := sweep.New(store, nil,
		storagemodels.WithSweepPageSize(2),
		storagemodels.WithSweepProgressHandler(func(p storagemodels.SweepProgress) {
			seen = append(seen, p)
		}),
	).Sweep(context.Background())
	if !result.OK() {
		t.Fatalf("sweep failed: %v", result.Err)
	}
	if len(seen) != 3 {
		t.Fatalf("expected progress for 3 pages, got %d", len(seen))
	}
	if last := seen[len(seen)-1]; last.ItemsDeleted != 5 || last.LastPageSize != 1 {
		t.Fatalf("unexpected final progress %+v", last)
	}
}

// scriptedStore replays a fixed sequence of scan pages.
type scriptedStore struct {
	*mock.DataStore
	pages []storagemodels.Page
	seen  []storagemodels.Cursor
}

func (s *scriptedStore) Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Page, error) {
	s.seen = append(s.seen, params.Cursor)
	if len(s.pages) == 0 {
		return storagemodels.Page{}, nil
	}
	p := s.pages[0]
	s.pages = s.pages[1:]
	return p, nil
}

func TestSweepEmptyPageWithCursor(t *testing.T) {
	resume := storagemodels.Cursor{"itemId": &types.AttributeValueMemberS{Value: "x"}}
	store := &scriptedStore{
		DataStore: mock.New("items", "itemId"),
		pages: []storagemodels.Page{
			{Items: []storagemodels.Record{}, NextCursor: resume},
			{Items: []storagemodels.Record{{"itemId": "y"}}, ScannedCount: 1},
			{Items: nil},
		},
	}

	result := sweep.New(store, nil).Sweep(context.Background())
	if !result.OK() {
		t.Fatalf("sweep failed: %v", result.Err)
	}
	if len(store.seen) != 3 {
		t.Fatalf("expected 3 scans, got %d", len(store.seen))
	}
	if store.seen[0] != nil || !reflect.DeepEqual(store.seen[1], resume) || store.seen[2] != nil {
		t.Fatalf("unexpected cursors %v", store.seen)
	}
	if result.ItemsDeleted != 1 || store.CallCount("Delete") != 1 {
		t.Fatalf("expected one delete, got %+v", result)
	}
}
