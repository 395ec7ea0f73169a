/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package canary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"github.com/suparena/itemsapi/datastore/mock"
	"github.com/suparena/itemsapi/handlers"
	"github.com/suparena/itemsapi/server"
	"github.com/suparena/itemsapi/sweep"
)

func newAPI(t *testing.T, store *mock.DataStore) *httptest.Server {
	t.Helper()
	h := handlers.New(store, sweep.New(store, nil), nil)
	ts := httptest.NewServer(server.New(h, "", nil).Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestProbe(t *testing.T) {
	store := mock.New("items", "itemId")
	ts := newAPI(t, store)

	report, err := New(nil).Probe(context.Background(), ts.URL+"/")
	require.NoError(t, err)
	require.True(t, report.OK())
	require.NotEmpty(t, report.ItemID)
	require.Equal(t, ts.URL, report.BaseURL)
	require.WithinDuration(t, time.Now(), time.Time(report.StartedAt), time.Minute)

	names := make([]string, 0, len(report.Steps))
	for _, s := range report.Steps {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"create", "get-all", "get-one", "update", "get-updated", "delete", "get-deleted"}, names)
	require.Equal(t, 0, store.Count(), "the probe cleans up after itself")
}

func TestProbeFailure(t *testing.T) {
	t.Run("CreateRejected", func(t *testing.T) {
		store := mock.New("items", "itemId").WithPutError(context.DeadlineExceeded)
		ts := newAPI(t, store)

		report, err := New(nil).Probe(context.Background(), ts.URL)
		require.Error(t, err)
		require.Contains(t, err.Error(), "create")
		require.False(t, report.OK())
		require.Len(t, report.Steps, 1)
		require.Equal(t, http.StatusInternalServerError, report.Steps[0].Status)
	})

	t.Run("DeleteIgnored", func(t *testing.T) {
		// an API whose delete reports success without removing the item
		store := mock.New("items", "itemId")
		h := handlers.New(store, sweep.New(store, nil), nil)
		api := server.New(h, "", nil).Router()
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				w.WriteHeader(http.StatusOK)
				return
			}
			api.ServeHTTP(w, r)
		}))
		t.Cleanup(ts.Close)

		report, err := New(nil).Probe(context.Background(), ts.URL)
		require.Error(t, err)
		require.Contains(t, err.Error(), "get-deleted")
		require.False(t, report.OK())
		last := report.Steps[len(report.Steps)-1]
		require.Equal(t, http.StatusOK, last.Status)
		require.Equal(t, http.StatusNotFound, last.Want)
	})

	t.Run("Unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		_, err := New(nil, WithHTTPClient(&http.Client{Timeout: time.Second})).Probe(context.Background(), ts.URL)
		require.Error(t, err)
	})
}

func TestHandler(t *testing.T) {
	_, err := New(nil).Handler("")(context.Background(), events.CloudWatchEvent{})
	require.Error(t, err)

	ts := newAPI(t, mock.New("items", "itemId"))
	report, err := New(nil).Handler(ts.URL)(context.Background(), events.CloudWatchEvent{})
	require.NoError(t, err)
	require.True(t, report.OK())
}
