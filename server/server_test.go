/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suparena/itemsapi/datastore/mock"
	"github.com/suparena/itemsapi/handlers"
	"github.com/suparena/itemsapi/storagemodels"
	"github.com/suparena/itemsapi/sweep"
)

func newTestServer(t *testing.T, store *mock.DataStore) *httptest.Server {
	t.Helper()
	h := handlers.New(store, sweep.New(store, nil), nil, handlers.WithIDGenerator(func() string { return "new" }))
	ts := httptest.NewServer(New(h, "", nil).Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestRoutes(t *testing.T) {
	store := mock.New("items", "itemId")
	store.SetRecords(storagemodels.Record{"itemId": "1", "title": "one"})
	ts := newTestServer(t, store)

	resp, body := do(t, http.MethodGet, ts.URL+"/items", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[{"itemId":"1","title":"one"}]`, body)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body = do(t, http.MethodPost, ts.URL+"/items", `{"title":"two"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.Equal(t, "new", created["itemId"])

	resp, _ = do(t, http.MethodPatch, ts.URL+"/items/new", `{"title":"changed"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/items/new", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"itemId":"new","title":"changed"}`, body)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/items/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"new"}, store.Keys())

	resp, _ = do(t, http.MethodDelete, ts.URL+"/items", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, store.Count())

	resp, _ = do(t, http.MethodGet, ts.URL+"/items/new", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t, mock.New("items", "itemId"))

	for _, path := range []string{"/items", "/items/abc"} {
		resp, _ := do(t, http.MethodOptions, ts.URL+path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Equal(t, handlers.CORSHeaders["Access-Control-Allow-Methods"], resp.Header.Get("Access-Control-Allow-Methods"))
	}
}
