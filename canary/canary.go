/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package canary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandlerName is the registry name of the scheduled probe.
const HandlerName = "canary"

const defaultTimeout = 10 * time.Second

// Step is the outcome of one request of a probe.
type Step struct {
	Name    string        `json:"name"`
	Method  string        `json:"method"`
	Path    string        `json:"path"`
	Want    int           `json:"want"`
	Status  int           `json:"status"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// OK reports whether the step got the status it expected.
func (s Step) OK() bool {
	return s.Error == "" && s.Status == s.Want
}

// Report summarises one probe run.
type Report struct {
	BaseURL   string          `json:"baseUrl"`
	ItemID    string          `json:"itemId,omitempty"`
	StartedAt strfmt.DateTime `json:"startedAt"`
	Duration  time.Duration   `json:"duration"`
	Steps     []Step          `json:"steps"`
}

// OK reports whether every step passed.
func (r Report) OK() bool {
	for _, s := range r.Steps {
		if !s.OK() {
			return false
		}
	}
	return len(r.Steps) > 0
}

// Client probes a deployed items API end to end.
type Client struct {
	http       *http.Client
	logger     *zap.Logger
	primaryKey string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 10s.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithPrimaryKey sets the attribute the API returns created ids under.
func WithPrimaryKey(name string) Option {
	return func(cl *Client) { cl.primaryKey = name }
}

// New creates a Client.
func New(logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		http:       &http.Client{Timeout: defaultTimeout},
		logger:     logger,
		primaryKey: "itemId",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe creates an item, reads it back through both read routes, updates it,
// deletes it and checks it is gone. The first failing step ends the probe;
// the returned report holds every step attempted.
func (c *Client) Probe(ctx context.Context, baseURL string) (Report, error) {
	start := time.Now()
	report := Report{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		StartedAt: strfmt.DateTime(start.UTC()),
	}
	logger := c.logger.With(zap.String("baseUrl", report.BaseURL))

	fail := func(step Step, err error) (Report, error) {
		report.Duration = time.Since(start)
		if n := len(report.Steps); n > 0 && report.Steps[n-1].Error == "" {
			report.Steps[n-1].Error = err.Error()
		}
		logger.Error("probe failed", zap.String("step", step.Name), zap.Int("status", step.Status), zap.Error(err))
		return report, fmt.Errorf("canary step %s: %w", step.Name, err)
	}

	title := "canary-" + uuid.NewString()
	updated := title + "-updated"

	var created map[string]interface{}
	step, err := c.do(ctx, &report, "create", http.MethodPost, "/items", map[string]interface{}{"title": title}, http.StatusCreated, &created)
	if err != nil {
		return fail(step, err)
	}
	id, _ := created[c.primaryKey].(string)
	if id == "" {
		return fail(step, fmt.Errorf("response has no %s", c.primaryKey))
	}
	report.ItemID = id
	itemPath := "/items/" + id

	var all []map[string]interface{}
	if step, err = c.do(ctx, &report, "get-all", http.MethodGet, "/items", nil, http.StatusOK, &all); err != nil {
		return fail(step, err)
	}
	if !containsID(all, c.primaryKey, id) {
		return fail(step, fmt.Errorf("item %s missing from listing", id))
	}

	var item map[string]interface{}
	if step, err = c.do(ctx, &report, "get-one", http.MethodGet, itemPath, nil, http.StatusOK, &item); err != nil {
		return fail(step, err)
	}
	if item["title"] != title {
		return fail(step, fmt.Errorf("title is %v, want %s", item["title"], title))
	}

	if step, err = c.do(ctx, &report, "update", http.MethodPatch, itemPath, map[string]interface{}{"title": updated}, http.StatusNoContent, nil); err != nil {
		return fail(step, err)
	}

	item = nil
	if step, err = c.do(ctx, &report, "get-updated", http.MethodGet, itemPath, nil, http.StatusOK, &item); err != nil {
		return fail(step, err)
	}
	if item["title"] != updated {
		return fail(step, fmt.Errorf("title is %v, want %s", item["title"], updated))
	}

	if step, err = c.do(ctx, &report, "delete", http.MethodDelete, itemPath, nil, http.StatusOK, nil); err != nil {
		return fail(step, err)
	}

	if step, err = c.do(ctx, &report, "get-deleted", http.MethodGet, itemPath, nil, http.StatusNotFound, nil); err != nil {
		return fail(step, err)
	}

	report.Duration = time.Since(start)
	logger.Info("probe passed", zap.String("itemId", id), zap.Duration("duration", report.Duration))
	return report, nil
}

// Handler returns the scheduled-event entry point probing baseURL.
func (c *Client) Handler(baseURL string) func(context.Context, events.CloudWatchEvent) (Report, error) {
	return func(ctx context.Context, _ events.CloudWatchEvent) (Report, error) {
		if baseURL == "" {
			return Report{}, fmt.Errorf("canary: API base URL is not configured")
		}
		return c.Probe(ctx, baseURL)
	}
}

func (c *Client) do(ctx context.Context, report *Report, name, method, path string, body interface{}, want int, out interface{}) (Step, error) {
	step := Step{Name: name, Method: method, Path: path, Want: want}
	defer func() { report.Steps = append(report.Steps, step) }()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			step.Error = err.Error()
			return step, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, report.BaseURL+path, reader)
	if err != nil {
		step.Error = err.Error()
		return step, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	began := time.Now()
	resp, err := c.http.Do(req)
	step.Latency = time.Since(began)
	if err != nil {
		step.Error = err.Error()
		return step, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	step.Status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		step.Error = err.Error()
		return step, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		step.Error = fmt.Sprintf("status %d, want %d", resp.StatusCode, want)
		return step, fmt.Errorf("%s: %s", step.Error, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			step.Error = err.Error()
			return step, fmt.Errorf("decode response: %w", err)
		}
	}

	c.logger.Debug("probe step passed", zap.String("step", name), zap.Duration("latency", step.Latency))
	return step, nil
}

func containsID(items []map[string]interface{}, key, id string) bool {
	for _, it := range items {
		if it[key] == id {
			return true
		}
	}
	return false
}
