/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/itemsapi/datastore"
	"github.com/suparena/itemsapi/errors"
	"github.com/suparena/itemsapi/registry"
	"github.com/suparena/itemsapi/storagemodels"
	"github.com/suparena/itemsapi/sweep"
)

// Handler names, also used as the Handler property of each function.
const (
	GetAll    = "getAll"
	GetOne    = "getOne"
	CreateOne = "createOne"
	UpdateOne = "updateOne"
	DeleteOne = "deleteOne"
	DeleteAll = "deleteAll"
)

// PathParamID is the path parameter of the single-item routes.
const PathParamID = "id"

// Func is the signature of an API Gateway proxy handler.
type Func func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handlers serves the items API over one store.
type Handlers struct {
	store    datastore.KeyValueStore
	sweeper  *sweep.Sweeper
	logger   *zap.Logger
	newID    func() string
	pageSize int32
}

// Option configures Handlers.
type Option func(*Handlers)

// WithIDGenerator replaces the UUID generator used by CreateOne.
func WithIDGenerator(fn func() string) Option {
	return func(h *Handlers) { h.newID = fn }
}

// WithScanPageSize sets the page limit GetAll scans with.
func WithScanPageSize(size int32) Option {
	return func(h *Handlers) { h.pageSize = size }
}

// New creates Handlers; store and sweeper are built once per process by the caller.
func New(store datastore.KeyValueStore, sweeper *sweep.Sweeper, logger *zap.Logger, opts ...Option) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handlers{
		store:   store,
		sweeper: sweeper,
		logger:  logger,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes maps handler names to handler functions.
func (h *Handlers) Routes() map[string]Func {
	return map[string]Func{
		GetAll:    h.GetAll,
		GetOne:    h.GetOne,
		CreateOne: h.CreateOne,
		UpdateOne: h.UpdateOne,
		DeleteOne: h.DeleteOne,
		DeleteAll: h.DeleteAll,
	}
}

// Register adds every handler to reg under its name.
func (h *Handlers) Register(reg *registry.Registry) {
	for name, fn := range h.Routes() {
		reg.RegisterFunc(name, fn)
	}
}

// GetAll returns every record of the table as a JSON array.
func (h *Handlers) GetAll(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	records, err := datastore.ScanAll(ctx, h.store, storagemodels.WithPageSize(h.pageSize))
	if err != nil {
		return h.failure(GetAll, err), nil
	}
	return jsonResponse(http.StatusOK, records), nil
}

// GetOne returns the record named by the id path parameter.
func (h *Handlers) GetOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters[PathParamID]
	if id == "" {
		return h.failure(GetOne, errors.NewValidationError(PathParamID, "you are missing the path parameter id")), nil
	}

	rec, err := h.store.Get(ctx, id)
	if err != nil {
		return h.failure(GetOne, err), nil
	}
	return jsonResponse(http.StatusOK, rec), nil
}

// CreateOne stores the JSON object in the body under a fresh primary-key value.
func (h *Handlers) CreateOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	rec, err := decodeBody(req)
	if err != nil {
		return h.failure(CreateOne, err), nil
	}
	rec[h.store.PrimaryKey()] = h.newID()

	if err := h.store.Put(ctx, rec); err != nil {
		return h.failure(CreateOne, err), nil
	}
	return jsonResponse(http.StatusCreated, rec), nil
}

// UpdateOne applies the attributes of the JSON body to an existing record.
func (h *Handlers) UpdateOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	rec, err := decodeBody(req)
	if err != nil {
		return h.failure(UpdateOne, err), nil
	}
	id := req.PathParameters[PathParamID]
	if id == "" {
		return h.failure(UpdateOne, errors.NewValidationError(PathParamID, "invalid request, you are missing the path parameter id")), nil
	}
	delete(rec, h.store.PrimaryKey())
	if len(rec) == 0 {
		return h.failure(UpdateOne, errors.NewValidationError("", "invalid request, no arguments provided")), nil
	}

	err = h.store.Update(ctx, &storagemodels.UpdateParams{
		Key:             id,
		Attributes:      rec,
		RequireExisting: true,
	})
	if err != nil {
		if errors.IsConditionFailed(err) {
			err = errors.NewNotFoundError(h.store.TableName(), id)
		}
		return h.failure(UpdateOne, err), nil
	}
	return emptyResponse(http.StatusNoContent), nil
}

// DeleteOne removes the record named by the id path parameter.
func (h *Handlers) DeleteOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters[PathParamID]
	if id == "" {
		return h.failure(DeleteOne, errors.NewValidationError(PathParamID, "you are missing the path parameter id")), nil
	}

	if err := h.store.Delete(ctx, id); err != nil {
		return h.failure(DeleteOne, err), nil
	}
	return emptyResponse(http.StatusOK), nil
}

// DeleteAll sweeps the whole table. It takes no request arguments.
func (h *Handlers) DeleteAll(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	result := h.sweeper.Sweep(ctx)
	if !result.OK() {
		// the sweep's first error is surfaced verbatim as a 500
		return failureResponse(http.StatusInternalServerError, result.Err), nil
	}
	return emptyResponse(http.StatusOK), nil
}

func (h *Handlers) failure(handler string, err error) events.APIGatewayProxyResponse {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("handler", handler), zap.Error(err))
	} else {
		h.logger.Info("request rejected", zap.String("handler", handler), zap.Error(err))
	}
	return failureResponse(status, err)
}

func statusFor(err error) int {
	switch {
	case errors.IsValidationError(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(req events.APIGatewayProxyRequest) (storagemodels.Record, error) {
	body := req.Body
	if req.IsBase64Encoded && body != "" {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, errors.NewValidationError("body", "body is not valid base64")
		}
		body = string(raw)
	}
	if strings.TrimSpace(body) == "" {
		return nil, errors.NewValidationError("body", "invalid request, you are missing the parameter body")
	}

	var rec storagemodels.Record
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return nil, errors.NewValidationError("body", "invalid request, body must be a JSON object")
	}
	return rec, nil
}
