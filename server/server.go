/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package server serves the items handlers over plain HTTP for local runs.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/suparena/itemsapi/handlers"
)

const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 5 * time.Second
	maxBodyBytes           = 1 << 20
)

// Server is a local stand-in for the REST API.
type Server struct {
	handlers   *handlers.Handlers
	logger     *zap.Logger
	addr       string
	httpServer *http.Server
}

// New creates a Server listening on addr, ":8080" when empty.
func New(h *handlers.Handlers, addr string, logger *zap.Logger) *Server {
	if addr == "" {
		addr = defaultAddr
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{handlers: h, logger: logger, addr: addr}
}

// Router builds the route table mirroring the REST API resources.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.adapt(s.handlers.GetAll))
		r.Post("/", s.adapt(s.handlers.CreateOne))
		r.Delete("/", s.adapt(s.handlers.DeleteAll))
		r.Options("/", preflight)

		r.Get("/{id}", s.adapt(s.handlers.GetOne))
		r.Patch("/{id}", s.adapt(s.handlers.UpdateOne))
		r.Delete("/{id}", s.adapt(s.handlers.DeleteOne))
		r.Options("/{id}", preflight)
	})

	return r
}

// ListenAndServe blocks until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

func (s *Server) adapt(fn handlers.Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := toProxyRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			s.logger.Error("handler returned error", zap.String("path", r.URL.Path), zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeProxyResponse(w, resp)
	}
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	writeProxyResponse(w, handlers.Preflight())
}

func toProxyRequest(r *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return events.APIGatewayProxyRequest{}, fmt.Errorf("failed to read body: %w", err)
	}

	req := events.APIGatewayProxyRequest{
		Resource:                        chi.RouteContext(r.Context()).RoutePattern(),
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         make(map[string]string, len(r.Header)),
		MultiValueHeaders:               map[string][]string(r.Header),
		QueryStringParameters:           make(map[string]string),
		MultiValueQueryStringParameters: map[string][]string(r.URL.Query()),
		Body:                            string(body),
	}
	for k := range r.Header {
		req.Headers[k] = r.Header.Get(k)
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.QueryStringParameters[k] = v[0]
		}
	}
	if id := chi.URLParam(r, handlers.PathParamID); id != "" {
		req.PathParameters = map[string]string{handlers.PathParamID: id}
	}
	return req, nil
}

func writeProxyResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = io.WriteString(w, resp.Body)
	}
}
