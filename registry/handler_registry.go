/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
)

// Registry maps function handler names to Lambda handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]lambda.Handler
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]lambda.Handler)}
}

// Register adds a handler under name.
// If a handler is already registered under name, it panics to prevent accidental overrides.
func (r *Registry) Register(name string, h lambda.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler registry: handler %q already registered", name))
	}
	r.handlers[name] = h
}

// RegisterFunc wraps a typed handler function with lambda.NewHandler and registers it.
func (r *Registry) RegisterFunc(name string, fn interface{}) {
	r.Register(name, lambda.NewHandler(fn))
}

// Get returns the handler registered under name.
func (r *Registry) Get(name string) (lambda.Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("handler registry: no handler registered as %q", name)
	}
	return h, nil
}

// Names lists the registered handler names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
