package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry maps request types to handlers. Registrations happen at startup;
// afterwards the table is read-mostly.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a request type. Re-registering a type fails
// with ErrDuplicateType; existing bindings are never overwritten.
func (r *Registry) Register(requestType string, handler Handler) error {
	if requestType == "" {
		return errors.New("request type must not be empty")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[requestType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, requestType)
	}
	r.handlers[requestType] = handler
	return nil
}

// Resolve returns the handler bound to the request type.
func (r *Registry) Resolve(requestType string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[requestType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, requestType)
	}
	return handler, nil
}

// List returns the registered request types in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for requestType := range r.handlers {
		types = append(types, requestType)
	}
	sort.Strings(types)
	return types
}
