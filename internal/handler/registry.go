// Package handler holds the kind-to-handler registry and the backend-neutral
// pieces every handler set shares: input value resolution, random picking,
// location assertions and artifact writing.
package handler

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

// Registry maps action kinds to handlers for pages of type P. It is safe for
// concurrent use.
type Registry[P any] struct {
	mu       sync.RWMutex
	handlers map[scenario.Kind]ports.Handler[P]
}

// NewRegistry creates an empty registry.
func NewRegistry[P any]() *Registry[P] {
	return &Registry[P]{handlers: make(map[scenario.Kind]ports.Handler[P])}
}

// Register binds kind to h. Registering a kind outside the builtin set makes
// it a new step type tag.
func (r *Registry[P]) Register(kind scenario.Kind, h ports.Handler[P]) error {
	if kind == "" {
		return fmt.Errorf("handler kind is required")
	}
	if h == nil {
		return fmt.Errorf("handler for %q is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[kind]; exists {
		return fmt.Errorf("handler for %q already registered", kind)
	}
	r.handlers[kind] = h
	return nil
}

// RegisterAll registers every entry of set, stopping at the first error.
func (r *Registry[P]) RegisterAll(set map[scenario.Kind]ports.Handler[P]) error {
	kinds := make([]scenario.Kind, 0, len(set))
	for kind := range set {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, kind := range kinds {
		if err := r.Register(kind, set[kind]); err != nil {
			return err
		}
	}
	return nil
}

// Lookup implements ports.HandlerRegistry.
func (r *Registry[P]) Lookup(kind scenario.Kind) (ports.Handler[P], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

// Kinds lists registered kinds in sorted order.
func (r *Registry[P]) Kinds() []scenario.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]scenario.Kind, 0, len(r.handlers))
	for kind := range r.handlers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Extensions returns the registered kinds outside the builtin set.
func (r *Registry[P]) Extensions() map[scenario.Kind]struct{} {
	out := make(map[scenario.Kind]struct{})
	for _, kind := range r.Kinds() {
		if !kind.IsBuiltin() {
			out[kind] = struct{}{}
		}
	}
	return out
}

// Covers implements ports.HandlerRegistry. Unknown kinds report
// UNKNOWN_ACTION_KIND, builtin kinds without a handler NO_HANDLER_FOR_ACTION.
func (r *Registry[P]) Covers(kinds []scenario.Kind) error {
	var errs []error
	for _, kind := range kinds {
		if _, ok := r.Lookup(kind); ok {
			continue
		}
		if kind.IsBuiltin() {
			errs = append(errs, scenario.NewNoHandlerError(kind))
		} else {
			errs = append(errs, scenario.NewUnknownActionKindError(kind))
		}
	}
	return errors.Join(errs...)
}

var _ ports.HandlerRegistry[struct{}] = (*Registry[struct{}])(nil)
