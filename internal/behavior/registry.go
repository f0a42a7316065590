// Package behavior holds the table of node behaviors: callables keyed by a
// stable string id, invoked by the execution engine with the node's
// gathered input values. The engine knows nothing about individual
// behaviors; modules register themselves the same way runner handlers do
// in a plugin registry.
package behavior

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"
)

// Func is a single node behavior. It receives one argument per non-exec
// input pin, in pin order, already coerced to the pin's declared type, and
// returns the node's result value. A *DomainError return marks a
// recoverable, user-caused failure; any other error is treated as a bug.
type Func func(ctx context.Context, args []cty.Value) (cty.Value, error)

// Module is the interface behavior packages implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps function ids to behaviors for a single app instance.
type Registry struct {
	fns map[string]Func
}

// New creates an empty behavior registry.
func New() *Registry {
	return &Registry{fns: make(map[string]Func)}
}

// Register adds a behavior under the given function id. Registering the
// same id twice is a programmer error and panics.
func (r *Registry) Register(id string, fn Func) {
	if _, exists := r.fns[id]; exists {
		panic(fmt.Sprintf("behavior with id '%s' already registered", id))
	}
	slog.Debug("Registering behavior.", "id", id)
	r.fns[id] = fn
}

// Lookup returns the behavior registered under id.
func (r *Registry) Lookup(id string) (Func, bool) {
	fn, ok := r.fns[id]
	return fn, ok
}

// Install registers every module into the registry.
func (r *Registry) Install(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}
