// Package template holds the stable definition table for node types. A
// template describes a node kind once — pins, colors, behavior binding —
// and node instances reference it instead of cloning it, keeping
// per-instance state small.
package template

import (
	"log/slog"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/typesys"
)

// Exec output pin names a two-way branch template must carry.
const (
	BranchTrue  = "True"
	BranchFalse = "False"
)

// PinDef declares one pin of a template.
type PinDef struct {
	Name string
	// Type is a catalog type name ("number", "exec", "wildcard", ...).
	Type string
	// Default overrides the type's default literal on input pins.
	Default cty.Value
	// Options restricts a string input to a fixed choice set (widget hint).
	Options []string
	// Advanced hides the pin behind the node's expander (widget hint).
	Advanced bool
}

// Template is one entry in the definition table.
type Template struct {
	Name        string
	Color       string
	HideHeader  bool
	CenterLabel bool
	// FunctionID keys into the behavior table. Empty means the node is a
	// pure control marker with no behavior (entry points, comments).
	FunctionID string
	// Volatile marks pure nodes that must re-evaluate on every pull
	// instead of being memoized; variable reads rely on this to observe
	// mutations made earlier in the same run.
	Volatile bool
	Inputs   []PinDef
	Outputs  []PinDef
}

// IsBranch reports whether the template is a two-way branch: exactly the
// True/False pair of exec outputs, selected by the node's boolean result.
func (t *Template) IsBranch() bool {
	var hasTrue, hasFalse bool
	for _, p := range t.Outputs {
		if p.Type != typesys.Exec {
			continue
		}
		switch p.Name {
		case BranchTrue:
			hasTrue = true
		case BranchFalse:
			hasFalse = true
		}
	}
	return hasTrue && hasFalse
}

// HasExecInput reports whether any input pin is an exec pin. Nodes whose
// template has none are pure and evaluated on demand.
func (t *Template) HasExecInput() bool {
	for _, p := range t.Inputs {
		if p.Type == typesys.Exec {
			return true
		}
	}
	return false
}

// HasExecOutput reports whether any output pin is an exec pin.
func (t *Template) HasExecOutput() bool {
	for _, p := range t.Outputs {
		if p.Type == typesys.Exec {
			return true
		}
	}
	return false
}

// Registry is the definition table for a single app instance.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Template
}

// NewRegistry creates an empty template registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Template)}
}

// Register adds a template, overwriting any previous definition with the
// same name. Manifests loaded later win, matching module discovery.
func (r *Registry) Register(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[t.Name]; exists {
		slog.Warn("Duplicate node template, overwriting.", "name", t.Name)
	}
	r.byName[t.Name] = t
}

// Lookup returns the template registered under name.
func (r *Registry) Lookup(name string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Len reports the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
