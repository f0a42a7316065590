package graph

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/template"
	"github.com/vk/nodewire/internal/typesys"
)

// Direction distinguishes the two sides of a node.
type Direction int

const (
	DirInput Direction = iota
	DirOutput
)

// Pin is one typed socket on a node. Its Type starts as the template's
// declared type and is mutated in place when a wildcard resolves.
type Pin struct {
	Node  *Node
	Index int
	Dir   Direction
	Name  string
	// Type is the pin's current (possibly narrowed) data type.
	Type *typesys.DataType
	// Literal is the widget value used when an input pin is unconnected.
	// It is cty.NilVal on outputs and on exec pins.
	Literal cty.Value
}

// Node is one placed instance of a template. Everything type-shaped lives
// on the template; the node carries only per-instance mutable state.
type Node struct {
	ID       int
	Template *template.Template
	X, Y     float64
	Inputs   []*Pin
	Outputs  []*Pin

	// LastError is the domain error surfaced on this node by the most
	// recent run, if any.
	LastError error

	cached    cty.Value
	hasCached bool
}

// Pure reports whether the node has no exec input pins and is therefore
// pulled on demand instead of scheduled on the exec queue.
func (n *Node) Pure() bool {
	return !n.Template.HasExecInput()
}

// Cached returns the node's memoized result for the current run.
func (n *Node) Cached() (cty.Value, bool) {
	return n.cached, n.hasCached
}

// SetCached stores the node's result for the remainder of the run.
func (n *Node) SetCached(v cty.Value) {
	n.cached = v
	n.hasCached = true
}

// ClearCached drops the memoized result so the next pull re-evaluates.
func (n *Node) ClearCached() {
	n.cached = cty.NilVal
	n.hasCached = false
}

// ClearRunState drops everything a run leaves behind on the node.
func (n *Node) ClearRunState() {
	n.ClearCached()
	n.LastError = nil
}

// Input returns the input pin at index, or nil when out of range.
func (n *Node) Input(index int) *Pin {
	if index < 0 || index >= len(n.Inputs) {
		return nil
	}
	return n.Inputs[index]
}

// Output returns the output pin at index, or nil when out of range.
func (n *Node) Output(index int) *Pin {
	if index < 0 || index >= len(n.Outputs) {
		return nil
	}
	return n.Outputs[index]
}

// OutputByName returns the output pin with the given name.
func (n *Node) OutputByName(name string) *Pin {
	for _, p := range n.Outputs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FirstDataInput returns the first non-exec input pin; adapter nodes feed
// their payload through it.
func (n *Node) FirstDataInput() *Pin {
	for _, p := range n.Inputs {
		if !p.Type.IsExec() {
			return p
		}
	}
	return nil
}

// FirstDataOutput returns the first non-exec output pin.
func (n *Node) FirstDataOutput() *Pin {
	for _, p := range n.Outputs {
		if !p.Type.IsExec() {
			return p
		}
	}
	return nil
}

// ExecOutputs returns the node's exec output pins in declaration order.
func (n *Node) ExecOutputs() []*Pin {
	var pins []*Pin
	for _, p := range n.Outputs {
		if p.Type.IsExec() {
			pins = append(pins, p)
		}
	}
	return pins
}

// NarrowWildcards resolves every still-wildcard pin on the node to the
// concrete type. Generic nodes resolve all their wildcard pins together,
// so a single connection fixes the whole node. Input pins pick up the
// concrete type's default literal when they had none.
func (n *Node) NarrowWildcards(to *typesys.DataType) {
	for _, p := range n.Inputs {
		if p.Type.IsWildcard() {
			p.Type = to
			if p.Literal == cty.NilVal {
				p.Literal = to.Default
			}
		}
	}
	for _, p := range n.Outputs {
		if p.Type.IsWildcard() {
			p.Type = to
		}
	}
}
