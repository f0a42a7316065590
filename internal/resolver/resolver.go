// Package resolver validates candidate connections before they touch the
// graph. It narrows wildcard pins, synthesizes adapter nodes for
// registered conversions, and otherwise drops incompatible candidates
// without signaling an error — the editor simply shows no new wire.
package resolver

import (
	"context"

	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/graph"
	"github.com/vk/nodewire/internal/template"
	"github.com/vk/nodewire/internal/typesys"
)

// Resolver applies the connection rules on top of a graph.
type Resolver struct {
	graph     *graph.Graph
	catalog   *typesys.Catalog
	templates *template.Registry
}

// New creates a resolver bound to the given graph and registries.
func New(g *graph.Graph, catalog *typesys.Catalog, templates *template.Registry) *Resolver {
	return &Resolver{graph: g, catalog: catalog, templates: templates}
}

// Connect attempts to wire the source node's output pin to the target
// node's input pin. It reports whether any edge was created. Rejections
// are silent: self-loops, direction clashes and type pairs with no
// registered conversion all leave the graph untouched.
//
// When the pair needs a conversion, the adapter template is instantiated
// at the midpoint between the two nodes and two edges are created instead
// of one; the operation either completes fully or creates nothing.
func (r *Resolver) Connect(ctx context.Context, from *graph.Node, fromPin int, to *graph.Node, toPin int) bool {
	logger := ctxlog.FromContext(ctx)

	if from == nil || to == nil || from == to {
		return false
	}
	src := from.Output(fromPin)
	dst := to.Input(toPin)
	if src == nil || dst == nil {
		// Same direction on both ends resolves to a missing pin here.
		return false
	}

	// Exec pins carry control flow, not data: they match each other and
	// nothing else. In particular an exec pin must never narrow a
	// wildcard, which is the data generic.
	if src.Type.IsExec() != dst.Type.IsExec() {
		logger.Debug("Exec pin paired with a data pin, dropping connection attempt.",
			"from", src.Type.Name, "to", dst.Type.Name)
		return false
	}

	srcWild := src.Type.IsWildcard()
	dstWild := dst.Type.IsWildcard()

	switch {
	case srcWild && !dstWild:
		from.NarrowWildcards(dst.Type)
	case dstWild && !srcWild:
		to.NarrowWildcards(src.Type)
	}

	// Types may have just been narrowed; re-read them.
	if src.Type.Name == dst.Type.Name {
		r.graph.AddConnection(from, fromPin, to, toPin, src.Type)
		return true
	}

	adapterName, ok := r.catalog.AdapterFor(src.Type.Name, dst.Type.Name)
	if !ok {
		// Documented behavior: incompatible and non-convertible pairs are
		// dropped without an error channel.
		logger.Debug("No conversion registered, dropping connection attempt.",
			"from", src.Type.Name, "to", dst.Type.Name)
		return false
	}
	adapterTmpl, ok := r.templates.Lookup(adapterName)
	if !ok {
		logger.Warn("Conversion names unknown adapter template, dropping connection attempt.",
			"adapter", adapterName, "from", src.Type.Name, "to", dst.Type.Name)
		return false
	}

	adapter := r.graph.AddNode(adapterTmpl, (from.X+to.X)/2, (from.Y+to.Y)/2)
	in := adapter.FirstDataInput()
	out := adapter.FirstDataOutput()
	if in == nil || out == nil {
		// A conversion adapter must carry one data input and one data
		// output; a manifest that says otherwise is a structural error.
		logger.Warn("Adapter template has no data pins, dropping connection attempt.", "adapter", adapterName)
		r.graph.RemoveNode(adapter.ID)
		return false
	}

	r.graph.AddConnection(from, fromPin, adapter, in.Index, src.Type)
	r.graph.AddConnection(adapter, out.Index, to, toPin, dst.Type)
	return true
}
