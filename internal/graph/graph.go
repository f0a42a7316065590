// Package graph owns the mutable node-graph document: nodes with typed
// pins, directed connections between them, id counters and the viewport.
// It enforces the topology invariants (the single-wire rules) but performs
// no type checking — candidate edges are validated by the resolver before
// they reach AddConnection.
package graph

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/template"
	"github.com/vk/nodewire/internal/typesys"
)

// Connection is a directed edge from an output pin to an input pin.
type Connection struct {
	ID       int
	FromNode *Node
	FromPin  int
	ToNode   *Node
	ToPin    int
	// Type is the data type carried on the wire at creation time.
	Type *typesys.DataType
}

// Viewport is the editor camera, carried through snapshots untouched.
type Viewport struct {
	X     float64
	Y     float64
	Scale float64
}

// Graph is one node-graph document. It lives for the whole editing
// session; runs read it but never change its topology.
type Graph struct {
	catalog *typesys.Catalog

	Nodes       []*Node
	Connections []*Connection
	Viewport    Viewport

	nextNodeID int
	nextConnID int
}

// New creates an empty graph backed by the given type catalog.
func New(catalog *typesys.Catalog) *Graph {
	return &Graph{
		catalog:    catalog,
		Viewport:   Viewport{Scale: 1},
		nextNodeID: 1,
		nextConnID: 1,
	}
}

// Catalog returns the type catalog the graph was built against.
func (g *Graph) Catalog() *typesys.Catalog { return g.catalog }

// newNode builds a node instance from a template without registering it.
func (g *Graph) newNode(t *template.Template, x, y float64) *Node {
	n := &Node{Template: t, X: x, Y: y}
	for i, def := range t.Inputs {
		dt := g.catalog.MustLookup(def.Type)
		lit := cty.NilVal
		if !dt.IsExec() {
			lit = dt.Default
			if def.Default != cty.NilVal {
				lit = def.Default
			}
		}
		n.Inputs = append(n.Inputs, &Pin{
			Node: n, Index: i, Dir: DirInput, Name: def.Name, Type: dt, Literal: lit,
		})
	}
	for i, def := range t.Outputs {
		dt := g.catalog.MustLookup(def.Type)
		n.Outputs = append(n.Outputs, &Pin{
			Node: n, Index: i, Dir: DirOutput, Name: def.Name, Type: dt,
		})
	}
	return n
}

// AddNode places a new instance of the template at the given position and
// returns it. It never fails: pin definitions are resolved against the
// catalog at template registration time.
func (g *Graph) AddNode(t *template.Template, x, y float64) *Node {
	n := g.newNode(t, x, y)
	n.ID = g.nextNodeID
	g.nextNodeID++
	g.Nodes = append(g.Nodes, n)
	return n
}

// RemoveNode deletes the node and every connection touching it. Removing
// an unknown id is a no-op.
func (g *Graph) RemoveNode(id int) {
	idx := -1
	for i, n := range g.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	node := g.Nodes[idx]
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.FromNode != node && c.ToNode != node {
			kept = append(kept, c)
		}
	}
	g.Connections = kept
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id int) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// AddConnection inserts an edge, applying the single-wire replacement rule
// first: an exec output drives at most one wire, a data input accepts at
// most one wire, and in both cases the new edge replaces the old. Data
// outputs fan out freely. The mutator performs no validation and always
// succeeds.
func (g *Graph) AddConnection(from *Node, fromPin int, to *Node, toPin int, dt *typesys.DataType) *Connection {
	if dt.IsExec() {
		// One wire per exec output.
		for _, c := range g.Connections {
			if c.FromNode == from && c.FromPin == fromPin && c.Type.IsExec() {
				g.RemoveConnection(c.ID)
				break
			}
		}
	} else {
		// One wire per data input.
		for _, c := range g.Connections {
			if c.ToNode == to && c.ToPin == toPin && !c.Type.IsExec() {
				g.RemoveConnection(c.ID)
				break
			}
		}
	}

	conn := &Connection{
		ID:       g.nextConnID,
		FromNode: from,
		FromPin:  fromPin,
		ToNode:   to,
		ToPin:    toPin,
		Type:     dt,
	}
	g.nextConnID++
	g.Connections = append(g.Connections, conn)
	return conn
}

// RemoveConnection deletes the edge with the given id; unknown ids are a
// no-op.
func (g *Graph) RemoveConnection(id int) {
	for i, c := range g.Connections {
		if c.ID == id {
			g.Connections = append(g.Connections[:i], g.Connections[i+1:]...)
			return
		}
	}
}

// DisconnectPin removes every edge attached to the given pin endpoint.
func (g *Graph) DisconnectPin(nodeID, pinIndex int, dir Direction) {
	node := g.NodeByID(nodeID)
	if node == nil {
		return
	}
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		match := (dir == DirOutput && c.FromNode == node && c.FromPin == pinIndex) ||
			(dir == DirInput && c.ToNode == node && c.ToPin == pinIndex)
		if !match {
			kept = append(kept, c)
		}
	}
	g.Connections = kept
}

// ConnectionByID returns the edge with the given id.
func (g *Graph) ConnectionByID(id int) *Connection {
	for _, c := range g.Connections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ConnectionInto returns the single edge feeding the node's input pin, if
// any. The single-wire rule guarantees at most one.
func (g *Graph) ConnectionInto(node *Node, pinIndex int) *Connection {
	for _, c := range g.Connections {
		if c.ToNode == node && c.ToPin == pinIndex {
			return c
		}
	}
	return nil
}

// ConnectionFrom returns the first edge leaving the node's output pin.
// For exec outputs the single-wire rule guarantees it is the only one.
func (g *Graph) ConnectionFrom(node *Node, pinIndex int) *Connection {
	for _, c := range g.Connections {
		if c.FromNode == node && c.FromPin == pinIndex {
			return c
		}
	}
	return nil
}

// ConnectionsFrom returns every edge leaving the node's output pin, in
// insertion order. Data outputs may fan out to many consumers.
func (g *Graph) ConnectionsFrom(node *Node, pinIndex int) []*Connection {
	var out []*Connection
	for _, c := range g.Connections {
		if c.FromNode == node && c.FromPin == pinIndex {
			out = append(out, c)
		}
	}
	return out
}

// EntryPoints returns the nodes that start exec chains: owners of at least
// one exec output with no exec input. Pure nodes never qualify; they are
// pulled, not scheduled.
func (g *Graph) EntryPoints() []*Node {
	var entries []*Node
	for _, n := range g.Nodes {
		if n.Template.HasExecOutput() && !n.Template.HasExecInput() {
			entries = append(entries, n)
		}
	}
	return entries
}

// ClearRunState drops per-run residue (cached results, node errors) from
// every node.
func (g *Graph) ClearRunState() {
	for _, n := range g.Nodes {
		n.ClearRunState()
	}
}
