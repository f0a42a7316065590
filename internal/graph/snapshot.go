package graph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/template"
)

// Snapshot wire schema. Node templates are referenced by name; pin types
// are persisted per pin so resolved wildcards survive a round trip.
type snapDoc struct {
	Nodes       []snapNode   `json:"nodes"`
	Connections []snapConn   `json:"connections"`
	Viewport    snapViewport `json:"viewport"`
	Counters    snapCounters `json:"counters"`
}

type snapNode struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Inputs   []snapInput  `json:"inputs"`
	PinTypes snapPinTypes `json:"pinTypes"`
}

type snapInput struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type snapPinTypes struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

type snapConn struct {
	ID       int    `json:"id"`
	FromNode int    `json:"fromNode"`
	FromPin  int    `json:"fromPin"`
	ToNode   int    `json:"toNode"`
	ToPin    int    `json:"toPin"`
	Type     string `json:"type"`
}

type snapViewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

type snapCounters struct {
	NextID     int `json:"nextId"`
	NextConnID int `json:"nextConnId"`
}

var jsonNull = json.RawMessage("null")

// Snapshot serializes the whole document, including viewport and id
// counters, but excluding transient run state (cached results, errors).
func (g *Graph) Snapshot() ([]byte, error) {
	doc := snapDoc{
		Viewport: snapViewport{X: g.Viewport.X, Y: g.Viewport.Y, Scale: g.Viewport.Scale},
		Counters: snapCounters{NextID: g.nextNodeID, NextConnID: g.nextConnID},
	}

	for _, n := range g.Nodes {
		sn := snapNode{ID: n.ID, Name: n.Template.Name, X: n.X, Y: n.Y}
		for _, p := range n.Inputs {
			sn.PinTypes.Inputs = append(sn.PinTypes.Inputs, p.Type.Name)
			raw := jsonNull
			if !p.Type.IsExec() && p.Literal != cty.NilVal {
				encoded, err := ctyjson.Marshal(p.Literal, p.Type.Cty)
				if err != nil {
					return nil, fmt.Errorf("encoding literal for node %d pin %q: %w", n.ID, p.Name, err)
				}
				raw = json.RawMessage(encoded)
			}
			sn.Inputs = append(sn.Inputs, snapInput{Name: p.Name, Value: raw})
		}
		for _, p := range n.Outputs {
			sn.PinTypes.Outputs = append(sn.PinTypes.Outputs, p.Type.Name)
		}
		doc.Nodes = append(doc.Nodes, sn)
	}

	for _, c := range g.Connections {
		doc.Connections = append(doc.Connections, snapConn{
			ID:       c.ID,
			FromNode: c.FromNode.ID,
			FromPin:  c.FromPin,
			ToNode:   c.ToNode.ID,
			ToPin:    c.ToPin,
			Type:     c.Type.Name,
		})
	}

	return sonic.Marshal(doc)
}

// Restore replaces the graph's contents with the snapshot's. Items that no
// longer resolve — a node whose template was removed, a connection whose
// endpoint was skipped — are dropped with a warning instead of failing the
// whole load.
func (g *Graph) Restore(ctx context.Context, data []byte, templates *template.Registry) error {
	logger := ctxlog.FromContext(ctx)

	var doc snapDoc
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	g.Nodes = nil
	g.Connections = nil
	g.Viewport = Viewport{X: doc.Viewport.X, Y: doc.Viewport.Y, Scale: doc.Viewport.Scale}
	if g.Viewport.Scale == 0 {
		g.Viewport.Scale = 1
	}

	for _, sn := range doc.Nodes {
		tmpl, ok := templates.Lookup(sn.Name)
		if !ok {
			logger.Warn("Snapshot references unknown template, skipping node.", "template", sn.Name, "nodeId", sn.ID)
			continue
		}
		n := g.newNode(tmpl, sn.X, sn.Y)
		n.ID = sn.ID

		// Re-apply persisted pin types so resolved wildcards survive.
		for i, typeName := range sn.PinTypes.Inputs {
			if p := n.Input(i); p != nil {
				if dt, ok := g.catalog.Lookup(typeName); ok {
					p.Type = dt
				}
			}
		}
		for i, typeName := range sn.PinTypes.Outputs {
			if p := n.Output(i); p != nil {
				if dt, ok := g.catalog.Lookup(typeName); ok {
					p.Type = dt
				}
			}
		}

		for _, in := range sn.Inputs {
			p := pinByName(n.Inputs, in.Name)
			if p == nil || p.Type.IsExec() {
				continue
			}
			if len(in.Value) == 0 || string(in.Value) == "null" {
				continue
			}
			v, err := ctyjson.Unmarshal([]byte(in.Value), p.Type.Cty)
			if err != nil {
				logger.Warn("Snapshot literal failed to decode, keeping default.",
					"nodeId", sn.ID, "pin", in.Name, "error", err)
				continue
			}
			p.Literal = v
		}

		g.Nodes = append(g.Nodes, n)
	}

	for _, sc := range doc.Connections {
		from := g.NodeByID(sc.FromNode)
		to := g.NodeByID(sc.ToNode)
		if from == nil || to == nil {
			logger.Warn("Snapshot connection references missing node, skipping.",
				"connId", sc.ID, "fromNode", sc.FromNode, "toNode", sc.ToNode)
			continue
		}
		dt, ok := g.catalog.Lookup(sc.Type)
		if !ok {
			logger.Warn("Snapshot connection carries unknown type, skipping.", "connId", sc.ID, "type", sc.Type)
			continue
		}
		g.Connections = append(g.Connections, &Connection{
			ID:       sc.ID,
			FromNode: from,
			FromPin:  sc.FromPin,
			ToNode:   to,
			ToPin:    sc.ToPin,
			Type:     dt,
		})
	}

	g.nextNodeID = doc.Counters.NextID
	g.nextConnID = doc.Counters.NextConnID
	if g.nextNodeID < 1 {
		g.nextNodeID = 1
	}
	if g.nextConnID < 1 {
		g.nextConnID = 1
	}
	return nil
}

func pinByName(pins []*Pin, name string) *Pin {
	for _, p := range pins {
		if p.Name == name {
			return p
		}
	}
	return nil
}
