package graph

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/template"
	"github.com/vk/nodewire/internal/typesys"
)

func snapshotFixture(t *testing.T) (*Graph, *template.Registry, *typesys.Catalog) {
	t.Helper()
	catalog := typesys.NewCatalog()
	reg := template.NewRegistry()
	entry, worker, pure := testTemplates()
	generic := &template.Template{
		Name:       "Identity",
		FunctionID: "identity",
		Inputs:     []template.PinDef{{Name: "A", Type: typesys.Wildcard}},
		Outputs:    []template.PinDef{{Name: "Out", Type: typesys.Wildcard}},
	}
	for _, tmpl := range []*template.Template{entry, worker, pure, generic} {
		reg.Register(tmpl)
	}
	return New(catalog), reg, catalog
}

func TestSnapshotRoundTrip(t *testing.T) {
	g, reg, catalog := snapshotFixture(t)
	entry, _ := reg.Lookup("Start")
	worker, _ := reg.Lookup("Worker")
	pure, _ := reg.Lookup("Pure")
	generic, _ := reg.Lookup("Identity")

	start := g.AddNode(entry, 1, 2)
	sink := g.AddNode(worker, 100, 50)
	src := g.AddNode(pure, 10, 80)
	ident := g.AddNode(generic, 60, 80)

	src.Inputs[0].Literal = cty.NumberFloatVal(3.5)
	sink.Inputs[2].Literal = cty.NumberIntVal(7)
	ident.NarrowWildcards(catalog.MustLookup(typesys.Number))

	execType := catalog.MustLookup(typesys.Exec)
	numType := catalog.MustLookup(typesys.Number)
	g.AddConnection(start, 0, sink, 0, execType)
	g.AddConnection(src, 0, ident, 0, numType)
	g.AddConnection(ident, 0, sink, 1, numType)
	g.Viewport = Viewport{X: -40, Y: 12, Scale: 1.5}

	data, err := g.Snapshot()
	require.NoError(t, err)

	restored, _, _ := snapshotFixture(t)
	require.NoError(t, restored.Restore(context.Background(), data, reg))

	require.Len(t, restored.Nodes, 4)
	require.Len(t, restored.Connections, 3)
	assert.Equal(t, g.Viewport, restored.Viewport)

	// IDs persist, so references stay stable across save/load cycles.
	for _, n := range g.Nodes {
		rn := restored.NodeByID(n.ID)
		require.NotNil(t, rn, "node %d must survive", n.ID)
		assert.Equal(t, n.Template.Name, rn.Template.Name)
		assert.Equal(t, n.X, rn.X)
		assert.Equal(t, n.Y, rn.Y)
	}

	// Edited literals survive.
	rsrc := restored.NodeByID(src.ID)
	assert.True(t, rsrc.Inputs[0].Literal.RawEquals(cty.NumberFloatVal(3.5)))
	rsink := restored.NodeByID(sink.ID)
	assert.True(t, rsink.Inputs[2].Literal.RawEquals(cty.NumberIntVal(7)))

	// Resolved wildcard pins come back concrete, not wildcard.
	rident := restored.NodeByID(ident.ID)
	assert.Equal(t, typesys.Number, rident.Inputs[0].Type.Name)
	assert.Equal(t, typesys.Number, rident.Outputs[0].Type.Name)

	// New ids continue past the restored counters.
	fresh := restored.AddNode(entry, 0, 0)
	assert.Equal(t, 5, fresh.ID)

	// A second snapshot of the restored graph is byte-identical.
	again, err := restored.Snapshot()
	require.NoError(t, err)
	if diff := cmp.Diff(string(data), string(again)); diff != "" {
		t.Errorf("snapshot not stable across a round trip (-first +second):\n%s", diff)
	}
}

func TestRestoreSkipsUnresolvableItems(t *testing.T) {
	g, reg, _ := snapshotFixture(t)
	entry, _ := reg.Lookup("Start")
	worker, _ := reg.Lookup("Worker")

	start := g.AddNode(entry, 0, 0)
	sink := g.AddNode(worker, 0, 0)
	g.AddConnection(start, 0, sink, 0, g.Catalog().MustLookup(typesys.Exec))

	data, err := g.Snapshot()
	require.NoError(t, err)

	// Load into a registry that lost the Worker template: the node and the
	// connection into it are dropped, the rest survives.
	sparse := template.NewRegistry()
	sparse.Register(entry)

	restored, _, _ := snapshotFixture(t)
	require.NoError(t, restored.Restore(context.Background(), data, sparse))

	require.Len(t, restored.Nodes, 1)
	assert.Equal(t, "Start", restored.Nodes[0].Template.Name)
	assert.Empty(t, restored.Connections)
}

func TestRestoreRejectsMalformedDocument(t *testing.T) {
	g, reg, _ := snapshotFixture(t)
	err := g.Restore(context.Background(), []byte("{not json"), reg)
	assert.Error(t, err)
}

func TestRestoreClampsCounters(t *testing.T) {
	g, reg, _ := snapshotFixture(t)
	require.NoError(t, g.Restore(context.Background(),
		[]byte(`{"nodes":[],"connections":[],"viewport":{},"counters":{"nextId":0,"nextConnId":0}}`), reg))

	entry, _ := reg.Lookup("Start")
	n := g.AddNode(entry, 0, 0)
	assert.Equal(t, 1, n.ID)
	assert.Equal(t, 1.0, g.Viewport.Scale, "zero scale normalizes to 1")
}
