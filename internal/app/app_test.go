package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nodewire/internal/engine"
)

const testManifest = `
node "Start" {
  output "Out" {
    type = "exec"
  }
}

node "Print" {
  function_id = "opPrint"

  input "Exec" {
    type = "exec"
  }
  input "Value" {
    type = "wildcard"
  }
  output "Out" {
    type = "exec"
  }
}

node "Add" {
  function_id = "opAdd"

  input "A" {
    type = "wildcard"
  }
  input "B" {
    type = "wildcard"
  }
  output "Out" {
    type = "wildcard"
  }
}
`

// testGraph wires Start -> Print, with a pure Add(2, 3) feeding the
// print node's value pin.
const testGraph = `{
  "nodes": [
    {
      "id": 1, "name": "Start", "x": 0, "y": 0,
      "inputs": [],
      "pinTypes": {"inputs": [], "outputs": ["exec"]}
    },
    {
      "id": 2, "name": "Print", "x": 200, "y": 0,
      "inputs": [
        {"name": "Exec", "value": null},
        {"name": "Value", "value": null}
      ],
      "pinTypes": {"inputs": ["exec", "number"], "outputs": ["exec"]}
    },
    {
      "id": 3, "name": "Add", "x": 100, "y": 100,
      "inputs": [
        {"name": "A", "value": 2},
        {"name": "B", "value": 3}
      ],
      "pinTypes": {"inputs": ["number", "number"], "outputs": ["number"]}
    }
  ],
  "connections": [
    {"id": 1, "fromNode": 1, "fromPin": 0, "toNode": 2, "toPin": 0, "type": "exec"},
    {"id": 2, "fromNode": 3, "fromPin": 0, "toNode": 2, "toPin": 1, "type": "number"}
  ],
  "viewport": {"x": 0, "y": 0, "scale": 1},
  "counters": {"nextId": 4, "nextConnId": 3}
}`

func writeFixtures(t *testing.T, graph string) *Config {
	t.Helper()
	dir := t.TempDir()
	manifests := filepath.Join(dir, "manifests")
	require.NoError(t, os.Mkdir(manifests, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(manifests, "core.hcl"), []byte(testManifest), 0o644))

	graphPath := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(graphPath, []byte(graph), 0o644))

	cfg, err := NewConfig(Config{
		GraphPath:    graphPath,
		ModulesPath:  manifests,
		LogFormat:    "text",
		LogLevel:     "info",
		TickInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return cfg
}

func TestRunExecutesSnapshotToCompletion(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFixtures(t, testGraph)

	a := NewApp(&out, cfg)
	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, engine.Stopped, a.Engine().State())
	assert.Contains(t, out.String(), "🖨️ 5", "the print node logs the pulled sum")
	assert.Contains(t, out.String(), "Run finished")
}

func TestRunWithoutEntryPointsWarns(t *testing.T) {
	var out bytes.Buffer
	empty := `{"nodes":[],"connections":[],"viewport":{"scale":1},"counters":{"nextId":1,"nextConnId":1}}`
	cfg := writeFixtures(t, empty)

	a := NewApp(&out, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "no entry points")
}

func TestRunRejectsMissingSnapshot(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFixtures(t, testGraph)
	cfg.GraphPath = filepath.Join(t.TempDir(), "missing.json")

	a := NewApp(&out, cfg)
	assert.Error(t, a.Run(context.Background()))
}

func TestNewAppRegistersPalette(t *testing.T) {
	var out bytes.Buffer
	cfg := writeFixtures(t, testGraph)

	a := NewApp(&out, cfg)
	for _, name := range []string{"Start", "Print", "Add"} {
		_, ok := a.Templates().Lookup(name)
		assert.True(t, ok, "template %q must be in the palette", name)
	}
}
