// Package viz is the engine's window to the outside world: a
// fire-and-forget callback surface an external renderer subscribes to.
// Nothing the engine does depends on a visualizer's return value or
// timing; implementations must never block meaningfully.
package viz

import "log/slog"

// Visualizer receives animation events as a run progresses.
type Visualizer interface {
	// NodeHighlighted fires when a node starts processing; color is the
	// template's header color.
	NodeHighlighted(nodeID int, color string)
	// WireActivated fires when an exec wire carries control flow.
	WireActivated(connectionID int)
	// DataValueProduced fires when a data wire delivers a value, already
	// formatted for display.
	DataValueProduced(connectionID int, formattedValue string)
	// StateChanged fires on every engine state transition.
	StateChanged(newState string)
}

// Nop is a Visualizer that discards every event.
type Nop struct{}

func (Nop) NodeHighlighted(int, string)   {}
func (Nop) WireActivated(int)             {}
func (Nop) DataValueProduced(int, string) {}
func (Nop) StateChanged(string)           {}

// Tracer logs every event at debug level; useful for headless runs.
type Tracer struct {
	Logger *slog.Logger
}

func (t *Tracer) NodeHighlighted(nodeID int, color string) {
	t.Logger.Debug("viz: node highlighted", "nodeId", nodeID, "color", color)
}

func (t *Tracer) WireActivated(connectionID int) {
	t.Logger.Debug("viz: wire activated", "connId", connectionID)
}

func (t *Tracer) DataValueProduced(connectionID int, formattedValue string) {
	t.Logger.Debug("viz: data value", "connId", connectionID, "value", formattedValue)
}

func (t *Tracer) StateChanged(newState string) {
	t.Logger.Debug("viz: state changed", "state", newState)
}

// Multi fans events out to several visualizers.
type Multi []Visualizer

func (m Multi) NodeHighlighted(nodeID int, color string) {
	for _, v := range m {
		v.NodeHighlighted(nodeID, color)
	}
}

func (m Multi) WireActivated(connectionID int) {
	for _, v := range m {
		v.WireActivated(connectionID)
	}
}

func (m Multi) DataValueProduced(connectionID int, formattedValue string) {
	for _, v := range m {
		v.DataValueProduced(connectionID, formattedValue)
	}
}

func (m Multi) StateChanged(newState string) {
	for _, v := range m {
		v.StateChanged(newState)
	}
}
