package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/engine"
	"github.com/vk/nodewire/internal/graph"
	"github.com/vk/nodewire/internal/viz"
)

// Run loads the configured graph snapshot and executes it to completion.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	data, err := os.ReadFile(a.config.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to read graph snapshot '%s': %w", a.config.GraphPath, err)
	}

	g := graph.New(a.catalog)
	if err := g.Restore(ctx, data, a.templates); err != nil {
		return fmt.Errorf("failed to restore graph snapshot: %w", err)
	}
	a.graph = g
	a.logger.Debug("Graph restored.", "nodes", len(g.Nodes), "connections", len(g.Connections))

	// Checkpoint the loaded document so the status API can roll back to
	// the pristine state.
	entry := a.snapshots.Save("startup", data)
	a.logger.Debug("Startup snapshot checkpointed.", "snapshotId", entry.ID)

	visualizer, cleanup, err := a.buildVisualizer(ctx)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	a.engine = engine.New(engine.Options{
		Graph:        g,
		Behaviors:    a.behaviors,
		Vars:         a.store,
		Viz:          visualizer,
		TickInterval: a.config.TickInterval,
	})

	if a.config.StatusPort > 0 {
		a.startStatusServer(ctx)
		defer a.closeStatusServer(ctx)
	}

	if len(g.EntryPoints()) == 0 {
		a.logger.Warn("Graph has no entry points, nothing to execute.")
		return nil
	}

	a.logger.Info("🚀 Starting run.", "entryPoints", len(g.EntryPoints()))
	if a.config.StartPaused {
		a.engine.StartPaused(ctx)
	} else {
		a.engine.Start(ctx)
	}
	a.engine.Wait()
	a.logger.Info("🏁 Run finished.")

	for _, n := range g.Nodes {
		if n.LastError != nil {
			a.logger.Warn("Node finished with an error.",
				"nodeId", n.ID, "template", n.Template.Name, "error", n.LastError)
		}
	}
	return nil
}

// buildVisualizer assembles the event sinks: always the debug tracer,
// plus the socket.io publisher when a renderer URL is configured.
func (a *App) buildVisualizer(ctx context.Context) (viz.Visualizer, func(), error) {
	tracer := &viz.Tracer{Logger: a.logger}
	if a.config.VizURL == "" {
		return tracer, nil, nil
	}

	publisher, err := viz.NewPublisher(ctx, a.config.VizURL, a.config.VizNamespace)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect renderer: %w", err)
	}
	return viz.Multi{tracer, publisher}, publisher.Close, nil
}
