// Package app wires the interpreter together: type catalog, template
// registry, behavior modules, variable store, engine, and the optional
// status server and renderer connection.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/engine"
	"github.com/vk/nodewire/internal/graph"
	"github.com/vk/nodewire/internal/manifest"
	"github.com/vk/nodewire/internal/snapstore"
	"github.com/vk/nodewire/internal/template"
	"github.com/vk/nodewire/internal/typesys"
	"github.com/vk/nodewire/internal/vars"
)

// App encapsulates the interpreter's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	catalog   *typesys.Catalog
	templates *template.Registry
	behaviors *behavior.Registry
	store     *vars.Store
	snapshots *snapstore.Store

	graph      *graph.Graph
	engine     *engine.Engine
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with an isolated logger and registries; behavior
// modules default to the core set when none are given. Manifest load
// failures are fatal startup errors and panic.
func NewApp(outW io.Writer, cfg *Config, modules ...behavior.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		catalog:   typesys.NewCatalog(),
		templates: template.NewRegistry(),
		behaviors: behavior.New(),
		store:     vars.NewStore(),
		snapshots: snapstore.New(),
	}

	if len(modules) == 0 {
		modules = coreModules(a.store)
	}
	a.behaviors.Install(modules...)
	logger.Debug("Behavior modules registered.", "count", len(modules))

	if err := manifest.Load(ctx, cfg.ModulesPath, a.catalog, a.templates); err != nil {
		panic(fmt.Errorf("failed to load node manifests: %w", err))
	}
	logger.Debug("Node manifests loaded.", "templates", a.templates.Len())

	return a
}

// Templates returns the app's template registry. Primarily for testing.
func (a *App) Templates() *template.Registry {
	return a.templates
}

// Engine returns the app's engine once Run has built it.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
