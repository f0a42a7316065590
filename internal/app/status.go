package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/vk/nodewire/internal/ctxlog"
)

// statusResponse is the payload for GET /status.
type statusResponse struct {
	State       string `json:"state"`
	QueueLength int    `json:"queueLength"`
	Nodes       int    `json:"nodes"`
	Connections int    `json:"connections"`
	Snapshots   int    `json:"snapshots"`
}

type snapshotInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, statusResponse{
		State:       a.engine.State().String(),
		QueueLength: a.engine.QueueLen(),
		Nodes:       len(a.graph.Nodes),
		Connections: len(a.graph.Connections),
		Snapshots:   a.snapshots.Len(),
	})
}

func (a *App) listSnapshotsHandler(w http.ResponseWriter, r *http.Request) {
	entries := a.snapshots.List()
	infos := make([]snapshotInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, snapshotInfo{ID: e.ID.String(), Name: e.Name, CreatedAt: e.CreatedAt})
	}
	a.writeJSON(w, http.StatusOK, infos)
}

func (a *App) saveSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	data, err := a.graph.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "checkpoint"
	}
	entry := a.snapshots.Save(name, data)
	a.writeJSON(w, http.StatusCreated, snapshotInfo{ID: entry.ID.String(), Name: entry.Name, CreatedAt: entry.CreatedAt})
}

func (a *App) getSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid snapshot id", http.StatusBadRequest)
		return
	}
	data, ok := a.snapshots.Get(id)
	if !ok {
		http.Error(w, "snapshot not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// controlHandler exposes the engine's state machine to external tooling:
// pause, resume, step, replay and stop.
func (a *App) controlHandler(w http.ResponseWriter, r *http.Request) {
	ctx := ctxlog.WithLogger(r.Context(), a.logger)
	switch action := r.PathValue("action"); action {
	case "pause":
		a.engine.Pause()
	case "resume":
		a.engine.Resume()
	case "step":
		a.engine.Step(ctx)
	case "replay":
		a.engine.ReplayStep()
	case "stop":
		a.engine.Stop()
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", action), http.StatusBadRequest)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"state": a.engine.State().String()})
}

// startStatusServer runs the status HTTP server in a goroutine so it
// never blocks the run.
func (a *App) startStatusServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", a.statusHandler)
	mux.HandleFunc("GET /snapshots", a.listSnapshotsHandler)
	mux.HandleFunc("POST /snapshots", a.saveSnapshotHandler)
	mux.HandleFunc("GET /snapshots/{id}", a.getSnapshotHandler)
	mux.HandleFunc("POST /control/{action}", a.controlHandler)

	addr := fmt.Sprintf(":%d", a.config.StatusPort)
	a.httpServer = &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeStatusServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Debug("Shutting down status server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return
	}
	logger.Debug("Status server shut down gracefully.")
}
