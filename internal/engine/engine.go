// Package engine interprets a node graph. Exec-linked nodes advance
// through a strict FIFO queue, one per tick; each processed node pulls its
// data inputs from the upstream pure subgraph depth-first with per-run
// memoization. The model is single-threaded and cooperative: ticks are
// spaced by an injected pacer purely for animation, and a superseded run's
// pending tick abandons itself through a run-instance token check.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/graph"
	"github.com/vk/nodewire/internal/vars"
	"github.com/vk/nodewire/internal/viz"
)

// State is the engine lifecycle state.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// queueItem is one pending unit of exec work: the node to process and the
// exec connection that activated it (nil for entry points).
type queueItem struct {
	node *graph.Node
	via  *graph.Connection
}

// DefaultTickInterval paces consecutive ticks of a running graph.
const DefaultTickInterval = 250 * time.Millisecond

// Options configures a new Engine.
type Options struct {
	Graph     *graph.Graph
	Behaviors *behavior.Registry
	// Vars is the external runtime-value store reset on every run. A
	// fresh store is created when nil.
	Vars *vars.Store
	// Viz receives animation events; defaults to a no-op sink.
	Viz viz.Visualizer
	// Pacer schedules ticks; defaults to the timer-backed pacer.
	Pacer Pacer
	// TickInterval is the pacing delay between ticks.
	TickInterval time.Duration
}

// Engine drives one graph. All public methods are safe for concurrent use,
// but execution itself is never concurrent with itself: a single mutex
// serializes every tick.
type Engine struct {
	mu        sync.Mutex
	graph     *graph.Graph
	behaviors *behavior.Registry
	vars      *vars.Store
	viz       viz.Visualizer
	pacer     Pacer
	interval  time.Duration

	state State
	queue []queueItem
	// token identifies the live run. Every scheduled tick captures it on
	// entry; a resumed tick whose captured token differs aborts silently.
	token      int64
	last       *queueItem
	cancelTick func()
	runCtx     context.Context
	done       chan struct{}
}

// New creates an engine in the Stopped state.
func New(opts Options) *Engine {
	if opts.Graph == nil {
		panic("engine: Options.Graph is required")
	}
	if opts.Behaviors == nil {
		panic("engine: Options.Behaviors is required")
	}
	e := &Engine{
		graph:     opts.Graph,
		behaviors: opts.Behaviors,
		vars:      opts.Vars,
		viz:       opts.Viz,
		pacer:     opts.Pacer,
		interval:  opts.TickInterval,
		runCtx:    context.Background(),
	}
	if e.vars == nil {
		e.vars = vars.NewStore()
	}
	if e.viz == nil {
		e.viz = viz.Nop{}
	}
	if e.pacer == nil {
		e.pacer = TimerPacer{}
	}
	if e.interval <= 0 {
		e.interval = DefaultTickInterval
	}
	return e
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// QueueLen reports the number of pending exec items.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Vars exposes the run's variable store.
func (e *Engine) Vars() *vars.Store { return e.vars }

// initializeLocked resets all per-run state: cached results and node
// errors are cleared, the queue is reseeded with the graph's entry points,
// the run-instance token is bumped (abandoning any in-flight continuation)
// and the variable store is reset.
func (e *Engine) initializeLocked(ctx context.Context) {
	e.token++
	e.cancelPendingTickLocked()
	e.graph.ClearRunState()
	e.vars.Reset()
	e.queue = e.queue[:0]
	for _, entry := range e.graph.EntryPoints() {
		e.queue = append(e.queue, queueItem{node: entry})
	}
	e.last = nil
	e.runCtx = ctx
	if e.done != nil {
		// Release waiters on the superseded run.
		close(e.done)
	}
	e.done = make(chan struct{})
	ctxlog.FromContext(ctx).Debug("Run initialized.", "entryPoints", len(e.queue), "runToken", e.token)
}

// Start begins a fresh run and ticks until the queue drains or an error
// stops it.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initializeLocked(ctx)
	e.setStateLocked(Running)
	e.scheduleTickLocked(0)
}

// StartPaused begins a fresh run but holds it before the first item, ready
// for single-stepping.
func (e *Engine) StartPaused(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initializeLocked(ctx)
	e.setStateLocked(Paused)
}

// Pause suspends a running graph between ticks.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Running {
		return
	}
	e.cancelPendingTickLocked()
	e.setStateLocked(Paused)
}

// Resume continues a paused run.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Paused {
		return
	}
	e.setStateLocked(Running)
	e.scheduleTickLocked(0)
}

// Stop ends the run: the queue is cleared and the token bumped so any
// pending continuation abandons itself. Node errors stay visible until the
// next run reinitializes.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// Step processes exactly one queue item. From Stopped it first starts a
// fresh paused run; from Paused it advances one item; while Running it
// does nothing.
func (e *Engine) Step(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Stopped {
		e.initializeLocked(ctx)
		e.setStateLocked(Paused)
	}
	if e.state != Paused {
		return
	}
	e.processLocked(true)
}

// ReplayStep re-runs the last processed item while paused. The cached
// results of every pure ancestor feeding that node are invalidated first,
// so edited literals and upstream changes are observed on the re-run.
func (e *Engine) ReplayStep() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Paused || e.last == nil {
		return
	}
	item := *e.last
	e.invalidatePureAncestorsLocked(item.node, make(map[*graph.Node]bool))
	e.queue = append([]queueItem{item}, e.queue...)
	e.processLocked(true)
}

// Wait blocks until the current run stops. It returns immediately if no
// run was ever started.
func (e *Engine) Wait() {
	e.mu.Lock()
	ch := e.done
	e.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	e.state = s
	e.viz.StateChanged(s.String())
}

func (e *Engine) cancelPendingTickLocked() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}

func (e *Engine) stopLocked() {
	e.token++
	e.cancelPendingTickLocked()
	e.queue = nil
	e.setStateLocked(Stopped)
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
}

// scheduleTickLocked arranges the next tick. The closure captures the live
// token; by the time it runs, a newer run may have superseded this one, in
// which case it must abandon itself without touching any state.
func (e *Engine) scheduleTickLocked(d time.Duration) {
	e.cancelPendingTickLocked()
	captured := e.token
	e.cancelTick = e.pacer.Schedule(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.token != captured || e.state != Running {
			// Stale continuation from a superseded or paused run.
			return
		}
		e.processLocked(false)
	})
}

// asBool reports whether a behavior result is boolean true.
func asBool(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type() == cty.Bool && v.True()
}
