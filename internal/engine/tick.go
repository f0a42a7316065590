package engine

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/graph"
	"github.com/vk/nodewire/internal/template"
	"github.com/vk/nodewire/internal/typesys"
)

// processLocked handles the head queue item. single marks an explicit
// step, which processes even while paused.
func (e *Engine) processLocked(single bool) {
	if len(e.queue) == 0 {
		// A running graph that drains its queue stops automatically.
		if e.state == Running {
			e.stopLocked()
		}
		return
	}

	item := e.queue[0]
	e.queue = e.queue[1:]

	if e.state == Paused && !single {
		// A tick raced a pause; restore the item, no progress.
		e.queue = append([]queueItem{item}, e.queue...)
		return
	}

	e.last = &item
	node := item.node

	if item.via != nil {
		e.viz.WireActivated(item.via.ID)
	}
	e.viz.NodeHighlighted(node.ID, node.Template.Color)

	// Nodes without a behavior are pure control markers (entry points,
	// reroutes): nothing to evaluate, flow just continues.
	var result cty.Value
	if fnID := node.Template.FunctionID; fnID != "" {
		fn, ok := e.behaviors.Lookup(fnID)
		if !ok {
			e.failRunLocked(node, fmt.Errorf("behavior '%s' not registered for template '%s'", fnID, node.Template.Name))
			return
		}
		args, err := e.gatherInputsLocked(node, make(map[*graph.Node]bool))
		if err != nil {
			e.failRunLocked(node, err)
			return
		}
		result, err = e.invokeBehavior(fn, args)
		if err != nil {
			e.failRunLocked(node, err)
			return
		}
		node.SetCached(result)
	}

	if next := e.nextExecConnectionLocked(node, result); next != nil {
		e.queue = append(e.queue, queueItem{node: next.ToNode, via: next})
	}

	if e.state != Running || single {
		return
	}
	if len(e.queue) == 0 {
		e.stopLocked()
		return
	}
	e.scheduleTickLocked(e.interval)
}

// invokeBehavior calls a behavior, converting panics into plain errors so
// a buggy behavior stops the run instead of crashing the editor.
func (e *Engine) invokeBehavior(fn behavior.Func, args []cty.Value) (result cty.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("behavior panicked: %v", r)
		}
	}()
	return fn(e.runCtx, args)
}

// gatherInputsLocked resolves one argument per non-exec input pin, in pin
// order, pulling the pure upstream subgraph depth-first. Each resolved
// value is coerced to the consuming pin's declared type. Any error aborts
// the whole gather.
func (e *Engine) gatherInputsLocked(node *graph.Node, inFlight map[*graph.Node]bool) ([]cty.Value, error) {
	var args []cty.Value
	for _, pin := range node.Inputs {
		if pin.Type.IsExec() {
			continue
		}

		conn := e.graph.ConnectionInto(node, pin.Index)
		var v cty.Value
		if conn == nil {
			v = pin.Literal
			if v == cty.NilVal {
				v = pin.Type.Default
			}
		} else {
			resolved, err := e.sourceValueLocked(conn, inFlight)
			if err != nil {
				return nil, err
			}
			v = resolved
		}

		v = typesys.Coerce(v, pin.Type)
		if conn != nil {
			e.viz.DataValueProduced(conn.ID, typesys.FormatValue(v))
		}
		args = append(args, v)
	}
	return args, nil
}

// sourceValueLocked resolves the value delivered by a data connection.
// Impure sources already ran on the exec queue and are read from their
// cache; pure sources are evaluated on demand and memoized for the rest of
// the run, except volatile ones (variable reads), which re-evaluate on
// every pull so they observe mutations made earlier in the same pass.
func (e *Engine) sourceValueLocked(conn *graph.Connection, inFlight map[*graph.Node]bool) (cty.Value, error) {
	src := conn.FromNode

	if !src.Pure() {
		if v, ok := src.Cached(); ok {
			return v, nil
		}
		// The impure source has not executed this run; its consumers see
		// the output type's default.
		if p := src.Output(conn.FromPin); p != nil {
			return p.Type.Default, nil
		}
		return cty.NilVal, nil
	}

	if v, ok := src.Cached(); ok && !src.Template.Volatile {
		return v, nil
	}

	if inFlight[src] {
		return cty.NilVal, behavior.Domainf("cycle", "data dependency cycle through node %d (%s)", src.ID, src.Template.Name)
	}
	inFlight[src] = true
	defer delete(inFlight, src)

	fnID := src.Template.FunctionID
	if fnID == "" {
		// A pure node without a behavior produces its output default.
		v := cty.NilVal
		if p := src.Output(conn.FromPin); p != nil {
			v = p.Type.Default
		}
		src.SetCached(v)
		return v, nil
	}

	fn, ok := e.behaviors.Lookup(fnID)
	if !ok {
		return cty.NilVal, fmt.Errorf("behavior '%s' not registered for template '%s'", fnID, src.Template.Name)
	}

	args, err := e.gatherInputsLocked(src, inFlight)
	if err != nil {
		return cty.NilVal, err
	}
	result, err := e.invokeBehavior(fn, args)
	if err != nil {
		// Attach domain errors where they happened, not where the pull
		// started.
		if de, ok := behavior.IsDomain(err); ok {
			src.LastError = de
			return cty.NilVal, &upstreamError{de: de, node: src}
		}
		return cty.NilVal, err
	}

	src.SetCached(result)
	e.viz.NodeHighlighted(src.ID, src.Template.Color)
	return result, nil
}

// nextExecConnectionLocked selects the exec edge to follow after a node
// processed. Branch nodes pick the exec output named for their boolean
// result; everything else follows its sole exec output, if any.
func (e *Engine) nextExecConnectionLocked(node *graph.Node, result cty.Value) *graph.Connection {
	if node.Template.IsBranch() {
		name := template.BranchFalse
		if asBool(result) {
			name = template.BranchTrue
		}
		pin := node.OutputByName(name)
		if pin == nil {
			return nil
		}
		return e.graph.ConnectionFrom(node, pin.Index)
	}

	execs := node.ExecOutputs()
	if len(execs) == 0 {
		return nil
	}
	return e.graph.ConnectionFrom(node, execs[0].Index)
}

// invalidatePureAncestorsLocked clears the cached result of every pure
// node feeding the given node, recursively, stopping at impure nodes and
// unconnected pins. Used by replay so the re-run recomputes its inputs.
func (e *Engine) invalidatePureAncestorsLocked(node *graph.Node, seen map[*graph.Node]bool) {
	for _, pin := range node.Inputs {
		if pin.Type.IsExec() {
			continue
		}
		conn := e.graph.ConnectionInto(node, pin.Index)
		if conn == nil {
			continue
		}
		src := conn.FromNode
		if !src.Pure() || seen[src] {
			continue
		}
		seen[src] = true
		src.ClearCached()
		e.invalidatePureAncestorsLocked(src, seen)
	}
}

// upstreamError carries a domain error that already attached to a pure
// ancestor during gathering, so failRunLocked does not re-attach it to the
// node whose pull triggered the evaluation.
type upstreamError struct {
	de   *behavior.DomainError
	node *graph.Node
}

func (e *upstreamError) Error() string { return e.de.Error() }
func (e *upstreamError) Unwrap() error { return e.de }

// failRunLocked classifies an execution error and stops the run. Domain
// errors are user-caused: they attach to the offending node and surface
// without being treated as bugs. Anything else is logged as unexpected.
func (e *Engine) failRunLocked(node *graph.Node, err error) {
	logger := ctxlog.FromContext(e.runCtx)
	if de, ok := behavior.IsDomain(err); ok {
		offender := node
		var up *upstreamError
		if errors.As(err, &up) {
			offender = up.node
		} else {
			node.LastError = de
		}
		logger.Warn("Node raised a domain error, stopping run.",
			"nodeId", offender.ID, "template", offender.Template.Name, "error", de.Message, "code", de.Code)
	} else {
		logger.Error("Unexpected error during execution, stopping run.",
			"nodeId", node.ID, "template", node.Template.Name, "error", err)
	}
	e.stopLocked()
}
