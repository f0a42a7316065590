package engine

import (
	"sync"
	"time"
)

// Pacer schedules the delayed callbacks that pace a run. The delay exists
// purely so an attached renderer can animate wire activation; the pull
// algorithm itself is synchronous. Injecting the pacer keeps the engine
// deterministic under test.
type Pacer interface {
	// Schedule arranges for fn to run after d and returns a cancel
	// function. Cancel after firing is a no-op.
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerPacer is the production pacer, backed by time.AfterFunc.
type TimerPacer struct{}

func (TimerPacer) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualPacer queues callbacks until the caller fires them, so tests (and
// embedders that drive the engine from their own loop) control exactly
// when each tick happens.
type ManualPacer struct {
	mu      sync.Mutex
	pending []*scheduled
}

type scheduled struct {
	fn func()
}

func (p *ManualPacer) Schedule(_ time.Duration, fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := &scheduled{fn: fn}
	p.pending = append(p.pending, s)
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		s.fn = nil
	}
}

// Fire runs the oldest scheduled callback. It reports whether one ran.
func (p *ManualPacer) Fire() bool {
	p.mu.Lock()
	var fn func()
	for len(p.pending) > 0 {
		s := p.pending[0]
		p.pending = p.pending[1:]
		if s.fn != nil {
			fn = s.fn
			break
		}
	}
	p.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Drain fires scheduled callbacks until none remain or max have run,
// returning how many ran. The cap guards tests against runaway graphs.
func (p *ManualPacer) Drain(max int) int {
	fired := 0
	for fired < max && p.Fire() {
		fired++
	}
	return fired
}

// Pending reports how many callbacks are waiting.
func (p *ManualPacer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.pending {
		if s.fn != nil {
			n++
		}
	}
	return n
}
