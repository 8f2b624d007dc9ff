// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"github.com/pkg/errors"
)

// A Backend selects an evaluation strategy. All backends are bit-identical
// in observable behavior for the same netlist and input sequence; they differ
// only in speed and availability.
//
type Backend uint8

// Available backends.
const (
	// Interp walks the cached schedule every tick, dispatching on each
	// gate's operation tag. Always available.
	Interp Backend = iota
	// Compiled translates the schedule into generated native code once at
	// construction time. Falls back to Interp when code generation is
	// unavailable on the host, unless NoFallback is set.
	Compiled
	// Vector packs independent simulation lanes into machine words and
	// evaluates all lanes with single bitwise operations.
	Vector
)

func (b Backend) String() string {
	switch b {
	case Interp:
		return "interp"
	case Compiled:
		return "compiled"
	case Vector:
		return "vector"
	}
	return "unknown"
}

// An Evaluator runs a netlist. Evaluators over the same shared netlist own
// fully independent mutable state; a single Evaluator must not be ticked
// concurrently from multiple goroutines.
//
type Evaluator interface {
	// Poke sets the named input port to v on all lanes. The new value is
	// seen by the next Tick; Poke does not itself trigger settling.
	Poke(name string, v uint64) error
	// PokeLane sets the named input port to v on a single lane.
	PokeLane(name string, v uint64, lane int) error
	// PokeAll sets the named input port from one value per lane.
	PokeAll(name string, vs []uint64) error
	// Peek returns the last settled value of the named port on lane 0.
	Peek(name string) (uint64, error)
	// PeekLane returns the last settled value of the named port on a lane.
	PeekLane(name string, lane int) (uint64, error)
	// PeekAll appends the named port's value for every lane to dst.
	PeekAll(name string, dst []uint64) ([]uint64, error)
	// Tick performs one simulation step: combinational settle, then clock
	// edge capture.
	Tick()
	// RunSteps performs n ticks.
	RunSteps(n int)
	// Steps returns the number of ticks performed so far.
	Steps() uint64
	// Lanes returns the number of simulation lanes.
	Lanes() int
	// Backend returns the backend actually in use (after any fallback).
	Backend() Backend
	// Netlist returns the netlist this evaluator runs.
	Netlist() *Netlist
	// Notice returns a diagnostic message when construction degraded the
	// evaluator, e.g. a compiled backend that fell back to the interpreter.
	Notice() string
	// Close releases resources held by the evaluator. Only the compiled
	// backend holds any; Close is a no-op elsewhere.
	Close() error
}

type config struct {
	backend    Backend
	lanes      int
	noFallback bool
	falling    bool
}

// An Option configures an Evaluator at construction time.
type Option func(*config)

// WithBackend selects the evaluation backend. The default is Interp.
func WithBackend(b Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithLanes sets the number of independent simulation lanes. The default
// is 1. The Vector backend packs 64 lanes per machine word; the other
// backends evaluate lanes sequentially.
//
func WithLanes(n int) Option {
	return func(c *config) { c.lanes = n }
}

// NoFallback makes New return a BackendUnavailableError instead of silently
// degrading to the interpreter when the requested backend is unavailable.
//
func NoFallback() Option {
	return func(c *config) { c.noFallback = true }
}

// FallingEdge makes flip-flops sample on the falling clock edge instead of
// the rising one.
//
func FallingEdge() Option {
	return func(c *config) { c.falling = true }
}

// New constructs an Evaluator for the given netlist.
//
// The netlist is only read, never written: any number of evaluators may be
// constructed over the same netlist and run on separate goroutines with no
// synchronization.
//
func New(n *Netlist, opts ...Option) (Evaluator, error) {
	cfg := config{backend: Interp, lanes: 1}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.lanes < 1 {
		return nil, errors.Errorf("invalid lane count %d", cfg.lanes)
	}

	switch cfg.backend {
	case Interp:
		return newInterp(n, cfg.lanes, cfg.falling), nil
	case Compiled:
		ev, err := newCompiled(n, cfg.lanes, cfg.falling)
		if err == nil {
			return ev, nil
		}
		if cfg.noFallback {
			return nil, &BackendUnavailableError{Backend: Compiled, Reason: err.Error()}
		}
		iv := newInterp(n, cfg.lanes, cfg.falling)
		iv.notice = "compiled backend unavailable (" + err.Error() + "), using interpreter"
		return iv, nil
	case Vector:
		return newVector(n, cfg.lanes, cfg.falling), nil
	}
	return nil, errors.Errorf("unknown backend %d", cfg.backend)
}

// port resolution shared by all backends.

type portNet struct {
	idx   int // index into Netlist.nets
	width int
}

func resolvePort(n *Netlist, ids []NetID) []portNet {
	p := make([]portNet, len(ids))
	for i, id := range ids {
		ni := n.netIdx[id]
		p[i] = portNet{idx: ni, width: n.nets[ni].Width}
	}
	return p
}

// ports caches the name -> net resolution for poke and peek.
type ports struct {
	in  map[string][]portNet
	all map[string][]portNet // outputs first, inputs may shadow nothing
}

func newPorts(n *Netlist) ports {
	p := ports{
		in:  make(map[string][]portNet, len(n.inputs)),
		all: make(map[string][]portNet, len(n.inputs)+len(n.outputs)),
	}
	for name, ids := range n.inputs {
		r := resolvePort(n, ids)
		p.in[name] = r
		p.all[name] = r
	}
	for name, ids := range n.outputs {
		p.all[name] = resolvePort(n, ids)
	}
	return p
}

func (p *ports) input(name string) ([]portNet, error) {
	r, ok := p.in[name]
	if !ok {
		return nil, UnknownSignalError(name)
	}
	return r, nil
}

func (p *ports) port(name string) ([]portNet, error) {
	r, ok := p.all[name]
	if !ok {
		return nil, UnknownSignalError(name)
	}
	return r, nil
}

func widthMask(w int) uint64 {
	return ^uint64(0) >> (64 - uint(w))
}
