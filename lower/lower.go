// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lower flattens hierarchical part descriptions into netsim
// netlists.
//
// Parts are described by a PartSpec: named input and output pins (buses
// expand to individual pins) and either a Mount function emitting primitive
// gates and flip-flops, or a list of sub parts wired together, built with
// Chip. Lowering expands sub parts recursively, allocating fresh nets as it
// goes, until only primitives remain; the result is a flat, validated,
// scheduled netlist.
//
package lower

import (
	"strconv"

	"github.com/db47h/netsim"
	"github.com/pkg/errors"
)

// Constant wire names, usable in any connection description.
//
const (
	True  = "true"
	False = "false"
)

// An UnsupportedComponentError is returned when lowering a part that has
// neither a primitive mapping nor a sub part decomposition.
//
type UnsupportedComponentError string

func (e UnsupportedComponentError) Error() string {
	return "no primitive mapping or decomposition for part " + string(e)
}

// A WidthMismatchError is returned when a connection joins a pin group and a
// wire group of different widths.
//
type WidthMismatchError struct {
	Part string
	Pin  string
	Wire string
	Want int
	Got  int
}

func (e *WidthMismatchError) Error() string {
	return "part " + e.Part + ": cannot connect " + strconv.Itoa(e.Want) + " bit pin " +
		e.Pin + " to " + strconv.Itoa(e.Got) + " bit wire " + e.Wire
}

// A MountFn emits the primitive gates and flip-flops of a part. It queries
// the socket for the nets assigned to the part's pins:
//
//	var notSpec = &PartSpec{
//		Name:    "NOT",
//		Inputs:  IO("in"),
//		Outputs: IO("out"),
//		Mount: func(s *Socket) error {
//			s.Builder().Gate(netsim.Not, s.Pin("out"), s.Pin("in"))
//			return nil
//		}}
//
type MountFn func(s *Socket) error

// A PartSpec is a part blueprint. A part with a Mount function is a
// primitive; a part with sub Parts is expanded recursively. When both are
// present the primitive mapping wins and Parts is ignored.
//
type PartSpec struct {
	// Part name, used in error messages.
	Name string
	// Input pin names. Use IO to expand a declaration like "a, b, sel".
	Inputs []string
	// Output pin names.
	Outputs []string
	// Primitive mapping.
	Mount MountFn
	// Sub part decomposition with its wiring. Build composite specs with
	// Chip rather than filling this in directly.
	Parts []Part

	wires *wiring // set by Chip
}

// NewPart wraps the spec with the given connections into a Part. It panics
// if the connection description does not parse; connections are checked
// against the spec's pins later, during lowering.
//
func (p *PartSpec) NewPart(conns string) Part {
	ex, err := ParseConnections(conns)
	if err != nil {
		panic(err)
	}
	return Part{p, ex}
}

// A NewPartFn instantiates a part from a connection description.
//
type NewPartFn func(conns string) Part

// A Part is a part specification wired into a host chip.
//
type Part struct {
	*PartSpec
	Conns []Conn
}

// mount dispatches to the primitive mapping if there is one, else to the
// decomposition.
func (p *PartSpec) mount(s *Socket) error {
	if p.Mount != nil {
		return p.Mount(s)
	}
	if len(p.Parts) > 0 {
		w := p.wires
		if w == nil {
			var err error
			if w, err = buildWiring(p.Inputs, p.Outputs, p.Parts); err != nil {
				return errors.Wrap(err, p.Name)
			}
		}
		return mountParts(s, p.Parts, w)
	}
	return UnsupportedComponentError(p.Name)
}

// A Builder accumulates the nets, gates and flip-flops of a netlist under
// construction. Net and device ids are allocated sequentially.
//
type Builder struct {
	nets  []netsim.Net
	gates []netsim.Gate
	dffs  []netsim.DFF

	fNet netsim.NetID // lazily allocated constant nets
	tNet netsim.NetID
}

func newBuilder() *Builder {
	return &Builder{fNet: netsim.NoNet, tNet: netsim.NoNet}
}

// Net allocates a fresh 1 bit net.
//
func (b *Builder) Net() netsim.NetID {
	id := netsim.NetID(len(b.nets))
	b.nets = append(b.nets, netsim.Net{ID: id, Width: 1})
	return id
}

// Gate emits a gate driving out from ins.
//
func (b *Builder) Gate(op netsim.GateOp, out netsim.NetID, ins ...netsim.NetID) {
	b.gates = append(b.gates, netsim.Gate{
		ID:  netsim.GateID(len(b.gates)),
		Op:  op,
		In:  ins,
		Out: out,
	})
}

// Const emits a constant gate driving out with val.
//
func (b *Builder) Const(out netsim.NetID, val uint64) {
	b.gates = append(b.gates, netsim.Gate{
		ID:  netsim.GateID(len(b.gates)),
		Op:  netsim.Const,
		Out: out,
		Val: val,
	})
}

// DFF emits a flip-flop. reset may be netsim.NoNet.
//
func (b *Builder) DFF(d, q, clk, reset netsim.NetID, resetVal uint64) {
	b.dffs = append(b.dffs, netsim.DFF{
		ID:       netsim.DFFID(len(b.dffs)),
		D:        d,
		Q:        q,
		Clk:      clk,
		Reset:    reset,
		ResetVal: resetVal,
	})
}

// FalseNet returns the constant 0 net, allocating it and its driver on first
// use.
//
func (b *Builder) FalseNet() netsim.NetID {
	if b.fNet == netsim.NoNet {
		b.fNet = b.Net()
		b.Const(b.fNet, 0)
	}
	return b.fNet
}

// TrueNet returns the constant 1 net, allocating it and its driver on first
// use.
//
func (b *Builder) TrueNet() netsim.NetID {
	if b.tNet == netsim.NoNet {
		b.tNet = b.Net()
		b.Const(b.tNet, 1)
	}
	return b.tNet
}

// A Socket maps a part's pin names to nets in the netlist under
// construction.
//
type Socket struct {
	m map[string]netsim.NetID
	b *Builder
}

func newSocket(b *Builder) *Socket {
	return &Socket{m: make(map[string]netsim.NetID), b: b}
}

// Builder returns the netlist builder, for use in Mount functions.
//
func (s *Socket) Builder() *Builder { return s.b }

// Pin returns the net assigned to the given pin name. It panics if the pin
// does not exist: parents assign nets to all declared pins before mounting.
//
func (s *Socket) Pin(name string) netsim.NetID {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// Bus returns the nets assigned to the given bus, low bit first.
//
func (s *Socket) Bus(name string, bits int) []netsim.NetID {
	out := make([]netsim.NetID, bits)
	for i := range out {
		out[i] = s.Pin(BusPinName(name, i))
	}
	return out
}

// pinOrNew returns the net assigned to a wire name, allocating one on first
// reference. The constant wire names resolve to the builder's constant nets.
func (s *Socket) pinOrNew(name string) netsim.NetID {
	switch name {
	case False:
		return s.b.FalseNet()
	case True:
		return s.b.TrueNet()
	}
	n, ok := s.m[name]
	if !ok {
		n = s.b.Net()
		s.m[name] = n
	}
	return n
}

// Build lowers a part into a flat netlist. The part's input pins become the
// netlist's named inputs and its output pins the named outputs, with bus
// pins grouped back into multi-net ports (name -> one net per bit, low bit
// first). Build returns no partial netlist on failure.
//
func Build(pf NewPartFn) (*netsim.Netlist, error) {
	p := pf("")
	b := newBuilder()
	s := newSocket(b)

	// assign nets to the top level interface before mounting.
	for _, name := range p.Inputs {
		s.pinOrNew(name)
	}
	for _, name := range p.Outputs {
		s.pinOrNew(name)
	}

	if err := p.mount(s); err != nil {
		return nil, err
	}

	inputs, err := groupPorts(s, p.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := groupPorts(s, p.Outputs)
	if err != nil {
		return nil, err
	}

	n, err := netsim.NewNetlist(b.nets, b.gates, b.dffs, inputs, outputs)
	return n, errors.Wrap(err, p.Name)
}

// groupPorts groups per-bit pin names back into ports: "sum[0]", "sum[1]"
// become port "sum" with one net per bit.
func groupPorts(s *Socket, pins []string) (map[string][]netsim.NetID, error) {
	ports := make(map[string][]netsim.NetID)
	for _, pn := range pins {
		name, idx, err := parseName(pn)
		if err != nil {
			return nil, err
		}
		if idx == nil {
			ports[name] = []netsim.NetID{s.Pin(pn)}
			continue
		}
		if len(ports[name]) != idx[0] {
			return nil, errors.Errorf("non contiguous bus %s", name)
		}
		ports[name] = append(ports[name], s.Pin(pn))
	}
	return ports, nil
}
