// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// NetID identifies a net within a netlist.
type NetID int32

// GateID identifies a gate within a netlist.
type GateID int32

// DFFID identifies a flip-flop within a netlist.
type DFFID int32

// NoNet marks an absent optional net, like an unconnected flip-flop reset.
const NoNet NetID = -1

// A GateOp is the operation performed by a gate. The vocabulary is closed:
// everything a netlist computes combinationally reduces to these ten
// operations.
//
type GateOp uint8

// Gate operations.
const (
	And GateOp = iota
	Or
	Xor
	Not
	Nand
	Nor
	Xnor
	Buf
	Mux
	Const
)

var opNames = [...]string{
	And:   "AND",
	Or:    "OR",
	Xor:   "XOR",
	Not:   "NOT",
	Nand:  "NAND",
	Nor:   "NOR",
	Xnor:  "XNOR",
	Buf:   "BUF",
	Mux:   "MUX",
	Const: "CONST",
}

func (op GateOp) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "GateOp(" + strconv.Itoa(int(op)) + ")"
}

// OpFromString returns the GateOp for an operation name as used in the JSON
// interchange format.
//
func OpFromString(s string) (GateOp, error) {
	for op, n := range opNames {
		if n == s {
			return GateOp(op), nil
		}
	}
	return 0, errors.Errorf("unknown gate operation %q", s)
}

// A Net is a wire in the flattened netlist. It has a single driver (a gate
// output, a flip-flop Q, or a primary input) and carries Width bits per
// simulation lane.
//
type Net struct {
	ID    NetID
	Width int
}

// A Gate computes one GateOp over its input nets and drives its output net.
// In is ordered; for Mux it holds [a, b, sel] with the selector last, and for
// Const it is empty, the gate driving Val.
//
type Gate struct {
	ID  GateID
	Op  GateOp
	In  []NetID
	Out NetID
	Val uint64 // Const only
}

// A DFF is a D flip-flop with optional synchronous reset. On the sampling
// clock edge, Q becomes ResetVal if Reset is asserted, else the sampled D
// value. Reset is NoNet when the flip-flop has no reset input.
//
type DFF struct {
	ID       DFFID
	D        NetID
	Q        NetID
	Clk      NetID
	Reset    NetID
	ResetVal uint64
}

// A Netlist is the flat gate-level representation of a circuit: nets, gates,
// flip-flops and named port maps, plus a cached topological evaluation order.
// A Netlist is immutable once built and may be shared read-only by any number
// of evaluators.
//
type Netlist struct {
	nets    []Net
	gates   []Gate
	dffs    []DFF
	inputs  map[string][]NetID
	outputs map[string][]NetID

	netIdx  map[NetID]int  // net id -> index in nets
	gateIdx map[GateID]int // gate id -> index in gates
	order   []int          // cached schedule, indices into gates
}

// MaxPortWidth is the widest port readable or writable as a single value.
const MaxPortWidth = 64

// NewNetlist builds a netlist from its parts, validates it and computes the
// cached evaluation schedule. On error no partial netlist is returned.
//
// The invariants checked here are the ones every evaluator relies on: unique
// ids, exactly one driver per net, width conservation, and acyclicity of the
// combinational graph (flip-flop outputs count as sources).
//
func NewNetlist(nets []Net, gates []Gate, dffs []DFF, inputs, outputs map[string][]NetID) (*Netlist, error) {
	n := &Netlist{
		nets:    append([]Net(nil), nets...),
		gates:   append([]Gate(nil), gates...),
		dffs:    append([]DFF(nil), dffs...),
		inputs:  copyPorts(inputs),
		outputs: copyPorts(outputs),
		netIdx:  make(map[NetID]int, len(nets)),
		gateIdx: make(map[GateID]int, len(gates)),
	}
	for i := range n.gates {
		n.gates[i].In = append([]NetID(nil), n.gates[i].In...)
	}

	for i, t := range n.nets {
		if t.Width < 1 || t.Width > 64 {
			return nil, errors.Errorf("net %d: invalid width %d", t.ID, t.Width)
		}
		if _, ok := n.netIdx[t.ID]; ok {
			return nil, errors.Errorf("duplicate net id %d", t.ID)
		}
		n.netIdx[t.ID] = i
	}

	// driver bookkeeping: every net gets exactly one.
	driven := make([]bool, len(n.nets))
	drive := func(id NetID, by string) error {
		i, ok := n.netIdx[id]
		if !ok {
			return errors.Errorf("%s drives unknown net %d", by, id)
		}
		if driven[i] {
			return errors.Errorf("net %d has more than one driver (%s)", id, by)
		}
		driven[i] = true
		return nil
	}

	for name, ids := range n.inputs {
		if err := n.checkPort(name, ids); err != nil {
			return nil, err
		}
		for _, id := range ids {
			if err := drive(id, "input "+name); err != nil {
				return nil, err
			}
		}
	}

	for i, g := range n.gates {
		if _, ok := n.gateIdx[g.ID]; ok {
			return nil, errors.Errorf("duplicate gate id %d", g.ID)
		}
		n.gateIdx[g.ID] = i
		if err := n.checkGate(&g); err != nil {
			return nil, err
		}
		if err := drive(g.Out, "gate "+strconv.Itoa(int(g.ID))); err != nil {
			return nil, err
		}
	}

	dffIDs := make(map[DFFID]bool, len(n.dffs))
	for _, d := range n.dffs {
		if dffIDs[d.ID] {
			return nil, errors.Errorf("duplicate dff id %d", d.ID)
		}
		dffIDs[d.ID] = true
		if err := n.checkDFF(&d); err != nil {
			return nil, err
		}
		if err := drive(d.Q, "dff "+strconv.Itoa(int(d.ID))); err != nil {
			return nil, err
		}
	}

	for i, ok := range driven {
		if !ok {
			return nil, errors.Errorf("net %d has no driver", n.nets[i].ID)
		}
	}

	for name, ids := range n.outputs {
		if err := n.checkPort(name, ids); err != nil {
			return nil, err
		}
	}

	order, err := schedule(n)
	if err != nil {
		return nil, err
	}
	n.order = order
	return n, nil
}

func copyPorts(m map[string][]NetID) map[string][]NetID {
	t := make(map[string][]NetID, len(m))
	for k, v := range m {
		t[k] = append([]NetID(nil), v...)
	}
	return t
}

func (n *Netlist) checkPort(name string, ids []NetID) error {
	if name == "" {
		return errors.New("empty port name")
	}
	if len(ids) == 0 {
		return errors.Errorf("port %s has no nets", name)
	}
	w := 0
	for _, id := range ids {
		i, ok := n.netIdx[id]
		if !ok {
			return errors.Errorf("port %s references unknown net %d", name, id)
		}
		w += n.nets[i].Width
	}
	if w > MaxPortWidth {
		return errors.Errorf("port %s is %d bits wide, max %d", name, w, MaxPortWidth)
	}
	return nil
}

func (n *Netlist) width(id NetID) (int, error) {
	i, ok := n.netIdx[id]
	if !ok {
		return 0, errors.Errorf("unknown net %d", id)
	}
	return n.nets[i].Width, nil
}

func (n *Netlist) checkGate(g *Gate) error {
	w, err := n.width(g.Out)
	if err != nil {
		return errors.Wrapf(err, "gate %d output", g.ID)
	}
	data := g.In
	switch g.Op {
	case Not, Buf:
		if len(g.In) != 1 {
			return errors.Errorf("gate %d: %v takes 1 input, got %d", g.ID, g.Op, len(g.In))
		}
	case Mux:
		if len(g.In) != 3 {
			return errors.Errorf("gate %d: MUX takes 3 inputs (a, b, sel), got %d", g.ID, len(g.In))
		}
		sw, err := n.width(g.In[2])
		if err != nil {
			return errors.Wrapf(err, "gate %d selector", g.ID)
		}
		if sw != 1 {
			return errors.Errorf("gate %d: MUX selector net %d has width %d, want 1", g.ID, g.In[2], sw)
		}
		data = g.In[:2]
	case Const:
		if len(g.In) != 0 {
			return errors.Errorf("gate %d: CONST takes no inputs, got %d", g.ID, len(g.In))
		}
	default: // And, Or, Xor, Nand, Nor, Xnor
		if len(g.In) < 2 {
			return errors.Errorf("gate %d: %v takes at least 2 inputs, got %d", g.ID, g.Op, len(g.In))
		}
	}
	for _, in := range data {
		iw, err := n.width(in)
		if err != nil {
			return errors.Wrapf(err, "gate %d input", g.ID)
		}
		if iw != w {
			return errors.Errorf("gate %d: input net %d has width %d, output net %d has width %d", g.ID, in, iw, g.Out, w)
		}
	}
	return nil
}

func (n *Netlist) checkDFF(d *DFF) error {
	dw, err := n.width(d.D)
	if err != nil {
		return errors.Wrapf(err, "dff %d D", d.ID)
	}
	qw, err := n.width(d.Q)
	if err != nil {
		return errors.Wrapf(err, "dff %d Q", d.ID)
	}
	if dw != qw {
		return errors.Errorf("dff %d: D net %d width %d does not match Q net %d width %d", d.ID, d.D, dw, d.Q, qw)
	}
	cw, err := n.width(d.Clk)
	if err != nil {
		return errors.Wrapf(err, "dff %d clock", d.ID)
	}
	if cw != 1 {
		return errors.Errorf("dff %d: clock net %d has width %d, want 1", d.ID, d.Clk, cw)
	}
	if d.Reset != NoNet {
		rw, err := n.width(d.Reset)
		if err != nil {
			return errors.Wrapf(err, "dff %d reset", d.ID)
		}
		if rw != 1 {
			return errors.Errorf("dff %d: reset net %d has width %d, want 1", d.ID, d.Reset, rw)
		}
	}
	return nil
}

// NetCount returns the number of nets in the netlist.
func (n *Netlist) NetCount() int { return len(n.nets) }

// GateCount returns the number of gates in the netlist.
func (n *Netlist) GateCount() int { return len(n.gates) }

// DFFCount returns the number of flip-flops in the netlist.
func (n *Netlist) DFFCount() int { return len(n.dffs) }

// Inputs returns the sorted names of the netlist's input ports.
//
func (n *Netlist) Inputs() []string { return portNames(n.inputs) }

// Outputs returns the sorted names of the netlist's output ports.
//
func (n *Netlist) Outputs() []string { return portNames(n.outputs) }

func portNames(m map[string][]NetID) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// PortWidth returns the total bit width of the named port, looking at outputs
// first, then inputs.
//
func (n *Netlist) PortWidth(name string) (int, error) {
	ids, ok := n.outputs[name]
	if !ok {
		if ids, ok = n.inputs[name]; !ok {
			return 0, UnknownSignalError(name)
		}
	}
	w := 0
	for _, id := range ids {
		w += n.nets[n.netIdx[id]].Width
	}
	return w, nil
}

// Schedule returns a copy of the cached gate evaluation order.
//
func (n *Netlist) Schedule() []GateID {
	s := make([]GateID, len(n.order))
	for i, gi := range n.order {
		s[i] = n.gates[gi].ID
	}
	return s
}
