// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

// progOp is one scheduled gate with its net references resolved to dense
// indices. Resolving once at construction keeps the tick loop free of map
// lookups.
type progOp struct {
	op   GateOp
	in   []int
	out  int
	mask uint64
	val  uint64 // Const only, pre-masked
}

// dffOp is a flip-flop with resolved net indices. reset is -1 when absent.
type dffOp struct {
	d, q, clk, reset int
	resetVal         uint64
	mask             uint64
}

// interp is the reference backend: a straight walk of the cached schedule
// with a switch on the gate operation tag, run once per lane per tick.
type interp struct {
	n       *Netlist
	falling bool
	notice  string
	steps   uint64

	prog []progOp
	dffs []dffOp
	pm   ports

	vals    [][]uint64 // per lane, per net index
	prevClk [][]uint64 // per lane, per dff: clock value at the end of the last tick
	nextQ   []uint64   // capture scratch
}

func newInterp(n *Netlist, lanes int, falling bool) *interp {
	it := &interp{
		n:       n,
		falling: falling,
		prog:    buildProg(n),
		dffs:    buildDFFs(n),
		pm:      newPorts(n),
		vals:    make([][]uint64, lanes),
		prevClk: make([][]uint64, lanes),
		nextQ:   make([]uint64, len(n.dffs)),
	}
	for l := range it.vals {
		it.vals[l] = make([]uint64, len(n.nets))
		it.prevClk[l] = make([]uint64, len(n.dffs))
	}
	return it
}

func buildProg(n *Netlist) []progOp {
	prog := make([]progOp, len(n.order))
	for i, gi := range n.order {
		g := &n.gates[gi]
		p := progOp{op: g.Op, out: n.netIdx[g.Out]}
		p.mask = widthMask(n.nets[p.out].Width)
		p.val = g.Val & p.mask
		p.in = make([]int, len(g.In))
		for j, id := range g.In {
			p.in[j] = n.netIdx[id]
		}
		prog[i] = p
	}
	return prog
}

func buildDFFs(n *Netlist) []dffOp {
	dffs := make([]dffOp, len(n.dffs))
	for i, d := range n.dffs {
		o := dffOp{
			d:        n.netIdx[d.D],
			q:        n.netIdx[d.Q],
			clk:      n.netIdx[d.Clk],
			reset:    -1,
			resetVal: d.ResetVal,
		}
		o.mask = widthMask(n.nets[o.q].Width)
		if d.Reset != NoNet {
			o.reset = n.netIdx[d.Reset]
		}
		dffs[i] = o
	}
	return dffs
}

func (it *interp) settle(lane int) {
	v := it.vals[lane]
	for i := range it.prog {
		p := &it.prog[i]
		switch p.op {
		case And:
			r := v[p.in[0]]
			for _, in := range p.in[1:] {
				r &= v[in]
			}
			v[p.out] = r
		case Or:
			r := v[p.in[0]]
			for _, in := range p.in[1:] {
				r |= v[in]
			}
			v[p.out] = r
		case Xor:
			r := v[p.in[0]]
			for _, in := range p.in[1:] {
				r ^= v[in]
			}
			v[p.out] = r
		case Nand:
			r := v[p.in[0]]
			for _, in := range p.in[1:] {
				r &= v[in]
			}
			v[p.out] = ^r & p.mask
		case Nor:
			r := v[p.in[0]]
			for _, in := range p.in[1:] {
				r |= v[in]
			}
			v[p.out] = ^r & p.mask
		case Xnor:
			r := v[p.in[0]]
			for _, in := range p.in[1:] {
				r ^= v[in]
			}
			v[p.out] = ^r & p.mask
		case Not:
			v[p.out] = ^v[p.in[0]] & p.mask
		case Buf:
			v[p.out] = v[p.in[0]]
		case Mux:
			if v[p.in[2]]&1 != 0 {
				v[p.out] = v[p.in[1]]
			} else {
				v[p.out] = v[p.in[0]]
			}
		case Const:
			v[p.out] = p.val
		}
	}
}

// capture samples all flip-flops simultaneously: next-Q values are computed
// from pre-edge D and Q values before any Q net is written, so no flip-flop
// observes another's new value within the same tick.
func (it *interp) capture(lane int) {
	v := it.vals[lane]
	pc := it.prevClk[lane]
	for i := range it.dffs {
		d := &it.dffs[i]
		clk := v[d.clk] & 1
		edge := pc[i] == 0 && clk == 1
		if it.falling {
			edge = pc[i] == 1 && clk == 0
		}
		next := v[d.q]
		if edge {
			if d.reset >= 0 && v[d.reset]&1 != 0 {
				next = d.resetVal & d.mask
			} else {
				next = v[d.d]
			}
		}
		it.nextQ[i] = next
		pc[i] = clk
	}
	for i := range it.dffs {
		v[it.dffs[i].q] = it.nextQ[i]
	}
}

func (it *interp) Tick() {
	for l := range it.vals {
		it.settle(l)
		it.capture(l)
	}
	it.steps++
}

func (it *interp) RunSteps(n int) {
	for i := 0; i < n; i++ {
		it.Tick()
	}
}

func (it *interp) pokeLane(r []portNet, v uint64, lane int) {
	vals := it.vals[lane]
	shift := uint(0)
	for _, pn := range r {
		vals[pn.idx] = (v >> shift) & widthMask(pn.width)
		shift += uint(pn.width)
	}
}

func (it *interp) peekLane(r []portNet, lane int) uint64 {
	vals := it.vals[lane]
	var v uint64
	shift := uint(0)
	for _, pn := range r {
		v |= (vals[pn.idx] & widthMask(pn.width)) << shift
		shift += uint(pn.width)
	}
	return v
}

func (it *interp) Poke(name string, v uint64) error {
	r, err := it.pm.input(name)
	if err != nil {
		return err
	}
	for l := range it.vals {
		it.pokeLane(r, v, l)
	}
	return nil
}

func (it *interp) PokeLane(name string, v uint64, lane int) error {
	r, err := it.pm.input(name)
	if err != nil {
		return err
	}
	if lane < 0 || lane >= len(it.vals) {
		return &LaneOutOfRangeError{Lane: lane, Lanes: len(it.vals)}
	}
	it.pokeLane(r, v, lane)
	return nil
}

func (it *interp) PokeAll(name string, vs []uint64) error {
	r, err := it.pm.input(name)
	if err != nil {
		return err
	}
	if len(vs) != len(it.vals) {
		return &LaneOutOfRangeError{Lane: len(vs), Lanes: len(it.vals)}
	}
	for l, v := range vs {
		it.pokeLane(r, v, l)
	}
	return nil
}

func (it *interp) Peek(name string) (uint64, error) {
	return it.PeekLane(name, 0)
}

func (it *interp) PeekLane(name string, lane int) (uint64, error) {
	r, err := it.pm.port(name)
	if err != nil {
		return 0, err
	}
	if lane < 0 || lane >= len(it.vals) {
		return 0, &LaneOutOfRangeError{Lane: lane, Lanes: len(it.vals)}
	}
	return it.peekLane(r, lane), nil
}

func (it *interp) PeekAll(name string, dst []uint64) ([]uint64, error) {
	r, err := it.pm.port(name)
	if err != nil {
		return dst, err
	}
	for l := range it.vals {
		dst = append(dst, it.peekLane(r, l))
	}
	return dst, nil
}

func (it *interp) Steps() uint64     { return it.steps }
func (it *interp) Lanes() int        { return len(it.vals) }
func (it *interp) Backend() Backend  { return Interp }
func (it *interp) Netlist() *Netlist { return it.n }
func (it *interp) Notice() string    { return it.notice }
func (it *interp) Close() error      { return nil }
