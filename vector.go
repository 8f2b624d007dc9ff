// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

// vector is the multi-lane backend. The value store is bit-sliced: every bit
// of every net owns a group of machine words, and bit position l of those
// words belongs to lane l. A gate operation is then one bitwise machine
// operation per net bit per word, applied to 64 lanes at once; flip-flop
// capture uses bitwise edge masks the same way.
//
// Lane counts above 64 simply use more words per net bit, so the layout is
// the same for word-sized and wider register counts.
type vector struct {
	n       *Netlist
	lanes   int
	words   int // words per net bit: ceil(lanes/64)
	falling bool
	steps   uint64

	bitOff []int // net index -> first bit slot
	prog   []vecOp
	dffs   []vecDFF
	pm     ports

	vals     []uint64 // bit slot * words, lane bits packed
	prevClk  []uint64 // dff index * words
	nextQ    []uint64 // capture scratch, indexed by vecDFF.scratch
	laneMask []uint64 // per word: bits of valid lanes
}

type vecOp struct {
	op    GateOp
	in    []int // bit slots of input nets (Mux: [a, b, sel])
	out   int   // bit slot of output net
	width int
	val   uint64 // Const only
}

type vecDFF struct {
	d, q, clk, reset int // bit slots, reset -1 when absent
	width            int
	resetVal         uint64
	scratch          int // offset into nextQ, in words
}

func newVector(n *Netlist, lanes int, falling bool) *vector {
	words := (lanes + 63) / 64
	v := &vector{
		n:       n,
		lanes:   lanes,
		words:   words,
		falling: falling,
		bitOff:  make([]int, len(n.nets)),
		pm:      newPorts(n),
	}

	bits := 0
	for i, t := range n.nets {
		v.bitOff[i] = bits
		bits += t.Width
	}
	v.vals = make([]uint64, bits*words)
	v.prevClk = make([]uint64, len(n.dffs)*words)

	v.laneMask = make([]uint64, words)
	for w := range v.laneMask {
		v.laneMask[w] = ^uint64(0)
	}
	if r := lanes % 64; r != 0 {
		v.laneMask[words-1] = widthMask(r)
	}

	v.prog = make([]vecOp, len(n.order))
	for i, gi := range n.order {
		g := &n.gates[gi]
		out := n.netIdx[g.Out]
		p := vecOp{op: g.Op, out: v.bitOff[out], width: n.nets[out].Width, val: g.Val}
		p.in = make([]int, len(g.In))
		for j, id := range g.In {
			p.in[j] = v.bitOff[n.netIdx[id]]
		}
		v.prog[i] = p
	}

	qBits := 0
	v.dffs = make([]vecDFF, len(n.dffs))
	for i, d := range n.dffs {
		q := n.netIdx[d.Q]
		o := vecDFF{
			d:        v.bitOff[n.netIdx[d.D]],
			q:        v.bitOff[q],
			clk:      v.bitOff[n.netIdx[d.Clk]],
			reset:    -1,
			width:    n.nets[q].Width,
			resetVal: d.ResetVal,
			scratch:  qBits * words,
		}
		if d.Reset != NoNet {
			o.reset = v.bitOff[n.netIdx[d.Reset]]
		}
		v.dffs[i] = o
		qBits += o.width
	}
	v.nextQ = make([]uint64, qBits*words)

	return v
}

// slot returns the word group for one net bit.
func (v *vector) slot(bit int) []uint64 {
	return v.vals[bit*v.words : bit*v.words+v.words]
}

func (v *vector) settle() {
	W := v.words
	for i := range v.prog {
		p := &v.prog[i]
		switch p.op {
		case And, Nand:
			for k := 0; k < p.width; k++ {
				for w := 0; w < W; w++ {
					r := v.vals[(p.in[0]+k)*W+w]
					for _, in := range p.in[1:] {
						r &= v.vals[(in+k)*W+w]
					}
					if p.op == Nand {
						r = ^r & v.laneMask[w]
					}
					v.vals[(p.out+k)*W+w] = r
				}
			}
		case Or, Nor:
			for k := 0; k < p.width; k++ {
				for w := 0; w < W; w++ {
					r := v.vals[(p.in[0]+k)*W+w]
					for _, in := range p.in[1:] {
						r |= v.vals[(in+k)*W+w]
					}
					if p.op == Nor {
						r = ^r & v.laneMask[w]
					}
					v.vals[(p.out+k)*W+w] = r
				}
			}
		case Xor, Xnor:
			for k := 0; k < p.width; k++ {
				for w := 0; w < W; w++ {
					r := v.vals[(p.in[0]+k)*W+w]
					for _, in := range p.in[1:] {
						r ^= v.vals[(in+k)*W+w]
					}
					if p.op == Xnor {
						r = ^r & v.laneMask[w]
					}
					v.vals[(p.out+k)*W+w] = r
				}
			}
		case Not:
			for k := 0; k < p.width; k++ {
				for w := 0; w < W; w++ {
					v.vals[(p.out+k)*W+w] = ^v.vals[(p.in[0]+k)*W+w] & v.laneMask[w]
				}
			}
		case Buf:
			for k := 0; k < p.width; k++ {
				for w := 0; w < W; w++ {
					v.vals[(p.out+k)*W+w] = v.vals[(p.in[0]+k)*W+w]
				}
			}
		case Mux:
			// per-lane select: lanes with sel=1 take b, the others a.
			for k := 0; k < p.width; k++ {
				for w := 0; w < W; w++ {
					s := v.vals[p.in[2]*W+w]
					a := v.vals[(p.in[0]+k)*W+w]
					b := v.vals[(p.in[1]+k)*W+w]
					v.vals[(p.out+k)*W+w] = (b & s) | (a &^ s)
				}
			}
		case Const:
			for k := 0; k < p.width; k++ {
				var word uint64
				for w := 0; w < W; w++ {
					if p.val>>uint(k)&1 != 0 {
						word = v.laneMask[w]
					} else {
						word = 0
					}
					v.vals[(p.out+k)*W+w] = word
				}
			}
		}
	}
}

func (v *vector) capture() {
	W := v.words
	for i := range v.dffs {
		d := &v.dffs[i]
		for w := 0; w < W; w++ {
			clk := v.vals[d.clk*W+w]
			prev := v.prevClk[i*W+w]
			edge := ^prev & clk
			if v.falling {
				edge = prev & ^clk
			}
			edge &= v.laneMask[w]
			for k := 0; k < d.width; k++ {
				eff := v.vals[(d.d+k)*W+w]
				if d.reset >= 0 {
					r := v.vals[d.reset*W+w]
					var rv uint64
					if d.resetVal>>uint(k)&1 != 0 {
						rv = v.laneMask[w]
					}
					eff = (eff &^ r) | (rv & r)
				}
				q := v.vals[(d.q+k)*W+w]
				v.nextQ[d.scratch+k*W+w] = (q &^ edge) | (eff & edge)
			}
			v.prevClk[i*W+w] = clk
		}
	}
	for i := range v.dffs {
		d := &v.dffs[i]
		for k := 0; k < d.width; k++ {
			for w := 0; w < W; w++ {
				v.vals[(d.q+k)*W+w] = v.nextQ[d.scratch+k*W+w]
			}
		}
	}
}

func (v *vector) Tick() {
	v.settle()
	v.capture()
	v.steps++
}

func (v *vector) RunSteps(n int) {
	for i := 0; i < n; i++ {
		v.Tick()
	}
}

func (v *vector) pokeLane(r []portNet, val uint64, lane int) {
	word, bit := lane/64, uint(lane%64)
	shift := uint(0)
	for _, pn := range r {
		base := v.bitOff[pn.idx]
		for k := 0; k < pn.width; k++ {
			s := v.slot(base + k)
			if val>>(shift+uint(k))&1 != 0 {
				s[word] |= 1 << bit
			} else {
				s[word] &^= 1 << bit
			}
		}
		shift += uint(pn.width)
	}
}

func (v *vector) peekLane(r []portNet, lane int) uint64 {
	word, bit := lane/64, uint(lane%64)
	var val uint64
	shift := uint(0)
	for _, pn := range r {
		base := v.bitOff[pn.idx]
		for k := 0; k < pn.width; k++ {
			if v.slot(base+k)[word]>>bit&1 != 0 {
				val |= 1 << (shift + uint(k))
			}
		}
		shift += uint(pn.width)
	}
	return val
}

func (v *vector) Poke(name string, val uint64) error {
	r, err := v.pm.input(name)
	if err != nil {
		return err
	}
	// broadcast: whole words at once.
	shift := uint(0)
	for _, pn := range r {
		base := v.bitOff[pn.idx]
		for k := 0; k < pn.width; k++ {
			s := v.slot(base + k)
			for w := range s {
				if val>>(shift+uint(k))&1 != 0 {
					s[w] = v.laneMask[w]
				} else {
					s[w] = 0
				}
			}
		}
		shift += uint(pn.width)
	}
	return nil
}

func (v *vector) PokeLane(name string, val uint64, lane int) error {
	r, err := v.pm.input(name)
	if err != nil {
		return err
	}
	if lane < 0 || lane >= v.lanes {
		return &LaneOutOfRangeError{Lane: lane, Lanes: v.lanes}
	}
	v.pokeLane(r, val, lane)
	return nil
}

func (v *vector) PokeAll(name string, vs []uint64) error {
	r, err := v.pm.input(name)
	if err != nil {
		return err
	}
	if len(vs) != v.lanes {
		return &LaneOutOfRangeError{Lane: len(vs), Lanes: v.lanes}
	}
	for l, val := range vs {
		v.pokeLane(r, val, l)
	}
	return nil
}

func (v *vector) Peek(name string) (uint64, error) {
	return v.PeekLane(name, 0)
}

func (v *vector) PeekLane(name string, lane int) (uint64, error) {
	r, err := v.pm.port(name)
	if err != nil {
		return 0, err
	}
	if lane < 0 || lane >= v.lanes {
		return 0, &LaneOutOfRangeError{Lane: lane, Lanes: v.lanes}
	}
	return v.peekLane(r, lane), nil
}

func (v *vector) PeekAll(name string, dst []uint64) ([]uint64, error) {
	r, err := v.pm.port(name)
	if err != nil {
		return dst, err
	}
	for l := 0; l < v.lanes; l++ {
		dst = append(dst, v.peekLane(r, l))
	}
	return dst, nil
}

func (v *vector) Steps() uint64     { return v.steps }
func (v *vector) Lanes() int        { return v.lanes }
func (v *vector) Backend() Backend  { return Vector }
func (v *vector) Netlist() *Netlist { return v.n }
func (v *vector) Notice() string    { return "" }
func (v *vector) Close() error      { return nil }
