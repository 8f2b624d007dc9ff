// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package lower

import (
	"strings"

	"github.com/pkg/errors"
)

// a pin is identified by the part it belongs to and its name in that part's
// interface. part -1 refers to the chip's own ports.
type pin struct {
	part int
	name string
}

// wiring maps part pins to chip internal wire names. Wires fed by the same
// output pin are aliases of a single net; alias maps each extra name to the
// canonical one.
type wiring struct {
	m     map[pin]string
	alias map[string]string
}

func (w *wiring) resolve(name string) string {
	for {
		a, ok := w.alias[name]
		if !ok {
			return name
		}
		name = a
	}
}

// Chip composes existing parts into a new part. The pins declared in the
// inputs and outputs specs become the pins of the chip, and double as wire
// names inside it, together with the constant wires "true" and "false" and
// any name a connection introduces.
//
// An xor gate built from nands:
//
//	xor, err := lower.Chip("XOR", "a, b", "out",
//		lower.Nand("a=a, b=b, out=nandAB"),
//		lower.Nand("a=a, b=nandAB, out=w0"),
//		lower.Nand("a=b, b=nandAB, out=w1"),
//		lower.Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned NewPartFn composes the chip into other chips, or lowers it
// directly with Build.
//
func Chip(name, inputs, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := parseIOSpec(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	outs, err := parseIOSpec(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	seen := make(map[string]bool, len(ins)+len(outs))
	for _, p := range append(append([]string(nil), ins...), outs...) {
		if seen[p] {
			return nil, errors.Errorf("%s: duplicate pin name %s", name, p)
		}
		seen[p] = true
	}

	w, err := buildWiring(ins, outs, parts)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	spec := &PartSpec{
		Name:    name,
		Inputs:  ins,
		Outputs: outs,
		Parts:   parts,
		wires:   w,
	}
	return spec.NewPart, nil
}

// MustChip is like Chip but panics on error. Use it for static part
// libraries where a wiring error is a programming error.
//
func MustChip(name, inputs, outputs string, parts ...Part) NewPartFn {
	pf, err := Chip(name, inputs, outputs, parts...)
	if err != nil {
		panic(err)
	}
	return pf
}

// partPins indexes a part's declared pins for wiring checks.
type partPins struct {
	in, out map[string]bool
	all     []string
}

func indexPins(p *PartSpec) partPins {
	pp := partPins{
		in:  make(map[string]bool, len(p.Inputs)),
		out: make(map[string]bool, len(p.Outputs)),
	}
	for _, n := range p.Inputs {
		pp.in[n] = true
	}
	for _, n := range p.Outputs {
		pp.out[n] = true
	}
	pp.all = append(append([]string(nil), p.Inputs...), p.Outputs...)
	return pp
}

// busWidth returns the width of the bus base among the declared pins, 0 if
// no such bus exists.
func (pp *partPins) busWidth(base string) int {
	w := 0
	for pp.in[BusPinName(base, w)] || pp.out[BusPinName(base, w)] {
		w++
	}
	return w
}

// buildWiring checks the connections of all sub parts and maps every
// connected pin to a chip internal wire. Rules enforced here:
//
//   - connection pin names must exist in the part's interface;
//   - every wire has exactly one driver: a chip input, a constant, or one
//     part output pin;
//   - every wire consumed by an input pin or a chip output has a driver.
//
// Unconnected part input pins are grounded to false at mount time, matching
// unspecified inputs in connection descriptions.
func buildWiring(ins, outs []string, parts []Part) (*wiring, error) {
	w := &wiring{
		m:     make(map[pin]string),
		alias: make(map[string]string),
	}
	driver := make(map[string]string)
	for _, in := range ins {
		driver[in] = "chip input " + in
	}

	outSet := make(map[string]bool, len(outs))
	for _, o := range outs {
		outSet[o] = true
	}

	consumed := make(map[string]string) // wire -> consumer description
	var order []string                  // consumed wires in first-reference order

	for i, p := range parts {
		pp := indexPins(p.PartSpec)
		for _, conn := range p.Conns {
			pins, wires, err := resolveBuses(&pp, p.Name, conn)
			if err != nil {
				return nil, err
			}
			for j, pn := range pins {
				wn := wires[min(j, len(wires)-1)]
				if len(pins) == 1 && len(wires) > 1 {
					// single output pin feeding several wires: handled
					// below through aliasing, pair with each wire.
					continue
				}
				if err := w.connect(&pp, driver, consumed, &order, i, p.Name, pn, wn); err != nil {
					return nil, err
				}
			}
			if len(pins) == 1 && len(wires) > 1 {
				for _, wn := range wires {
					if err := w.connect(&pp, driver, consumed, &order, i, p.Name, pins[0], wn); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	for _, o := range outs {
		if driver[w.resolve(o)] == "" {
			return nil, errors.Errorf("chip output pin %s not connected to any output", o)
		}
	}
	for _, wn := range order {
		r := w.resolve(wn)
		if r == True || r == False {
			continue
		}
		if driver[r] == "" {
			return nil, errors.Errorf("wire %s (consumed by %s) not connected to any output", wn, consumed[wn])
		}
	}
	return w, nil
}

// connect wires a single pin of part i to wire wn.
func (w *wiring) connect(pp *partPins, driver, consumed map[string]string, order *[]string, i int, part, pn, wn string) error {
	key := pin{i, pn}
	switch {
	case pp.in[pn]:
		if prev, ok := w.m[key]; ok && prev != wn {
			return errors.Errorf("input pin %s.%s connected to more than one wire", part, pn)
		}
		w.m[key] = wn
		if _, ok := consumed[wn]; !ok {
			consumed[wn] = part + "." + pn
			*order = append(*order, wn)
		}
	case pp.out[pn]:
		if wn == True || wn == False {
			return errors.Errorf("output pin %s.%s connected to constant %q", part, pn, wn)
		}
		if prev, ok := w.m[key]; ok {
			// fanout: wn is an alias of the wire already driven by pn.
			if prev == wn {
				return nil
			}
			return w.addAlias(driver, part, pn, prev, wn)
		}
		if d := driver[wn]; d != "" {
			return errors.Errorf("wire %s has more than one driver (%s and %s.%s)", wn, d, part, pn)
		}
		driver[wn] = part + "." + pn
		w.m[key] = wn
	default:
		return errors.Errorf("invalid pin name %s for part %s", pn, part)
	}
	return nil
}

func (w *wiring) addAlias(driver map[string]string, part, pn, canonical, wn string) error {
	if d := driver[wn]; d != "" {
		return errors.Errorf("wire %s has more than one driver (%s and %s.%s)", wn, d, part, pn)
	}
	driver[wn] = part + "." + pn
	w.alias[wn] = canonical
	return nil
}

// resolveBuses expands bare bus names against the part's declared pins and
// checks that pin and wire group sizes are compatible: pairwise when equal,
// or a single wire fanned out to a pin group, or a single output pin feeding
// a wire group.
func resolveBuses(pp *partPins, part string, conn Conn) (pins, wires []string, err error) {
	pins, wires = conn.Pins, conn.Wires
	if len(pins) == 1 {
		if bw := pp.busWidth(pins[0]); bw > 0 && !strings.ContainsRune(pins[0], '[') {
			base := pins[0]
			pins = make([]string, bw)
			for i := range pins {
				pins[i] = BusPinName(base, i)
			}
			if len(wires) == 1 && !strings.ContainsRune(wires[0], '[') && wires[0] != True && wires[0] != False {
				wbase := wires[0]
				wires = make([]string, bw)
				for i := range wires {
					wires[i] = BusPinName(wbase, i)
				}
			}
		}
	}
	switch {
	case len(pins) == len(wires):
	case len(wires) == 1:
	case len(pins) == 1:
	default:
		return nil, nil, &WidthMismatchError{
			Part: part,
			Pin:  conn.Pins[0],
			Wire: conn.Wires[0],
			Want: len(pins),
			Got:  len(wires),
		}
	}
	return pins, wires, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// mountParts mounts each sub part into a fresh socket, assigning nets to all
// of its declared pins: connected pins resolve through the wiring into the
// parent socket's namespace, unconnected inputs are grounded, unconnected
// outputs get a fresh net.
func mountParts(s *Socket, parts []Part, w *wiring) error {
	for i := range parts {
		p := &parts[i]
		sub := newSocket(s.b)
		for _, k := range p.Inputs {
			if wn, ok := w.m[pin{i, k}]; ok {
				sub.m[k] = s.pinOrNew(w.resolve(wn))
			} else {
				sub.m[k] = s.b.FalseNet()
			}
		}
		for _, k := range p.Outputs {
			if wn, ok := w.m[pin{i, k}]; ok {
				sub.m[k] = s.pinOrNew(w.resolve(wn))
			} else {
				sub.m[k] = s.b.Net()
			}
		}
		if err := p.mount(sub); err != nil {
			return err
		}
	}
	return nil
}
