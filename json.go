// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// The JSON interchange format decouples the engine from whatever produced
// the netlist: it is both an export artifact and a valid construction input.
//
//	{
//	  "nets":    [{"id": 0, "width": 1}, ...],
//	  "gates":   [{"id": 0, "type": "AND", "inputs": [0, 1], "output": 2}, ...],
//	  "dffs":    [{"id": 0, "d": 2, "q": 3, "clk": 4, "reset": 5, "reset_value": 0}, ...],
//	  "inputs":  {"a": [0], "b": [1]},
//	  "outputs": {"y": [2]}
//	}
//
// CONST gates carry their driven value in an extra "value" field; "reset" is
// omitted for flip-flops without one.

type jsonNetlist struct {
	Nets    []jsonNet          `json:"nets"`
	Gates   []jsonGate         `json:"gates"`
	DFFs    []jsonDFF          `json:"dffs"`
	Inputs  map[string][]NetID `json:"inputs"`
	Outputs map[string][]NetID `json:"outputs"`
}

type jsonNet struct {
	ID    NetID `json:"id"`
	Width int   `json:"width"`
}

type jsonGate struct {
	ID     GateID  `json:"id"`
	Type   string  `json:"type"`
	Inputs []NetID `json:"inputs"`
	Output NetID   `json:"output"`
	Value  *uint64 `json:"value,omitempty"`
}

type jsonDFF struct {
	ID       DFFID  `json:"id"`
	D        NetID  `json:"d"`
	Q        NetID  `json:"q"`
	Clk      NetID  `json:"clk"`
	Reset    *NetID `json:"reset,omitempty"`
	ResetVal uint64 `json:"reset_value"`
}

// FromJSON reads a netlist in the interchange format, validates it and
// computes its schedule. Like NewNetlist it returns no partial result on
// error.
//
func FromJSON(r io.Reader) (*Netlist, error) {
	var jn jsonNetlist
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jn); err != nil {
		return nil, errors.Wrap(err, "decode netlist")
	}

	nets := make([]Net, len(jn.Nets))
	for i, t := range jn.Nets {
		nets[i] = Net{ID: t.ID, Width: t.Width}
	}

	gates := make([]Gate, len(jn.Gates))
	for i, g := range jn.Gates {
		op, err := OpFromString(g.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "gate %d", g.ID)
		}
		gates[i] = Gate{ID: g.ID, Op: op, In: g.Inputs, Out: g.Output}
		if g.Value != nil {
			gates[i].Val = *g.Value
		}
	}

	dffs := make([]DFF, len(jn.DFFs))
	for i, d := range jn.DFFs {
		dffs[i] = DFF{ID: d.ID, D: d.D, Q: d.Q, Clk: d.Clk, Reset: NoNet, ResetVal: d.ResetVal}
		if d.Reset != nil {
			dffs[i].Reset = *d.Reset
		}
	}

	return NewNetlist(nets, gates, dffs, jn.Inputs, jn.Outputs)
}

// ToJSON writes the netlist in the interchange format.
//
func (n *Netlist) ToJSON(w io.Writer) error {
	jn := jsonNetlist{
		Nets:    make([]jsonNet, len(n.nets)),
		Gates:   make([]jsonGate, len(n.gates)),
		DFFs:    make([]jsonDFF, len(n.dffs)),
		Inputs:  n.inputs,
		Outputs: n.outputs,
	}
	for i, t := range n.nets {
		jn.Nets[i] = jsonNet{ID: t.ID, Width: t.Width}
	}
	for i, g := range n.gates {
		jg := jsonGate{ID: g.ID, Type: g.Op.String(), Inputs: g.In, Output: g.Out}
		if jg.Inputs == nil {
			jg.Inputs = []NetID{}
		}
		if g.Op == Const {
			v := g.Val
			jg.Value = &v
		}
		jn.Gates[i] = jg
	}
	for i, d := range n.dffs {
		jd := jsonDFF{ID: d.ID, D: d.D, Q: d.Q, Clk: d.Clk, ResetVal: d.ResetVal}
		if d.Reset != NoNet {
			r := d.Reset
			jd.Reset = &r
		}
		jn.DFFs[i] = jd
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(&jn), "encode netlist")
}
