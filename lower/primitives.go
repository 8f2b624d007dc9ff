// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package lower

import (
	"github.com/db47h/netsim"
)

// common pin names
const (
	pA     = "a"
	pB     = "b"
	pIn    = "in"
	pOut   = "out"
	pSel   = "sel"
	pClk   = "clk"
	pReset = "reset"
)

func gate2(name string, op netsim.GateOp) *PartSpec {
	return &PartSpec{
		Name:    name,
		Inputs:  []string{pA, pB},
		Outputs: []string{pOut},
		Mount: func(s *Socket) error {
			s.Builder().Gate(op, s.Pin(pOut), s.Pin(pA), s.Pin(pB))
			return nil
		}}
}

func gate1(name string, op netsim.GateOp) *PartSpec {
	return &PartSpec{
		Name:    name,
		Inputs:  []string{pIn},
		Outputs: []string{pOut},
		Mount: func(s *Socket) error {
			s.Builder().Gate(op, s.Pin(pOut), s.Pin(pIn))
			return nil
		}}
}

var (
	andSpec  = gate2("AND", netsim.And)
	orSpec   = gate2("OR", netsim.Or)
	xorSpec  = gate2("XOR", netsim.Xor)
	nandSpec = gate2("NAND", netsim.Nand)
	norSpec  = gate2("NOR", netsim.Nor)
	xnorSpec = gate2("XNOR", netsim.Xnor)
	notSpec  = gate1("NOT", netsim.Not)
	bufSpec  = gate1("BUF", netsim.Buf)

	muxSpec = &PartSpec{
		Name:    "MUX",
		Inputs:  []string{pA, pB, pSel},
		Outputs: []string{pOut},
		Mount: func(s *Socket) error {
			s.Builder().Gate(netsim.Mux, s.Pin(pOut), s.Pin(pA), s.Pin(pB), s.Pin(pSel))
			return nil
		}}

	dffSpec = &PartSpec{
		Name:    "DFF",
		Inputs:  []string{pIn, pClk},
		Outputs: []string{pOut},
		Mount: func(s *Socket) error {
			s.Builder().DFF(s.Pin(pIn), s.Pin(pOut), s.Pin(pClk), netsim.NoNet, 0)
			return nil
		}}

	dffrSpec = &PartSpec{
		Name:    "DFFR",
		Inputs:  []string{pIn, pClk, pReset},
		Outputs: []string{pOut},
		Mount: func(s *Socket) error {
			s.Builder().DFF(s.Pin(pIn), s.Pin(pOut), s.Pin(pClk), s.Pin(pReset), 0)
			return nil
		}}
)

// And returns an AND gate.
//
//	Inputs: a, b
//	Outputs: out
//
func And(w string) Part { return andSpec.NewPart(w) }

// Or returns an OR gate.
//
func Or(w string) Part { return orSpec.NewPart(w) }

// Xor returns a XOR gate.
//
func Xor(w string) Part { return xorSpec.NewPart(w) }

// Nand returns a NAND gate.
//
func Nand(w string) Part { return nandSpec.NewPart(w) }

// Nor returns a NOR gate.
//
func Nor(w string) Part { return norSpec.NewPart(w) }

// Xnor returns a XNOR gate.
//
func Xnor(w string) Part { return xnorSpec.NewPart(w) }

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//
func Not(w string) Part { return notSpec.NewPart(w) }

// Buf returns a BUF gate. Its output follows its input with one settle's
// worth of scheduling in between, which is none at all once lowered; it
// exists to give a wire two names.
//
func Buf(w string) Part { return bufSpec.NewPart(w) }

// Mux returns a 2-way multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: out = sel ? b : a
//
func Mux(w string) Part { return muxSpec.NewPart(w) }

// DFF returns a D flip-flop sampling on the clock edge.
//
//	Inputs: in, clk
//	Outputs: out
//	Function: out(t) = in as sampled at the last clock edge
//
func DFF(w string) Part { return dffSpec.NewPart(w) }

// DFFR returns a D flip-flop with synchronous reset to 0.
//
//	Inputs: in, clk, reset
//	Outputs: out
//
func DFFR(w string) Part { return dffrSpec.NewPart(w) }
