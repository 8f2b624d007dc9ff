// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlib

import (
	"fmt"
	"strconv"

	"github.com/db47h/netsim/lower"
)

// RegisterN returns an N-bit register: one flip-flop per bit, all sampling
// on the same clock edge.
//
//	Inputs: in[bits], clk
//	Outputs: out[bits]
//	Function: out(t) = in as sampled at the last clock edge
//
func RegisterN(bits int) lower.NewPartFn {
	bs := strconv.Itoa(bits)
	parts := make([]lower.Part, bits)
	for i := 0; i < bits; i++ {
		parts[i] = lower.DFF(fmt.Sprintf("in=in[%d], clk=clk, out=out[%d]", i, i))
	}
	return lower.MustChip("Register"+bs, "in["+bs+"], clk", "out["+bs+"]", parts...)
}

// CounterN returns an N-bit binary counter with synchronous reset,
// incrementing on every clock edge.
//
//	Inputs: clk, reset
//	Outputs: out[bits]
//	Function: out(t+1) = reset ? 0 : out(t) + 1
//
// The increment is a carry chain: bit i toggles when all lower bits are 1.
//
func CounterN(bits int) lower.NewPartFn {
	bs := strconv.Itoa(bits)
	var parts []lower.Part
	parts = append(parts,
		lower.Not("in=out[0], out=d0"),
		lower.DFFR("in=d0, clk=clk, reset=reset, out=out[0]"))
	for i := 1; i < bits; i++ {
		cin := "out[0]"
		if i > 1 {
			cin = carry(i - 1)
		}
		parts = append(parts,
			lower.Xor(fmt.Sprintf("a=out[%d], b=%s, out=d%d", i, cin, i)),
			lower.DFFR(fmt.Sprintf("in=d%d, clk=clk, reset=reset, out=out[%d]", i, i)))
		if i < bits-1 {
			parts = append(parts,
				lower.And(fmt.Sprintf("a=out[%d], b=%s, out=%s", i, cin, carry(i))))
		}
	}
	return lower.MustChip("Counter"+bs, "clk, reset", "out["+bs+"]", parts...)
}
