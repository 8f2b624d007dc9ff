// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlib provides a library of reusable parts for netsim: adders,
// registers, counters and multiplexers, all decomposing to the primitive
// gates and flip-flops of package lower.
//
package netlib

import (
	"fmt"
	"strconv"

	"github.com/db47h/netsim/lower"
)

var halfAdder = lower.MustChip("HalfAdder", "a, b", "s, c",
	lower.Xor("a=a, b=b, out=s"),
	lower.And("a=a, b=b, out=c"),
)

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(w string) lower.Part {
	return halfAdder(w)
}

var fullAdder = lower.MustChip("FullAdder", "a, b, cin", "s, cout",
	halfAdder("a=a, b=b, s=s0, c=c0"),
	halfAdder("a=s0, b=cin, s=s, c=c1"),
	lower.Or("a=c0, b=c1, out=cout"),
)

// FullAdder returns a full adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(w string) lower.Part {
	return fullAdder(w)
}

// AdderN returns an N-bit ripple-carry adder.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = (a + b) & (1<<bits - 1)
//	          c = carry out of the high bit
//
func AdderN(bits int) lower.NewPartFn {
	bs := strconv.Itoa(bits)
	parts := make([]lower.Part, bits)
	for i := 0; i < bits; i++ {
		cin := lower.False
		if i > 0 {
			cin = carry(i - 1)
		}
		cout := "c"
		if i < bits-1 {
			cout = carry(i)
		}
		parts[i] = fullAdder(fmt.Sprintf("a=a[%d], b=b[%d], cin=%s, s=out[%d], cout=%s", i, i, cin, i, cout))
	}
	return lower.MustChip("Adder"+bs, "a["+bs+"], b["+bs+"]", "out["+bs+"], c", parts...)
}

func carry(i int) string {
	return "cc" + strconv.Itoa(i)
}
