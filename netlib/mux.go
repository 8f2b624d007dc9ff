// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlib

import (
	"fmt"
	"strconv"

	"github.com/db47h/netsim/lower"
)

// MuxN returns an N-bit wide 2-way multiplexer.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: out = sel ? b : a
//
func MuxN(bits int) lower.NewPartFn {
	bs := strconv.Itoa(bits)
	parts := make([]lower.Part, bits)
	for i := 0; i < bits; i++ {
		parts[i] = lower.Mux(fmt.Sprintf("a=a[%d], b=b[%d], sel=sel, out=out[%d]", i, i, i))
	}
	return lower.MustChip("Mux"+bs, "a["+bs+"], b["+bs+"], sel", "out["+bs+"]", parts...)
}
