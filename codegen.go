// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

import (
	"strconv"
	"strings"
)

// genSource translates a resolved gate program into the source of a Go
// plugin exporting one function:
//
//	func Settle(v []uint64)
//
// v is a single lane's value array, indexed like the interpreter's, so the
// generated settle and the interpreter's capture phase share state. One
// statement is emitted per scheduled gate; the per-gate switch dispatch of
// the interpreter disappears entirely.
//
func genSource(prog []progOp) string {
	var b strings.Builder
	b.WriteString("// Code generated by netsim. DO NOT EDIT.\n\npackage main\n\n")

	needMux := false
	for i := range prog {
		if prog[i].op == Mux {
			needMux = true
			break
		}
	}
	if needMux {
		b.WriteString("func mux(a, b, s uint64) uint64 {\n")
		b.WriteString("\tif s&1 != 0 {\n\t\treturn b\n\t}\n\treturn a\n}\n\n")
	}

	b.WriteString("func Settle(v []uint64) {\n")
	for i := range prog {
		p := &prog[i]
		b.WriteString("\tv[")
		b.WriteString(strconv.Itoa(p.out))
		b.WriteString("] = ")
		b.WriteString(genExpr(p))
		b.WriteByte('\n')
	}
	b.WriteString("}\n\nfunc main() {}\n")
	return b.String()
}

func genExpr(p *progOp) string {
	switch p.op {
	case And:
		return genFold(p.in, " & ")
	case Or:
		return genFold(p.in, " | ")
	case Xor:
		return genFold(p.in, " ^ ")
	case Nand:
		return "^(" + genFold(p.in, " & ") + ") & " + hex(p.mask)
	case Nor:
		return "^(" + genFold(p.in, " | ") + ") & " + hex(p.mask)
	case Xnor:
		return "^(" + genFold(p.in, " ^ ") + ") & " + hex(p.mask)
	case Not:
		return "^" + ref(p.in[0]) + " & " + hex(p.mask)
	case Buf:
		return ref(p.in[0])
	case Mux:
		return "mux(" + ref(p.in[0]) + ", " + ref(p.in[1]) + ", " + ref(p.in[2]) + ")"
	case Const:
		return hex(p.val)
	}
	return "0" // unreachable, ops are validated at netlist construction
}

func genFold(in []int, op string) string {
	var b strings.Builder
	for i, n := range in {
		if i > 0 {
			b.WriteString(op)
		}
		b.WriteString(ref(n))
	}
	return b.String()
}

func ref(n int) string {
	return "v[" + strconv.Itoa(n) + "]"
}

func hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
