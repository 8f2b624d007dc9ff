package netsim_test

import (
	"strings"
	"testing"

	ns "github.com/db47h/netsim"
)

func net(id ns.NetID, w int) ns.Net { return ns.Net{ID: id, Width: w} }

func ports(kv ...interface{}) map[string][]ns.NetID {
	m := make(map[string][]ns.NetID)
	for i := 0; i < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1].([]ns.NetID)
	}
	return m
}

// andNetlist returns the simplest combinational netlist: y = a AND b.
func andNetlist(t *testing.T) *ns.Netlist {
	t.Helper()
	n, err := ns.NewNetlist(
		[]ns.Net{net(0, 1), net(1, 1), net(2, 1)},
		[]ns.Gate{{ID: 0, Op: ns.And, In: []ns.NetID{0, 1}, Out: 2}},
		nil,
		ports("a", []ns.NetID{0}, "b", []ns.NetID{1}),
		ports("y", []ns.NetID{2}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// dffNetlist returns a single flip-flop with synchronous reset.
func dffNetlist(t *testing.T) *ns.Netlist {
	t.Helper()
	n, err := ns.NewNetlist(
		[]ns.Net{net(0, 1), net(1, 1), net(2, 1), net(3, 1)},
		nil,
		[]ns.DFF{{ID: 0, D: 0, Q: 2, Clk: 1, Reset: 3}},
		ports("d", []ns.NetID{0}, "clk", []ns.NetID{1}, "reset", []ns.NetID{3}),
		ports("q", []ns.NetID{2}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func Test_netlist_introspection(t *testing.T) {
	n := andNetlist(t)
	if got := n.NetCount(); got != 3 {
		t.Errorf("NetCount() = %d, want 3", got)
	}
	if got := n.GateCount(); got != 1 {
		t.Errorf("GateCount() = %d, want 1", got)
	}
	if got := n.DFFCount(); got != 0 {
		t.Errorf("DFFCount() = %d, want 0", got)
	}
	if got := n.Inputs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Inputs() = %v", got)
	}
	if got := n.Outputs(); len(got) != 1 || got[0] != "y" {
		t.Errorf("Outputs() = %v", got)
	}
	if w, err := n.PortWidth("y"); err != nil || w != 1 {
		t.Errorf("PortWidth(y) = %d, %v", w, err)
	}
	if _, err := n.PortWidth("nope"); err == nil {
		t.Error("PortWidth(nope): expected error")
	}
}

func Test_netlist_validation(t *testing.T) {
	td := []struct {
		name  string
		nets  []ns.Net
		gates []ns.Gate
		dffs  []ns.DFF
		ins   map[string][]ns.NetID
		outs  map[string][]ns.NetID
		want  string
	}{
		{name: "duplicate net id",
			nets: []ns.Net{net(0, 1), net(0, 1)},
			want: "duplicate net id"},
		{name: "invalid width",
			nets: []ns.Net{net(0, 65)},
			want: "invalid width"},
		{name: "no driver",
			nets: []ns.Net{net(0, 1)},
			want: "no driver"},
		{name: "two drivers",
			nets: []ns.Net{net(0, 1), net(1, 1)},
			gates: []ns.Gate{
				{ID: 0, Op: ns.Not, In: []ns.NetID{0}, Out: 1},
				{ID: 1, Op: ns.Buf, In: []ns.NetID{0}, Out: 1}},
			ins:  map[string][]ns.NetID{"a": {0}},
			want: "more than one driver"},
		{name: "gate drives input",
			nets:  []ns.Net{net(0, 1), net(1, 1)},
			gates: []ns.Gate{{ID: 0, Op: ns.Not, In: []ns.NetID{0}, Out: 1}},
			ins:   map[string][]ns.NetID{"a": {0}, "b": {1}},
			want:  "more than one driver"},
		{name: "width mismatch",
			nets:  []ns.Net{net(0, 8), net(1, 4), net(2, 8)},
			gates: []ns.Gate{{ID: 0, Op: ns.And, In: []ns.NetID{0, 1}, Out: 2}},
			ins:   map[string][]ns.NetID{"a": {0}, "b": {1}},
			want:  "width"},
		{name: "mux selector width",
			nets: []ns.Net{net(0, 4), net(1, 4), net(2, 4), net(3, 4)},
			gates: []ns.Gate{
				{ID: 0, Op: ns.Mux, In: []ns.NetID{0, 1, 2}, Out: 3}},
			ins:  map[string][]ns.NetID{"a": {0}, "b": {1}, "sel": {2}},
			want: "selector"},
		{name: "const with inputs",
			nets:  []ns.Net{net(0, 1), net(1, 1)},
			gates: []ns.Gate{{ID: 0, Op: ns.Const, In: []ns.NetID{0}, Out: 1}},
			ins:   map[string][]ns.NetID{"a": {0}},
			want:  "CONST takes no inputs"},
		{name: "dff clock width",
			nets: []ns.Net{net(0, 1), net(1, 2), net(2, 1)},
			dffs: []ns.DFF{{ID: 0, D: 0, Q: 2, Clk: 1, Reset: ns.NoNet}},
			ins:  map[string][]ns.NetID{"d": {0}, "clk": {1}},
			want: "clock net"},
		{name: "port too wide",
			nets:  []ns.Net{net(0, 64), net(1, 1), net(2, 64)},
			gates: []ns.Gate{{ID: 0, Op: ns.Buf, In: []ns.NetID{0}, Out: 2}},
			ins:   map[string][]ns.NetID{"a": {0}, "b": {1}},
			outs:  map[string][]ns.NetID{"y": {2, 1}},
			want:  "bits wide"},
		{name: "unknown net in port",
			nets: []ns.Net{net(0, 1)},
			ins:  map[string][]ns.NetID{"a": {0}, "b": {7}},
			want: "unknown net"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := ns.NewNetlist(d.nets, d.gates, d.dffs, d.ins, d.outs)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), d.want) {
				t.Fatalf("error %q does not mention %q", err, d.want)
			}
		})
	}
}

func Test_netlist_shared(t *testing.T) {
	// one netlist, several evaluators with independent state.
	n := andNetlist(t)
	e1, err := ns.New(n)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := ns.New(n)
	if err != nil {
		t.Fatal(err)
	}
	e1.Poke("a", 1)
	e1.Poke("b", 1)
	e1.Tick()
	e2.Tick()
	if v, _ := e1.Peek("y"); v != 1 {
		t.Errorf("e1 y = %d, want 1", v)
	}
	if v, _ := e2.Peek("y"); v != 0 {
		t.Errorf("e2 y = %d, want 0", v)
	}
}
