package netsim_test

import (
	"testing"

	ns "github.com/db47h/netsim"
)

// Test_schedule_order checks that every gate appears after the producers of
// its inputs in the cached evaluation order.
func Test_schedule_order(t *testing.T) {
	// y = (a AND b) XOR NOT(a), built with gate ids out of dependency order.
	n, err := ns.NewNetlist(
		[]ns.Net{net(0, 1), net(1, 1), net(2, 1), net(3, 1), net(4, 1)},
		[]ns.Gate{
			{ID: 0, Op: ns.Xor, In: []ns.NetID{2, 3}, Out: 4},
			{ID: 1, Op: ns.And, In: []ns.NetID{0, 1}, Out: 2},
			{ID: 2, Op: ns.Not, In: []ns.NetID{0}, Out: 3},
		},
		nil,
		ports("a", []ns.NetID{0}, "b", []ns.NetID{1}),
		ports("y", []ns.NetID{4}),
	)
	if err != nil {
		t.Fatal(err)
	}
	order := n.Schedule()
	if len(order) != 3 {
		t.Fatalf("schedule has %d entries, want 3", len(order))
	}
	pos := make(map[ns.GateID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	// the XOR consumes both other gates' outputs.
	if pos[0] < pos[1] || pos[0] < pos[2] {
		t.Errorf("gate 0 scheduled at %d, before its producers (%d, %d)", pos[0], pos[1], pos[2])
	}

	// single tick sanity check on the scheduled program.
	ev, err := ns.New(n)
	if err != nil {
		t.Fatal(err)
	}
	poke(t, ev, "a", 1)
	poke(t, ev, "b", 1)
	ev.Tick()
	if got := peek(t, ev, "y"); got != 1 {
		t.Errorf("y = %d, want 1", got)
	}
}

func Test_schedule_deterministic(t *testing.T) {
	mk := func() []ns.GateID {
		n, err := ns.NewNetlist(
			[]ns.Net{net(0, 1), net(1, 1), net(2, 1), net(3, 1), net(4, 1)},
			[]ns.Gate{
				{ID: 0, Op: ns.Not, In: []ns.NetID{0}, Out: 2},
				{ID: 1, Op: ns.Not, In: []ns.NetID{1}, Out: 3},
				{ID: 2, Op: ns.And, In: []ns.NetID{2, 3}, Out: 4},
			},
			nil,
			ports("a", []ns.NetID{0}, "b", []ns.NetID{1}),
			ports("y", []ns.NetID{4}),
		)
		if err != nil {
			t.Fatal(err)
		}
		return n.Schedule()
	}
	a, b := mk(), mk()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("schedule differs at %d: %d != %d", i, a[i], b[i])
		}
	}
}

func Test_combinational_cycle(t *testing.T) {
	// x = NOT y, y = NOT x: a pure combinational loop.
	_, err := ns.NewNetlist(
		[]ns.Net{net(0, 1), net(1, 1)},
		[]ns.Gate{
			{ID: 0, Op: ns.Not, In: []ns.NetID{1}, Out: 0},
			{ID: 1, Op: ns.Not, In: []ns.NetID{0}, Out: 1},
		},
		nil,
		nil,
		ports("x", []ns.NetID{0}),
	)
	if err == nil {
		t.Fatal("expected CombinationalCycleError")
	}
	if _, ok := err.(*ns.CombinationalCycleError); !ok {
		t.Fatalf("got %T (%v), want CombinationalCycleError", err, err)
	}
}

// A feedback loop through a flip-flop is legal: the register breaks the
// combinational path.
func Test_cycle_broken_by_dff(t *testing.T) {
	n, err := ns.NewNetlist(
		[]ns.Net{net(0, 1), net(1, 1), net(2, 1)},
		[]ns.Gate{{ID: 0, Op: ns.Not, In: []ns.NetID{2}, Out: 0}},
		[]ns.DFF{{ID: 0, D: 0, Q: 2, Clk: 1, Reset: ns.NoNet}},
		ports("clk", []ns.NetID{1}),
		ports("q", []ns.NetID{2}),
	)
	if err != nil {
		t.Fatal(err)
	}
	ev, err := ns.New(n)
	if err != nil {
		t.Fatal(err)
	}
	// the loop is a toggle: q inverts on every rising edge.
	want := []uint64{1, 0, 1, 0}
	for i, w := range want {
		poke(t, ev, "clk", 0)
		ev.Tick()
		poke(t, ev, "clk", 1)
		ev.Tick()
		if got := peek(t, ev, "q"); got != w {
			t.Fatalf("pulse %d: q = %d, want %d", i, got, w)
		}
	}
}
