package netsim_test

import (
	"testing"

	ns "github.com/db47h/netsim"
)

func vectorEval(t *testing.T, n *ns.Netlist, lanes int) ns.Evaluator {
	t.Helper()
	ev, err := ns.New(n, ns.WithBackend(ns.Vector), ns.WithLanes(lanes))
	if err != nil {
		t.Fatal(err)
	}
	if ev.Backend() != ns.Vector {
		t.Fatalf("backend = %v, want Vector", ev.Backend())
	}
	return ev
}

func Test_vector_lane_independence(t *testing.T) {
	ev := vectorEval(t, andNetlist(t), 4)
	// lanes see different inputs and must produce different outputs.
	for l := 0; l < 4; l++ {
		if err := ev.PokeLane("a", uint64(l>>1), l); err != nil {
			t.Fatal(err)
		}
		if err := ev.PokeLane("b", uint64(l&1), l); err != nil {
			t.Fatal(err)
		}
	}
	ev.Tick()
	want := []uint64{0, 0, 0, 1}
	for l, w := range want {
		got, err := ev.PeekLane("y", l)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("lane %d: y = %d, want %d", l, got, w)
		}
	}
}

func Test_vector_broadcast(t *testing.T) {
	ev := vectorEval(t, andNetlist(t), 3)
	poke(t, ev, "a", 1)
	poke(t, ev, "b", 1)
	ev.Tick()
	ys, err := ev.PeekAll("y", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ys) != 3 {
		t.Fatalf("PeekAll returned %d values, want 3", len(ys))
	}
	for l, y := range ys {
		if y != 1 {
			t.Errorf("lane %d: y = %d, want 1", l, y)
		}
	}
	// Peek reads lane 0.
	if got := peek(t, ev, "y"); got != 1 {
		t.Errorf("Peek(y) = %d, want 1", got)
	}
}

func Test_vector_poke_all(t *testing.T) {
	ev := vectorEval(t, gateNetlist(t, ns.Xor, 8), 3)
	if err := ev.PokeAll("a", []uint64{0x0f, 0xf0, 0xff}); err != nil {
		t.Fatal(err)
	}
	poke(t, ev, "b", 0x55)
	ev.Tick()
	want := []uint64{0x5a, 0xa5, 0xaa}
	ys, err := ev.PeekAll("y", nil)
	if err != nil {
		t.Fatal(err)
	}
	for l, w := range want {
		if ys[l] != w {
			t.Errorf("lane %d: y = %#x, want %#x", l, ys[l], w)
		}
	}
	// wrong slice length is rejected.
	if err := ev.PokeAll("a", []uint64{1, 2}); err == nil {
		t.Error("PokeAll with 2 values on 3 lanes: expected error")
	}
}

func Test_vector_lane_errors(t *testing.T) {
	ev := vectorEval(t, andNetlist(t), 2)
	err := ev.PokeLane("a", 1, 5)
	lerr, ok := err.(*ns.LaneOutOfRangeError)
	if !ok {
		t.Fatalf("got %T (%v), want LaneOutOfRangeError", err, err)
	}
	if lerr.Lane != 5 || lerr.Lanes != 2 {
		t.Errorf("error carries lane %d of %d, want 5 of 2", lerr.Lane, lerr.Lanes)
	}
	if _, err := ev.PeekLane("y", 2); err == nil {
		t.Error("PeekLane(lane 2): expected error")
	}
	if err := ev.Poke("nope", 0); err == nil {
		t.Error("Poke(nope): expected error")
	}
}

// Lane counts above the machine word size exercise the multi-word layout.
func Test_vector_many_lanes(t *testing.T) {
	const lanes = 130
	ev := vectorEval(t, gateNetlist(t, ns.Nand, 1), lanes)
	for l := 0; l < lanes; l++ {
		if err := ev.PokeLane("a", uint64(l)&1, l); err != nil {
			t.Fatal(err)
		}
		if err := ev.PokeLane("b", 1, l); err != nil {
			t.Fatal(err)
		}
	}
	ev.Tick()
	for l := 0; l < lanes; l++ {
		want := uint64(1) - uint64(l)&1 // NAND(l&1, 1)
		got, err := ev.PeekLane("y", l)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("lane %d: y = %d, want %d", l, got, want)
		}
	}
}

// Per-lane clocking: each lane's flip-flop advances only when that lane's
// clock net toggles.
func Test_vector_per_lane_clock(t *testing.T) {
	ev := vectorEval(t, dffNetlist(t), 2)
	poke(t, ev, "d", 1)
	poke(t, ev, "clk", 0)
	ev.Tick()
	// pulse the clock on lane 1 only.
	if err := ev.PokeLane("clk", 1, 1); err != nil {
		t.Fatal(err)
	}
	ev.Tick()
	q0, err := ev.PeekLane("q", 0)
	if err != nil {
		t.Fatal(err)
	}
	q1, err := ev.PeekLane("q", 1)
	if err != nil {
		t.Fatal(err)
	}
	if q0 != 0 || q1 != 1 {
		t.Errorf("q = %d, %d, want 0, 1", q0, q1)
	}
}

func Test_vector_matches_interp(t *testing.T) {
	mk := func(backend ns.Backend, lanes int) ns.Evaluator {
		ev, err := ns.New(dffNetlist(t), ns.WithBackend(backend), ns.WithLanes(lanes))
		if err != nil {
			t.Fatal(err)
		}
		return ev
	}
	iv := mk(ns.Interp, 1)
	vv := mk(ns.Vector, 1)
	seq := []struct{ d, clk, reset uint64 }{
		{1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {0, 1, 0},
		{1, 1, 0}, {1, 0, 1}, {1, 1, 1}, {1, 0, 0}, {1, 1, 0},
	}
	for i, s := range seq {
		for _, ev := range []ns.Evaluator{iv, vv} {
			poke(t, ev, "d", s.d)
			poke(t, ev, "clk", s.clk)
			poke(t, ev, "reset", s.reset)
			ev.Tick()
		}
		a, b := peek(t, iv, "q"), peek(t, vv, "q")
		if a != b {
			t.Fatalf("step %d: interp q=%d, vector q=%d", i, a, b)
		}
	}
}
