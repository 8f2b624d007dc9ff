// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing netlists across
// evaluator backends.
//
package simtest

import (
	"math/rand"
	"testing"
	"time"

	"github.com/db47h/netsim"
)

// CompareBackends drives the interpreter, compiled and vectorized backends
// over the same netlist with the same random input sequence for the given
// number of ticks and fails the test on the first diverging peek. The
// compiled backend is allowed to fall back to the interpreter; the test then
// still exercises the fallback path.
//
func CompareBackends(t *testing.T, n *netsim.Netlist, steps int) {
	t.Helper()

	seed := time.Now().UnixNano()
	t.Logf("seed %d", seed)
	rng := rand.New(rand.NewSource(seed))

	ref, err := netsim.New(n)
	if err != nil {
		t.Fatal(err)
	}
	comp, err := netsim.New(n, netsim.WithBackend(netsim.Compiled))
	if err != nil {
		t.Fatal(err)
	}
	defer comp.Close()
	if notice := comp.Notice(); notice != "" {
		t.Log(notice)
	}
	vec, err := netsim.New(n, netsim.WithBackend(netsim.Vector), netsim.WithLanes(3))
	if err != nil {
		t.Fatal(err)
	}
	evs := []netsim.Evaluator{ref, comp, vec}

	inputs := n.Inputs()
	outputs := n.Outputs()

	for i := 0; i < steps; i++ {
		for _, in := range inputs {
			w, err := n.PortWidth(in)
			if err != nil {
				t.Fatal(err)
			}
			v := rng.Uint64() & (^uint64(0) >> uint(64-w))
			for _, ev := range evs {
				if err := ev.Poke(in, v); err != nil {
					t.Fatal(err)
				}
			}
		}
		for _, ev := range evs {
			ev.Tick()
		}
		for _, out := range outputs {
			want, err := ref.Peek(out)
			if err != nil {
				t.Fatal(err)
			}
			for _, ev := range evs[1:] {
				got, err := ev.Peek(out)
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Fatalf("step %d: %s backend: %s = %#x, interpreter got %#x", i, ev.Backend(), out, got, want)
				}
			}
		}
	}
}

// CompareLanes checks lane independence: a vectorized evaluator with lanes
// distinct random input sequences must produce, per lane, exactly what a
// separate interpreter fed the same sequence produces.
//
func CompareLanes(t *testing.T, n *netsim.Netlist, lanes, steps int) {
	t.Helper()

	seed := time.Now().UnixNano()
	t.Logf("seed %d", seed)
	rng := rand.New(rand.NewSource(seed))

	vec, err := netsim.New(n, netsim.WithBackend(netsim.Vector), netsim.WithLanes(lanes))
	if err != nil {
		t.Fatal(err)
	}
	refs := make([]netsim.Evaluator, lanes)
	for l := range refs {
		if refs[l], err = netsim.New(n); err != nil {
			t.Fatal(err)
		}
	}

	inputs := n.Inputs()
	outputs := n.Outputs()

	for i := 0; i < steps; i++ {
		for _, in := range inputs {
			w, err := n.PortWidth(in)
			if err != nil {
				t.Fatal(err)
			}
			for l := 0; l < lanes; l++ {
				v := rng.Uint64() & (^uint64(0) >> uint(64-w))
				if err := vec.PokeLane(in, v, l); err != nil {
					t.Fatal(err)
				}
				if err := refs[l].Poke(in, v); err != nil {
					t.Fatal(err)
				}
			}
		}
		vec.Tick()
		for _, ref := range refs {
			ref.Tick()
		}
		for _, out := range outputs {
			for l := 0; l < lanes; l++ {
				want, err := refs[l].Peek(out)
				if err != nil {
					t.Fatal(err)
				}
				got, err := vec.PeekLane(out, l)
				if err != nil {
					t.Fatal(err)
				}
				if got != want {
					t.Fatalf("step %d lane %d: %s = %#x, interpreter got %#x", i, l, out, got, want)
				}
			}
		}
	}
}
