package netlib_test

import (
	"testing"

	"github.com/db47h/netsim"
	"github.com/db47h/netsim/lower"
	"github.com/db47h/netsim/netlib"
)

func Test_register8(t *testing.T) {
	ev := build(t, netlib.RegisterN(8))
	poke(t, ev, "in", 0xa5)
	poke(t, ev, "clk", 0)
	ev.Tick()
	if got := peek(t, ev, "out"); got != 0 {
		t.Fatalf("out = %#x before the edge, want 0", got)
	}
	poke(t, ev, "clk", 1)
	ev.Tick()
	if got := peek(t, ev, "out"); got != 0xa5 {
		t.Fatalf("out = %#x after the edge, want 0xa5", got)
	}
	// held clock: no capture.
	poke(t, ev, "in", 0x5a)
	ev.Tick()
	if got := peek(t, ev, "out"); got != 0xa5 {
		t.Fatalf("out = %#x with clock held high, want 0xa5", got)
	}
}

func Test_counter8(t *testing.T) {
	ev := build(t, netlib.CounterN(8))
	pulse := func() {
		poke(t, ev, "clk", 0)
		ev.Tick()
		poke(t, ev, "clk", 1)
		ev.Tick()
	}
	for i := 1; i <= 300; i++ {
		pulse()
		if got, want := peek(t, ev, "out"), uint64(i)&0xff; got != want {
			t.Fatalf("after %d pulses: out = %d, want %d", i, got, want)
		}
	}
	poke(t, ev, "reset", 1)
	pulse()
	if got := peek(t, ev, "out"); got != 0 {
		t.Fatalf("out = %d after reset, want 0", got)
	}
	poke(t, ev, "reset", 0)
	pulse()
	if got := peek(t, ev, "out"); got != 1 {
		t.Fatalf("out = %d after reset release, want 1", got)
	}
}

// four vector lanes of one counter netlist, clocked independently: each
// lane's count reflects only its own clock pulses.
func Test_counter_lanes(t *testing.T) {
	n, err := lower.Build(netlib.CounterN(8))
	if err != nil {
		t.Fatal(err)
	}
	ev, err := netsim.New(n, netsim.WithBackend(netsim.Vector), netsim.WithLanes(4))
	if err != nil {
		t.Fatal(err)
	}

	// lane l gets a pulse on round r iff r%(l+1) == 0.
	const rounds = 24
	pulses := [4]uint64{}
	for r := 0; r < rounds; r++ {
		for l := 0; l < 4; l++ {
			if r%(l+1) == 0 {
				if err := ev.PokeLane("clk", 0, l); err != nil {
					t.Fatal(err)
				}
			}
		}
		ev.Tick()
		for l := 0; l < 4; l++ {
			if r%(l+1) == 0 {
				if err := ev.PokeLane("clk", 1, l); err != nil {
					t.Fatal(err)
				}
				pulses[l]++
			}
		}
		ev.Tick()
	}

	counts, err := ev.PeekAll("out", nil)
	if err != nil {
		t.Fatal(err)
	}
	for l, got := range counts {
		if got != pulses[l] {
			t.Errorf("lane %d: out = %d, want %d", l, got, pulses[l])
		}
	}

	// reset even lanes only, pulsing every lane's clock.
	for l := 0; l < 4; l += 2 {
		if err := ev.PokeLane("reset", 1, l); err != nil {
			t.Fatal(err)
		}
	}
	if err := ev.Poke("clk", 0); err != nil {
		t.Fatal(err)
	}
	ev.Tick()
	if err := ev.Poke("clk", 1); err != nil {
		t.Fatal(err)
	}
	ev.Tick()
	counts, err = ev.PeekAll("out", counts[:0])
	if err != nil {
		t.Fatal(err)
	}
	for l, got := range counts {
		want := pulses[l] + 1
		if l%2 == 0 {
			want = 0
		}
		if got != want {
			t.Errorf("lane %d after reset: out = %d, want %d", l, got, want)
		}
	}
}
