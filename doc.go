/*
Package netsim is a gate-level netlist simulation engine.

A netlist is a flat graph of nets, primitive logic gates and D flip-flops
with named input and output ports. Netlists are produced by flattening
hierarchical part descriptions (package lower), or loaded from a JSON
interchange document (FromJSON).

Simulation is synchronous: a tick settles all combinational logic once, in a
cached topological order, then captures every flip-flop on its clock edge.
Three interchangeable backends execute ticks: an interpreter, an
ahead-of-time compiled backend, and a vectorized backend packing many
independent simulation lanes into machine words. All three are bit-identical
in observable behavior.

	n, err := lower.Build(netlib.AdderN(8))
	if err != nil {
		// ...
	}
	ev, err := netsim.New(n, netsim.WithBackend(netsim.Vector), netsim.WithLanes(64))
	if err != nil {
		// ...
	}
	ev.Poke("a", 17)
	ev.Poke("b", 25)
	ev.Tick()
	sum, _ := ev.Peek("out")
*/
package netsim
