// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsim

// schedule computes a topological evaluation order over the netlist's gates
// using Kahn's algorithm. Edges run from a gate to every gate consuming its
// output net. Flip-flop outputs and primary inputs are fixed sources for the
// duration of a tick, which is what makes the graph acyclic even though the
// full circuit has feedback through state.
//
// The order is deterministic: the ready set is drained in gate index order.
//
func schedule(n *Netlist) ([]int, error) {
	// producer[i] is the index of the gate driving net i, or -1.
	producer := make([]int, len(n.nets))
	for i := range producer {
		producer[i] = -1
	}
	for gi, g := range n.gates {
		producer[n.netIdx[g.Out]] = gi
	}

	succ := make([][]int, len(n.gates))
	indeg := make([]int, len(n.gates))
	for gi, g := range n.gates {
		for _, in := range g.In {
			if p := producer[n.netIdx[in]]; p >= 0 {
				succ[p] = append(succ[p], gi)
				indeg[gi]++
			}
		}
	}

	order := make([]int, 0, len(n.gates))
	queue := make([]int, 0, len(n.gates))
	for gi := range n.gates {
		if indeg[gi] == 0 {
			queue = append(queue, gi)
		}
	}
	for len(queue) > 0 {
		gi := queue[0]
		queue = queue[1:]
		order = append(order, gi)
		for _, s := range succ[gi] {
			if indeg[s]--; indeg[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if len(order) < len(n.gates) {
		// some gates never became ready: they sit on a combinational cycle.
		// Name the output net of the first one as the offender.
		for gi := range n.gates {
			if indeg[gi] > 0 {
				return nil, &CombinationalCycleError{Net: n.gates[gi].Out}
			}
		}
	}
	return order, nil
}
