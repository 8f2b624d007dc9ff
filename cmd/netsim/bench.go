// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/db47h/netsim"
	"github.com/db47h/netsim/lower"
	"github.com/db47h/netsim/netlib"
	"github.com/spf13/cobra"
)

var (
	benchTicks int
	benchLanes int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the evaluation backends",
	Long: `Bench runs library circuits (a 16-bit adder and a 16-bit counter)
for a fixed number of ticks under every backend and reports ticks per
second. The vectorized backend additionally reports lane-ticks per second,
its effective throughput across all lanes.
`,

	RunE: func(cmd *cobra.Command, args []string) error {
		circuits := []struct {
			name string
			part lower.NewPartFn
		}{
			{"Adder16", netlib.AdderN(16)},
			{"Counter16", netlib.CounterN(16)},
		}
		for _, c := range circuits {
			n, err := lower.Build(c.part)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d gates, %d dffs\n", c.name, n.GateCount(), n.DFFCount())
			for _, b := range []netsim.Backend{netsim.Interp, netsim.Compiled, netsim.Vector} {
				if err := benchBackend(n, b); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func benchBackend(n *netsim.Netlist, b netsim.Backend) error {
	lanes := 1
	if b == netsim.Vector {
		lanes = benchLanes
	}
	ev, err := netsim.New(n, netsim.WithBackend(b), netsim.WithLanes(lanes))
	if err != nil {
		return err
	}
	defer ev.Close()
	if notice := ev.Notice(); notice != "" {
		log.Print(notice)
	}

	// drive the clock if there is one so flip-flops do real work.
	clocked := false
	for _, in := range n.Inputs() {
		if in == "clk" {
			clocked = true
		}
	}

	start := time.Now()
	for i := 0; i < benchTicks; i++ {
		if clocked {
			ev.Poke("clk", uint64(i)&1)
		}
		ev.Tick()
	}
	elapsed := time.Since(start)

	hz := float64(benchTicks) / elapsed.Seconds()
	if lanes > 1 {
		fmt.Printf("  %-8s %12.0f ticks/s %12.0f lane-ticks/s\n", ev.Backend(), hz, hz*float64(lanes))
	} else {
		fmt.Printf("  %-8s %12.0f ticks/s\n", ev.Backend(), hz)
	}
	return nil
}

func init() {
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 100000, "ticks to run per backend")
	benchCmd.Flags().IntVar(&benchLanes, "lanes", 64, "lanes for the vectorized backend")
	rootCmd.AddCommand(benchCmd)
}
