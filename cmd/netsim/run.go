// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/db47h/netsim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	runBackend string
	runLanes   int
	runTicks   int
	runPokes   []string
)

var runCmd = &cobra.Command{
	Use:   "run netlist.json",
	Short: "Run a netlist and print its outputs",
	Long: `Run loads a netlist, applies the given input values, ticks the
simulation and prints the final value of every output port.
`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := loadNetlist(args[0])
		if err != nil {
			return err
		}
		b, err := backendFlag(runBackend)
		if err != nil {
			return err
		}
		ev, err := netsim.New(n, netsim.WithBackend(b), netsim.WithLanes(runLanes))
		if err != nil {
			return err
		}
		defer ev.Close()
		if notice := ev.Notice(); notice != "" {
			log.Print(notice)
		}
		for _, p := range runPokes {
			eq := strings.IndexByte(p, '=')
			if eq < 0 {
				return errors.Errorf("invalid poke %q (want name=value)", p)
			}
			v, err := strconv.ParseUint(p[eq+1:], 0, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid poke %q", p)
			}
			if err := ev.Poke(p[:eq], v); err != nil {
				return err
			}
		}
		ev.RunSteps(runTicks)
		for _, out := range n.Outputs() {
			v, err := ev.Peek(out)
			if err != nil {
				return err
			}
			fmt.Printf("%s = %d\n", out, v)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runBackend, "backend", "interp", "evaluation backend (interp, compiled, vector)")
	runCmd.Flags().IntVar(&runLanes, "lanes", 1, "number of simulation lanes")
	runCmd.Flags().IntVar(&runTicks, "ticks", 1, "number of ticks to run")
	runCmd.Flags().StringArrayVar(&runPokes, "poke", nil, "input value as name=value, may be repeated")
	rootCmd.AddCommand(runCmd)
}
