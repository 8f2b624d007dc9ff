// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command netsim inspects, runs and benchmarks gate-level netlists in the
// JSON interchange format.
package main

import (
	"os"

	"github.com/db47h/netsim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "netsim",
	Short:         "Gate-level netlist simulator",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadNetlist reads a netlist from a JSON interchange file.
func loadNetlist(path string) (*netsim.Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open netlist")
	}
	defer f.Close()
	return netsim.FromJSON(f)
}

// backendFlag maps the --backend flag to a netsim.Backend.
func backendFlag(name string) (netsim.Backend, error) {
	switch name {
	case "interp":
		return netsim.Interp, nil
	case "compiled":
		return netsim.Compiled, nil
	case "vector":
		return netsim.Vector, nil
	}
	return 0, errors.Errorf("unknown backend %q (want interp, compiled or vector)", name)
}
