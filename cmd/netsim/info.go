// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info netlist.json",
	Short: "Print netlist statistics",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := loadNetlist(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("nets:    %d\n", n.NetCount())
		fmt.Printf("gates:   %d\n", n.GateCount())
		fmt.Printf("dffs:    %d\n", n.DFFCount())
		fmt.Printf("inputs:  %s\n", strings.Join(n.Inputs(), ", "))
		fmt.Printf("outputs: %s\n", strings.Join(n.Outputs(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
