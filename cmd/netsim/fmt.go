// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt netlist.json",
	Short: "Validate a netlist and rewrite it in canonical form",
	Long: `Fmt loads a netlist, which validates it and computes its schedule,
then writes it back to standard output in the interchange format.
`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := loadNetlist(args[0])
		if err != nil {
			return err
		}
		return n.ToJSON(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
