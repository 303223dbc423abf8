package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagDotPath string

func init() {
	graphDumpCmd.Flags().StringVar(&flagDotPath, "out", "demo.dot", "output path for the Graphviz dump")
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect the DLA layout-type graph",
}

var graphDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the built-in demo function's DLA graph as Graphviz dot",
	RunE: func(cmd *cobra.Command, args []string) error {
		fn, _, _ := buildDemoFunction()
		g := buildDemoGraph(fn)
		if err := g.DumpDot(flagDotPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d nodes)\n", flagDotPath, len(g.Nodes()))
		return nil
	},
}

func init() {
	graphCmd.AddCommand(graphDumpCmd)
}
