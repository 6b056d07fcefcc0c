package main

import (
	"fmt"
	"os"

	"github.com/ibr-lang/ibrc/grammar"
	"github.com/ibr-lang/ibrc/ibr"
	"github.com/spf13/cobra"
)

var tableFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "table",
		Short:   "Generate the FIRST/FOLLOW sets and the SLR(1) parsing table as CSV",
		Example: `  ibrc table -o data`,
		Args:    cobra.NoArgs,
		RunE:    runTable,
	}
	tableFlags.output = cmd.Flags().StringP("output", "o", "data", "output directory path")
	rootCmd.AddCommand(cmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	g, err := ibr.Grammar()
	if err != nil {
		return err
	}
	ff, err := grammar.GenFirstFollow(g)
	if err != nil {
		return err
	}
	ptab, err := grammar.GenParsingTable(g, ff)
	if err != nil {
		return err
	}

	err = writeArtifacts(*tableFlags.output, g, ff, ptab)
	if err != nil {
		return fmt.Errorf("Cannot write the table artifacts: %w", err)
	}

	fmt.Fprintf(os.Stdout, "%v states\n", ptab.StateCount())
	if ptab.HasConflicts() {
		for _, c := range ptab.Conflicts() {
			fmt.Fprintf(os.Stdout, "%v\n", c)
		}
		fmt.Fprintf(os.Stdout, "%v conflicts\n", len(ptab.Conflicts()))
	}

	return nil
}
