package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ibrc",
	Short: "Compile IBR source code into x86-64 assembly",
	Long: `ibrc compiles IBR source code into x86-64 assembly.
The intermediate stages are also available as subcommands:
- Tokenizes a source file.
- Parses a source file and prints its derivation tree.
- Generates the SLR(1) parsing table and the FIRST/FOLLOW sets as CSV.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
