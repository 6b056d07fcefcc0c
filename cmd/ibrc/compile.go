package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/ibr-lang/ibrc/codegen"
	"github.com/ibr-lang/ibrc/semantic"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output      *string
	dataDir     *string
	emitTAC     *bool
	emitSymbols *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <source file path>",
		Short:   "Compile an IBR source file into x86-64 assembly",
		Example: `  ibrc compile hello.ibr -o hello.s`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default: the source path with a .s extension)")
	compileFlags.dataDir = cmd.Flags().StringP("data", "d", "", "directory holding the CSV table artifacts (default: regenerate)")
	compileFlags.emitTAC = cmd.Flags().Bool("emit-tac", false, "print the three-address code to stdout")
	compileFlags.emitSymbols = cmd.Flags().Bool("emit-symbols", false, "print the symbol table to stdout")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}
			retErr = err
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	srcPath := args[0]
	res, err := parseSource(srcPath, *compileFlags.dataDir)
	if err != nil {
		return err
	}
	if !res.Accepted {
		for _, synErr := range res.SyntaxErrors {
			fmt.Fprintf(os.Stderr, "%v\n", synErr)
		}
		return fmt.Errorf("%v syntax errors", len(res.SyntaxErrors))
	}

	a := semantic.NewAnalyzer()
	semErrs := a.Analyze(res.Tree.Root)
	if len(semErrs) > 0 {
		for _, semErr := range semErrs {
			fmt.Fprintf(os.Stderr, "%v\n", semErr)
		}
		return fmt.Errorf("%v semantic errors", len(semErrs))
	}
	if *compileFlags.emitSymbols {
		semantic.PrintSymbolTable(os.Stdout, a.SymbolTable())
	}

	instrs := codegen.NewGenerator().Generate(res.Tree.Root)
	if *compileFlags.emitTAC {
		for _, instr := range instrs {
			fmt.Fprintf(os.Stdout, "%v\n", instr)
		}
	}

	asmPath := *compileFlags.output
	if asmPath == "" {
		asmPath = strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".s"
	}
	f, err := os.OpenFile(asmPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("Cannot write the output file %s: %w", asmPath, err)
	}
	defer f.Close()
	for _, line := range codegen.Translate(instrs) {
		fmt.Fprintln(f, line)
	}

	return nil
}
